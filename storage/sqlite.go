package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/robinvdvleuten/spendlog/entry"
)

const countryKey = "country"

// SQLite stores the ledger in a SQLite database, one row per entry with a position
// column preserving ledger order.
type SQLite struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (creating if needed) the database at path and migrates it.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(path); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLite{db: db, path: path}, nil
}

// Path returns the location of the database file.
func (s *SQLite) Path() string {
	return s.path
}

func (s *SQLite) LoadAll(ctx context.Context) ([]entry.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, description, amount, date, category, payment_method, notes
		FROM entries
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []entry.Entry
	for rows.Next() {
		var (
			e      entry.Entry
			amount string
		)
		if err := rows.Scan(&e.ID, &e.Description, &amount, &e.Date, &e.Category, &e.PaymentMethod, &e.Notes); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("entry %s has invalid amount %q: %w", e.ID, amount, err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

// SaveAll replaces every row inside a single transaction.
func (s *SQLite) SaveAll(ctx context.Context, entries []entry.Entry) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return fmt.Errorf("delete entries: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries (id, position, description, amount, date, category, payment_method, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		if _, err = stmt.ExecContext(ctx, e.ID, i, e.Description, e.Amount.String(), string(e.Date), string(e.Category), string(e.PaymentMethod), e.Notes); err != nil {
			return fmt.Errorf("insert entry %s: %w", e.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *SQLite) Country(ctx context.Context) (string, error) {
	var code string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, countryKey).Scan(&code)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query country: %w", err)
	}
	return code, nil
}

func (s *SQLite) SetCountry(ctx context.Context, code string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`, countryKey, code)
	if err != nil {
		return fmt.Errorf("save country: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
