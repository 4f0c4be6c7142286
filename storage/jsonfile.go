package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/robinvdvleuten/spendlog/entry"
)

// JSONFile stores the ledger as a single JSON array. Writes go to a temporary file in
// the same directory which is then renamed over the ledger, so a crash leaves either
// the old or the new blob, never a partial one.
//
// The country is kept next to the ledger in "<name>-country".
type JSONFile struct {
	path string
}

// NewJSONFile returns a store for the ledger at path. The file is created on the
// first save.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// Path returns the location of the ledger file.
func (j *JSONFile) Path() string {
	return j.path
}

// CountryPath returns the location of the country file.
func (j *JSONFile) CountryPath() string {
	ext := filepath.Ext(j.path)
	return strings.TrimSuffix(j.path, ext) + "-country"
}

// CorruptLedgerError is returned when the ledger file exists but cannot be decoded.
type CorruptLedgerError struct {
	Path string
	Err  error
}

func (e *CorruptLedgerError) Error() string {
	return fmt.Sprintf("ledger file %s is corrupt: %v", e.Path, e.Err)
}

func (e *CorruptLedgerError) Unwrap() error {
	return e.Err
}

// LoadAll reads the ledger. A missing or empty file is an empty ledger.
func (j *JSONFile) LoadAll(ctx context.Context) ([]entry.Entry, error) {
	data, err := os.ReadFile(j.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", j.path, err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	var entries []entry.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, &CorruptLedgerError{Path: j.path, Err: err}
	}
	return entries, nil
}

// SaveAll replaces the ledger file with entries.
func (j *JSONFile) SaveAll(ctx context.Context, entries []entry.Entry) error {
	if entries == nil {
		entries = []entry.Entry{}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}
	data = append(data, '\n')

	return writeFileAtomic(j.path, data)
}

// Country returns the stored country code, or "" when none was saved.
func (j *JSONFile) Country(ctx context.Context) (string, error) {
	data, err := os.ReadFile(j.CountryPath())
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read country: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (j *JSONFile) SetCountry(ctx context.Context, code string) error {
	return writeFileAtomic(j.CountryPath(), []byte(code+"\n"))
}

func (j *JSONFile) Close() error { return nil }

func writeFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
