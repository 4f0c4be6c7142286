// Package storage provides the persistence backends of the tracker. Every backend
// stores the whole ledger as one unit and the selected country as a separate value.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/robinvdvleuten/spendlog/entry"
)

// Backend names a persistence backend.
type Backend string

const (
	BackendJSON   Backend = "json"
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

// Backends lists every supported backend.
var Backends = []Backend{BackendJSON, BackendSQLite, BackendMemory}

// Store is implemented by every backend.
type Store interface {
	LoadAll(ctx context.Context) ([]entry.Entry, error)
	SaveAll(ctx context.Context, entries []entry.Entry) error
	Country(ctx context.Context) (string, error)
	SetCountry(ctx context.Context, code string) error
	io.Closer
}

// UnknownBackendError is returned by Open for unsupported backend names.
type UnknownBackendError struct {
	Backend string
}

func (e *UnknownBackendError) Error() string {
	return fmt.Sprintf("unknown storage backend %q", e.Backend)
}

// Open returns the backend named by backend, storing its data at path. The memory
// backend ignores path.
func Open(ctx context.Context, backend Backend, path string) (Store, error) {
	switch Backend(strings.ToLower(string(backend))) {
	case BackendJSON, "":
		return NewJSONFile(path), nil
	case BackendSQLite:
		return OpenSQLite(ctx, path)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, &UnknownBackendError{Backend: string(backend)}
	}
}

// cloneEntries copies entries so backends never share a slice with their callers.
func cloneEntries(entries []entry.Entry) []entry.Entry {
	if entries == nil {
		return nil
	}
	out := make([]entry.Entry, len(entries))
	copy(out, entries)
	return out
}
