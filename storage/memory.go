package storage

import (
	"context"
	"sync"

	"github.com/robinvdvleuten/spendlog/entry"
)

// Memory keeps everything in process memory. Data is lost on exit.
type Memory struct {
	mu      sync.Mutex
	entries []entry.Entry
	country string
}

// NewMemory returns a memory store seeded with entries.
func NewMemory(entries ...entry.Entry) *Memory {
	return &Memory{entries: cloneEntries(entries)}
}

func (m *Memory) LoadAll(ctx context.Context) ([]entry.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneEntries(m.entries), nil
}

func (m *Memory) SaveAll(ctx context.Context, entries []entry.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = cloneEntries(entries)
	return nil
}

func (m *Memory) Country(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.country, nil
}

func (m *Memory) SetCountry(ctx context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.country = code
	return nil
}

func (m *Memory) Close() error { return nil }
