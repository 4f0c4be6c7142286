// Package ledger holds the expense ledger: the full, unfiltered collection of entries in
// stored order, newest first.
//
// The ledger is the only mutable state of the derived-view pipeline. It exposes add,
// update, remove and clear, and hands out copies of its contents so callers (the filter
// engine, the aggregation engine, persistence backends) can never alter it behind its
// back. It keeps no derived or cached fields, which means it is always safe to persist or
// re-render immediately after any mutation.
//
// Example usage:
//
//	l := ledger.New()
//	e, err := l.Add(entry.Entry{Description: "Rent", ...})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Update keeps the id, replaces everything else
//	e.Amount = decimal.NewFromInt(850)
//	if _, err := l.Update(e.ID, e); err != nil {
//	    var nf *ledger.NotFoundError
//	    if errors.As(err, &nf) {
//	        // benign: the entry was removed in the meantime
//	    }
//	}
package ledger

import (
	"github.com/robinvdvleuten/spendlog/entry"
)

// Ledger is an ordered collection of entries with unique ids.
// The zero value is an empty ledger ready to use. A Ledger is not safe for
// concurrent use; it is owned by a single control flow.
type Ledger struct {
	entries []entry.Entry
}

// New creates a ledger restored from previously persisted entries. Entries without an
// id are given one; entries repeating an id already seen are dropped so the uniqueness
// invariant holds from the start.
func New(entries ...entry.Entry) *Ledger {
	l := &Ledger{entries: make([]entry.Entry, 0, len(entries))}
	seen := make(map[string]bool, len(entries))

	for _, e := range entries {
		if e.ID == "" {
			e.ID = entry.NewID()
		}
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		l.entries = append(l.entries, e)
	}

	return l
}

// Add inserts e at the head of the ledger. A fresh id is assigned when e has none;
// an id that is already present is rejected with a *DuplicateIDError.
func (l *Ledger) Add(e entry.Entry) (entry.Entry, error) {
	if e.ID == "" {
		e.ID = entry.NewID()
	} else if l.indexOf(e.ID) >= 0 {
		return entry.Entry{}, &DuplicateIDError{ID: e.ID}
	}

	l.entries = append([]entry.Entry{e}, l.entries...)
	return e, nil
}

// Update replaces the entry with the given id by e. The stored id is kept regardless
// of e.ID. Unknown ids yield a *NotFoundError and leave the ledger untouched.
func (l *Ledger) Update(id string, e entry.Entry) (entry.Entry, error) {
	i := l.indexOf(id)
	if i < 0 {
		return entry.Entry{}, &NotFoundError{ID: id}
	}

	e.ID = id
	l.entries[i] = e
	return e, nil
}

// Remove deletes the entry with the given id. Removing an absent id is a no-op;
// the result reports whether anything was removed.
func (l *Ledger) Remove(id string) bool {
	i := l.indexOf(id)
	if i < 0 {
		return false
	}

	l.entries = append(l.entries[:i:i], l.entries[i+1:]...)
	return true
}

// Clear empties the ledger.
func (l *Ledger) Clear() {
	l.entries = nil
}

// Get returns the entry with the given id.
func (l *Ledger) Get(id string) (entry.Entry, bool) {
	i := l.indexOf(id)
	if i < 0 {
		return entry.Entry{}, false
	}
	return l.entries[i], true
}

// List returns a copy of the entries in stored order (head = newest).
func (l *Ledger) List() []entry.Entry {
	out := make([]entry.Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Replace swaps the whole content of the ledger, applying the same id rules as New.
func (l *Ledger) Replace(entries []entry.Entry) {
	l.entries = New(entries...).entries
}

func (l *Ledger) indexOf(id string) int {
	for i := range l.entries {
		if l.entries[i].ID == id {
			return i
		}
	}
	return -1
}
