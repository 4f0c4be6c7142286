package ledger

import "fmt"

// NotFoundError is returned when an update references an id that is not in the ledger.
// Callers usually treat it as a benign no-op.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("entry %s not found", e.ID)
}

func (e *NotFoundError) GetID() string {
	return e.ID
}

// DuplicateIDError is returned when an entry is added with an id that is already taken.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("entry %s already exists", e.ID)
}

func (e *DuplicateIDError) GetID() string {
	return e.ID
}
