package tracker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/robinvdvleuten/spendlog/locale"
)

// ErrEmptyLedger is matched by every EmptyLedgerError.
var ErrEmptyLedger = errors.New("ledger is empty")

// EmptyLedgerError is returned by bulk operations that need at least one entry.
// Presentation layers show it as an informational notice.
type EmptyLedgerError struct {
	Operation string
}

func (e *EmptyLedgerError) Error() string {
	return fmt.Sprintf("nothing to %s: %s", e.Operation, ErrEmptyLedger)
}

// Is makes errors.Is(err, ErrEmptyLedger) match.
func (e *EmptyLedgerError) Is(target error) bool {
	return target == ErrEmptyLedger
}

func (e *EmptyLedgerError) GetOperation() string {
	return e.Operation
}

// UnknownCountryError is returned when selecting a country without a profile.
type UnknownCountryError struct {
	Code string
}

func (e *UnknownCountryError) Error() string {
	codes := make([]string, len(locale.Profiles))
	for i, p := range locale.Profiles {
		codes[i] = p.Code
	}
	return fmt.Sprintf("unknown country %q (expected one of %s)", e.Code, strings.Join(codes, ", "))
}

func (e *UnknownCountryError) GetCode() string {
	return e.Code
}
