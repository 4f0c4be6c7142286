// Package entry defines the unit of record of the expense ledger: a single expense or
// income transaction together with the closed category and payment method sets it is
// classified by.
//
// Amounts are signed decimals. The sign decides the entry type: zero and positive
// amounts are expenses, negative amounts are income. The type is always derived and can
// never be set independently of the amount.
//
// Dates are kept in their ISO 8601 form (YYYY-MM-DD). Because the format is fixed width
// and zero padded, comparing two dates as strings compares them chronologically, which
// the filter engine relies on.
package entry

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type classifies an entry as expense or income.
type Type string

const (
	Expense Type = "expense"
	Income  Type = "income"
)

// Entry is a single recorded expense or income transaction.
type Entry struct {
	ID            string          `json:"id"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Date          Date            `json:"date"`
	Category      Category        `json:"category"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Notes         string          `json:"notes"`
}

// Type returns the entry type derived from the sign of the amount.
func (e Entry) Type() Type {
	if e.Amount.IsNegative() {
		return Income
	}
	return Expense
}

// NewID returns a fresh opaque entry identifier.
func NewID() string {
	return uuid.NewString()
}

// Normalize trims surrounding whitespace from the free-text fields.
func (e Entry) Normalize() Entry {
	e.Description = strings.TrimSpace(e.Description)
	e.Notes = strings.TrimSpace(e.Notes)
	return e
}

// entryJSON is the persisted shape. The type is written for readability of the stored
// blob and ignored when reading it back.
type entryJSON struct {
	ID            string          `json:"id"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Date          Date            `json:"date"`
	Category      Category        `json:"category"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Notes         string          `json:"notes"`
	Type          Type            `json:"type,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(entryJSON{
		ID:            e.ID,
		Description:   e.Description,
		Amount:        e.Amount,
		Date:          e.Date,
		Category:      e.Category,
		PaymentMethod: e.PaymentMethod,
		Notes:         e.Notes,
		Type:          e.Type(),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw entryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = Entry{
		ID:            raw.ID,
		Description:   raw.Description,
		Amount:        raw.Amount,
		Date:          raw.Date,
		Category:      raw.Category,
		PaymentMethod: raw.PaymentMethod,
		Notes:         raw.Notes,
	}
	return nil
}
