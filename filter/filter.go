// Package filter implements the filter/sort stage of the derived-view pipeline: a pure
// function from the ledger's entries and a set of criteria to the ordered subset that is
// shown, summarized and advised on.
//
// Every clause of the criteria is optional; an unset clause always matches. Active
// clauses are AND-combined:
//   - Search: case-insensitive substring of the description or the notes
//   - Category, PaymentMethod: exact match
//   - DateStart, DateEnd: inclusive bounds compared on the ISO date string
//
// Sorting happens after filtering and is stable, so entries with equal keys keep their
// stored (newest first) relative order. The input slice is never modified.
package filter

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/spendlog/entry"
)

// SortKey selects the ordering applied to the filtered entries.
type SortKey string

const (
	DateAsc    SortKey = "date-asc"
	DateDesc   SortKey = "date-desc"
	AmountAsc  SortKey = "amount-asc"
	AmountDesc SortKey = "amount-desc"
)

// SortKeys lists every recognized sort key.
var SortKeys = []SortKey{DateDesc, DateAsc, AmountDesc, AmountAsc}

// ParseSortKey resolves s to a known sort key.
func ParseSortKey(s string) (SortKey, bool) {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case DateAsc, DateDesc, AmountAsc, AmountDesc:
		return k, true
	}
	return k, false
}

// Criteria is the combined search, category, payment, date range and sort configuration.
// Zero-valued fields are unset.
type Criteria struct {
	Search        string              `json:"search,omitempty"`
	Category      entry.Category      `json:"category,omitempty"`
	PaymentMethod entry.PaymentMethod `json:"paymentMethod,omitempty"`
	DateStart     entry.Date          `json:"dateStart,omitempty"`
	DateEnd       entry.Date          `json:"dateEnd,omitempty"`
	Sort          SortKey             `json:"sort"`
}

// DefaultCriteria matches every entry and orders by date, newest first.
func DefaultCriteria() Criteria {
	return Criteria{Sort: DateDesc}
}

// IsZero reports whether no filtering clause is active.
func (c Criteria) IsZero() bool {
	return c.Search == "" && c.Category == "" && c.PaymentMethod == "" &&
		c.DateStart.IsZero() && c.DateEnd.IsZero()
}

// Match reports whether e satisfies every active clause of c.
func (c Criteria) Match(e entry.Entry) bool {
	if c.Search != "" {
		needle := strings.ToLower(c.Search)
		if !strings.Contains(strings.ToLower(e.Description), needle) &&
			!strings.Contains(strings.ToLower(e.Notes), needle) {
			return false
		}
	}

	if c.Category != "" && e.Category != c.Category {
		return false
	}

	if c.PaymentMethod != "" && e.PaymentMethod != c.PaymentMethod {
		return false
	}

	// Fixed-width, zero-padded ISO dates compare chronologically as strings.
	if !c.DateStart.IsZero() && e.Date < c.DateStart {
		return false
	}
	if !c.DateEnd.IsZero() && e.Date > c.DateEnd {
		return false
	}

	return true
}

// Select returns the entries matching c, ordered by c.Sort.
// An unrecognized sort key keeps the stored order.
func Select(entries []entry.Entry, c Criteria) []entry.Entry {
	out := make([]entry.Entry, 0, len(entries))
	for _, e := range entries {
		if c.Match(e) {
			out = append(out, e)
		}
	}

	if cmp := comparator(c.Sort); cmp != nil {
		slices.SortStableFunc(out, cmp)
	}

	return out
}

// comparator returns the ordering for key, or nil when key is unknown.
func comparator(key SortKey) func(a, b entry.Entry) int {
	switch key {
	case DateAsc:
		return func(a, b entry.Entry) int {
			return strings.Compare(string(a.Date), string(b.Date))
		}
	case DateDesc:
		return func(a, b entry.Entry) int {
			return strings.Compare(string(b.Date), string(a.Date))
		}
	case AmountAsc:
		return func(a, b entry.Entry) int {
			return a.Amount.Cmp(b.Amount)
		}
	case AmountDesc:
		return func(a, b entry.Entry) int {
			return b.Amount.Cmp(a.Amount)
		}
	default:
		return nil
	}
}

// Params is the textual form of Criteria, as typed on a command line or sent in a
// query string. Empty fields are unset.
type Params struct {
	Search        string
	Category      string
	PaymentMethod string
	DateStart     string
	DateEnd       string
	Sort          string
}

// Criteria parses p. Every invalid field is reported in one *entry.ValidationErrors.
// An empty sort selects the default order. Search is kept verbatim, surrounding
// spaces included.
func (p Params) Criteria() (Criteria, error) {
	c := DefaultCriteria()
	c.Search = p.Search

	var errs []error
	invalid := func(field string, err error) {
		errs = append(errs, &entry.ValidationError{Field: field, Message: err.Error()})
	}

	if strings.TrimSpace(p.Category) != "" {
		category, err := entry.ParseCategory(p.Category)
		if err != nil {
			invalid("category", err)
		}
		c.Category = category
	}
	if strings.TrimSpace(p.PaymentMethod) != "" {
		method, err := entry.ParsePaymentMethod(p.PaymentMethod)
		if err != nil {
			invalid("paymentMethod", err)
		}
		c.PaymentMethod = method
	}
	if strings.TrimSpace(p.DateStart) != "" {
		date, err := entry.ParseDate(p.DateStart)
		if err != nil {
			invalid("dateStart", err)
		}
		c.DateStart = date
	}
	if strings.TrimSpace(p.DateEnd) != "" {
		date, err := entry.ParseDate(p.DateEnd)
		if err != nil {
			invalid("dateEnd", err)
		}
		c.DateEnd = date
	}
	if strings.TrimSpace(p.Sort) != "" {
		key, ok := ParseSortKey(p.Sort)
		if !ok {
			errs = append(errs, &entry.ValidationError{Field: "sort", Message: fmt.Sprintf("unknown sort key %q", p.Sort)})
		}
		c.Sort = key
	}

	if len(errs) > 0 {
		return Criteria{}, &entry.ValidationErrors{Errors: errs}
	}
	return c, nil
}
