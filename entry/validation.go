package entry

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ValidationError is returned when a single field of an entry fails its constraints.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// GetField returns the name of the offending field.
func (e *ValidationError) GetField() string {
	return e.Field
}

// ValidationErrors wraps every field error found for one entry.
type ValidationErrors struct {
	Errors []error
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d validation errors occurred: %s", len(e.Errors), strings.Join(msgs, "; "))
}

// Unwrap returns the underlying errors for error unwrapping
func (e *ValidationErrors) Unwrap() []error {
	return e.Errors
}

// Validate checks the shape constraints of an entry. It returns nil or a
// *ValidationErrors listing every failing field.
func (e Entry) Validate() error {
	var errs []error

	if strings.TrimSpace(e.Description) == "" {
		errs = append(errs, &ValidationError{Field: "description", Message: "must not be empty"})
	}
	if e.Date.IsZero() {
		errs = append(errs, &ValidationError{Field: "date", Message: "is required"})
	} else if !e.Date.Valid() {
		errs = append(errs, &ValidationError{Field: "date", Message: fmt.Sprintf("invalid date %q (expected YYYY-MM-DD)", e.Date)})
	}
	if !e.Category.Valid() {
		errs = append(errs, &ValidationError{Field: "category", Message: fmt.Sprintf("unknown category %q", e.Category)})
	}
	if !e.PaymentMethod.Valid() {
		errs = append(errs, &ValidationError{Field: "paymentMethod", Message: fmt.Sprintf("unknown payment method %q", e.PaymentMethod)})
	}

	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}

// ParseAmount parses a signed decimal amount as typed into a form.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, &ValidationError{Field: "amount", Message: "is required"}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: "amount", Message: fmt.Sprintf("invalid number %q", s)}
	}
	return d, nil
}
