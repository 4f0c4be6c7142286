// Package errors provides error formatting for spendlog's domain errors. It separates
// presentation from domain logic so the same error can be rendered for the command
// line or as JSON for the web API.
//
// The package defines a Formatter interface with two implementations:
//   - TextFormatter: human-readable output for the CLI
//   - JSONFormatter: structured output for the HTTP API
//
// The error types themselves live next to the code that raises them (entry, ledger,
// calc, tracker, storage).
package errors

import (
	"bytes"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"strings"

	"github.com/robinvdvleuten/spendlog/calc"
	"github.com/robinvdvleuten/spendlog/entry"
	"github.com/robinvdvleuten/spendlog/ledger"
	"github.com/robinvdvleuten/spendlog/output"
	"github.com/robinvdvleuten/spendlog/storage"
	"github.com/robinvdvleuten/spendlog/tracker"
)

// Kind is a stable, machine-readable error category.
type Kind string

const (
	KindValidation     Kind = "validation"
	KindEvaluation     Kind = "evaluation"
	KindNotFound       Kind = "not_found"
	KindDuplicateID    Kind = "duplicate_id"
	KindEmptyLedger    Kind = "empty_ledger"
	KindUnknownCountry Kind = "unknown_country"
	KindStorage        Kind = "storage"
	KindInternal       Kind = "internal"
)

// KindOf classifies err by the first domain error found in its chain.
func KindOf(err error) Kind {
	var (
		verrs     *entry.ValidationErrors
		verr      *entry.ValidationError
		evalErr   *calc.EvaluationError
		notFound  *ledger.NotFoundError
		duplicate *ledger.DuplicateIDError
		country   *tracker.UnknownCountryError
		corrupt   *storage.CorruptLedgerError
	)

	switch {
	case stdErrors.As(err, &verrs), stdErrors.As(err, &verr):
		return KindValidation
	case stdErrors.As(err, &evalErr):
		return KindEvaluation
	case stdErrors.As(err, &notFound):
		return KindNotFound
	case stdErrors.As(err, &duplicate):
		return KindDuplicateID
	case stdErrors.Is(err, tracker.ErrEmptyLedger):
		return KindEmptyLedger
	case stdErrors.As(err, &country):
		return KindUnknownCountry
	case stdErrors.As(err, &corrupt):
		return KindStorage
	default:
		return KindInternal
	}
}

// Formatter formats errors for output in different formats.
type Formatter interface {
	// Format formats a single error.
	Format(err error) string

	// FormatAll formats multiple errors.
	FormatAll(errs []error) string
}

// TextFormatter formats errors for command-line output.
type TextFormatter struct {
	styles *output.Styles
}

// TextFormatterOption is an option for configuring TextFormatter.
type TextFormatterOption func(*TextFormatter)

// WithStyles highlights field names and carets.
func WithStyles(styles *output.Styles) TextFormatterOption {
	return func(tf *TextFormatter) {
		tf.styles = styles
	}
}

// NewTextFormatter creates a new text formatter.
func NewTextFormatter(opts ...TextFormatterOption) *TextFormatter {
	tf := &TextFormatter{}
	for _, opt := range opts {
		opt(tf)
	}
	return tf
}

// Format formats a single error.
func (tf *TextFormatter) Format(err error) string {
	var verrs *entry.ValidationErrors
	if stdErrors.As(err, &verrs) {
		return tf.formatValidation(verrs)
	}

	var evalErr *calc.EvaluationError
	if stdErrors.As(err, &evalErr) && evalErr.Expression != "" {
		return tf.formatWithExpression(evalErr)
	}

	var empty *tracker.EmptyLedgerError
	if stdErrors.As(err, &empty) {
		return fmt.Sprintf("Nothing to %s, the ledger is empty.", empty.GetOperation())
	}

	return err.Error()
}

// FormatAll formats multiple errors, separating them with blank lines.
func (tf *TextFormatter) FormatAll(errs []error) string {
	parts := make([]string, 0, len(errs))
	for _, err := range errs {
		parts = append(parts, tf.Format(err))
	}
	return strings.Join(parts, "\n\n")
}

// formatValidation lists every invalid field on its own line.
func (tf *TextFormatter) formatValidation(verrs *entry.ValidationErrors) string {
	var buf bytes.Buffer
	buf.WriteString("invalid entry:")

	for _, err := range verrs.Errors {
		buf.WriteString("\n   ")

		var field *entry.ValidationError
		if stdErrors.As(err, &field) {
			buf.WriteString(tf.highlight(field.GetField()))
			buf.WriteString(": ")
			buf.WriteString(field.Message)
			continue
		}
		buf.WriteString(err.Error())
	}

	return buf.String()
}

// formatWithExpression shows the expression below the message with a caret at the
// offending position:
//
//	evaluation error at position 2: division by zero
//
//	   12/0
//	     ^
func (tf *TextFormatter) formatWithExpression(e *calc.EvaluationError) string {
	var buf bytes.Buffer

	buf.WriteString(e.Error())
	buf.WriteString("\n\n   ")
	buf.WriteString(e.Expression)
	buf.WriteString("\n   ")

	pos := min(max(e.GetPosition(), 0), len(e.Expression))
	buf.WriteString(strings.Repeat(" ", pos))
	buf.WriteString(tf.highlight("^"))
	buf.WriteByte('\n')

	return buf.String()
}

func (tf *TextFormatter) highlight(s string) string {
	if tf.styles == nil {
		return s
	}
	return tf.styles.Error(s)
}

// JSONFormatter formats errors as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// ErrorJSON represents an error in JSON format.
type ErrorJSON struct {
	Type     string                 `json:"type"`
	Message  string                 `json:"message"`
	Field    string                 `json:"field,omitempty"`
	Position *int                   `json:"position,omitempty"`
	Details  map[string]interface{} `json:"details,omitempty"`
}

// Format formats a single error as JSON.
func (jf *JSONFormatter) Format(err error) string {
	data, _ := json.Marshal(jf.toJSON(err))
	return string(data)
}

// FormatAll formats multiple errors as a JSON array.
func (jf *JSONFormatter) FormatAll(errs []error) string {
	data, _ := json.MarshalIndent(jf.FormatAllToSlice(errs), "", "  ")
	return string(data)
}

// FormatAllToSlice returns errors as a slice of ErrorJSON structs. Validation error
// groups are flattened into one element per field.
func (jf *JSONFormatter) FormatAllToSlice(errs []error) []ErrorJSON {
	result := make([]ErrorJSON, 0, len(errs))
	for _, err := range errs {
		var verrs *entry.ValidationErrors
		if stdErrors.As(err, &verrs) {
			for _, fieldErr := range verrs.Errors {
				result = append(result, jf.toJSON(fieldErr))
			}
			continue
		}
		result = append(result, jf.toJSON(err))
	}
	return result
}

func (jf *JSONFormatter) toJSON(err error) ErrorJSON {
	errJSON := ErrorJSON{
		Type:    string(KindOf(err)),
		Message: err.Error(),
		Details: make(map[string]interface{}),
	}

	var field *entry.ValidationError
	if stdErrors.As(err, &field) {
		errJSON.Field = field.GetField()
		errJSON.Message = field.Message
	}

	var evalErr *calc.EvaluationError
	if stdErrors.As(err, &evalErr) {
		pos := evalErr.GetPosition()
		errJSON.Position = &pos
		errJSON.Details["expression"] = evalErr.Expression
	}

	switch e := err.(type) {
	case interface{ GetID() string }:
		errJSON.Details["id"] = e.GetID()
	case interface{ GetCode() string }:
		errJSON.Details["code"] = e.GetCode()
	case interface{ GetOperation() string }:
		errJSON.Details["operation"] = e.GetOperation()
	}

	if len(errJSON.Details) == 0 {
		errJSON.Details = nil
	}

	return errJSON
}
