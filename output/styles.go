// Package output provides styling helpers for terminal output.
package output

import (
	"io"

	"github.com/muesli/termenv"
)

// Styles provides styled output helpers for the CLI.
type Styles struct {
	output *termenv.Output
}

// NewStyles creates a new Styles instance for the given writer. Colors are dropped
// automatically when w is not a terminal.
func NewStyles(w io.Writer) *Styles {
	return &Styles{
		output: termenv.NewOutput(w),
	}
}

func (s *Styles) fg(text, color string) termenv.Style {
	return s.output.String(text).Foreground(s.output.Color(color))
}

// Success returns a styled success string (green + bold).
func (s *Styles) Success(text string) string {
	return s.fg(text, "2").Bold().String()
}

// Error returns a styled error string (red + bold).
func (s *Styles) Error(text string) string {
	return s.fg(text, "1").Bold().String()
}

// Warning returns a styled warning (yellow + bold).
func (s *Styles) Warning(text string) string {
	return s.fg(text, "3").Bold().String()
}

// FilePath returns a styled file path (cyan).
func (s *Styles) FilePath(text string) string {
	return s.fg(text, "6").String()
}

// Category returns a styled category name (yellow).
func (s *Styles) Category(text string) string {
	return s.fg(text, "3").String()
}

// Expense returns an outgoing amount (red).
func (s *Styles) Expense(text string) string {
	return s.fg(text, "1").String()
}

// Income returns an incoming amount (green).
func (s *Styles) Income(text string) string {
	return s.fg(text, "2").String()
}

// Amount styles text as an expense or an income depending on income.
func (s *Styles) Amount(text string, income bool) string {
	if income {
		return s.Income(text)
	}
	return s.Expense(text)
}

// Keyword returns a styled keyword (bold).
func (s *Styles) Keyword(text string) string {
	return s.output.String(text).Bold().String()
}

// Dim returns dimmed text (for secondary information).
func (s *Styles) Dim(text string) string {
	return s.output.String(text).Faint().String()
}

// Timing returns a styled timing string: red for slow operations, dimmed otherwise.
func (s *Styles) Timing(text string, slow bool) string {
	if slow {
		return s.fg(text, "1").String()
	}
	return s.Dim(text)
}

// Output returns the underlying termenv Output for advanced usage.
func (s *Styles) Output() *termenv.Output {
	return s.output
}
