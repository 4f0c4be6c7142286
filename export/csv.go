// Package export serializes the ledger for use outside the application.
package export

import (
	"bufio"
	"io"
	"strings"

	"github.com/robinvdvleuten/spendlog/entry"
)

// Header is the first row of every CSV export.
var Header = []string{"Description", "Amount", "Date", "Category", "Payment Method", "Notes"}

// Filename is the suggested name for downloaded exports.
const Filename = "expenses.csv"

// ContentType is the media type of CSV exports.
const ContentType = "text/csv; charset=utf-8"

// WriteCSV writes entries as CSV in the order given. Every value is wrapped in double
// quotes with embedded quotes doubled, and rows are separated by a single newline with
// no trailing newline.
func WriteCSV(w io.Writer, entries []entry.Entry) error {
	bw := bufio.NewWriter(w)

	writeRow(bw, Header)
	for _, e := range entries {
		_ = bw.WriteByte('\n')
		writeRow(bw, Row(e))
	}

	return bw.Flush()
}

// Row returns the CSV fields of a single entry.
func Row(e entry.Entry) []string {
	return []string{
		e.Description,
		e.Amount.String(),
		e.Date.String(),
		e.Category.String(),
		e.PaymentMethod.String(),
		e.Notes,
	}
}

func writeRow(w *bufio.Writer, fields []string) {
	for i, field := range fields {
		if i > 0 {
			_ = w.WriteByte(',')
		}
		_ = w.WriteByte('"')
		_, _ = w.WriteString(strings.ReplaceAll(field, `"`, `""`))
		_ = w.WriteByte('"')
	}
}
