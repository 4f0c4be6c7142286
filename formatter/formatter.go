// Package formatter renders tracker views as aligned plain-text tables for the
// terminal. Column widths are measured in terminal cells, so descriptions with wide
// characters or emoji still line up.
package formatter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/robinvdvleuten/spendlog/entry"
	"github.com/robinvdvleuten/spendlog/locale"
	"github.com/robinvdvleuten/spendlog/output"
	"github.com/robinvdvleuten/spendlog/report"
	"github.com/robinvdvleuten/spendlog/tracker"
)

const (
	// DefaultMaxTextWidth caps the description and notes columns.
	DefaultMaxTextWidth = 32

	// MinimumSpacing is the number of spaces between two columns.
	MinimumSpacing = 2

	// EmptyNotes is shown in place of missing notes.
	EmptyNotes = "-"

	// Ellipsis marks truncated text.
	Ellipsis = "…"

	// NoMatches is shown when no entry passes the active filters.
	NoMatches = "No expenses match your filters."

	// NoData is shown in place of an empty category breakdown.
	NoData = "No data yet."
)

// Formatter renders entries, statistics, breakdowns and tips.
type Formatter struct {
	// Profile formats amounts. Defaults to locale.Default().
	Profile locale.Profile

	// Styles colors the output. Nil renders plain text.
	Styles *output.Styles

	// MaxTextWidth is the maximum width of free-text columns. Zero disables truncation.
	MaxTextWidth int

	// ShowIDs adds the entry id as the last column.
	ShowIDs bool
}

// Option is a functional option for configuring a Formatter.
type Option func(*Formatter)

// WithProfile sets the country profile used to format amounts.
func WithProfile(p locale.Profile) Option {
	return func(f *Formatter) {
		f.Profile = p
	}
}

// WithStyles enables terminal styling.
func WithStyles(s *output.Styles) Option {
	return func(f *Formatter) {
		f.Styles = s
	}
}

// WithMaxTextWidth sets the maximum width of the description and notes columns.
func WithMaxTextWidth(width int) Option {
	return func(f *Formatter) {
		f.MaxTextWidth = width
	}
}

// WithIDs adds the entry id column.
func WithIDs(show bool) Option {
	return func(f *Formatter) {
		f.ShowIDs = show
	}
}

// New creates a new Formatter with the given options.
func New(opts ...Option) *Formatter {
	f := &Formatter{
		Profile:      locale.Default(),
		MaxTextWidth: DefaultMaxTextWidth,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

type align int

const (
	alignLeft align = iota
	alignRight
)

type column struct {
	title string
	align align
}

// cell is a plain value plus an optional style applied after padding, so escape
// codes never count towards the column width.
type cell struct {
	text  string
	style func(string) string
}

// FormatView writes the entry table followed by the summary, the breakdown and the
// tips. Amounts use the view's country rather than the configured profile.
func (f *Formatter) FormatView(view tracker.View, w io.Writer) error {
	scoped := *f
	scoped.Profile = view.Country
	f = &scoped

	if err := f.FormatEntries(view.Entries, w); err != nil {
		return err
	}

	sections := []func(io.Writer) error{
		func(w io.Writer) error { return f.FormatStats(view.Stats, w) },
		func(w io.Writer) error { return f.FormatBreakdown(view.Breakdown, w) },
		func(w io.Writer) error { return f.FormatTips(view.Tips, w) },
	}
	for _, section := range sections {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
		if err := section(w); err != nil {
			return err
		}
	}
	return nil
}

// FormatEntries writes entries as a numbered table, or NoMatches when empty.
func (f *Formatter) FormatEntries(entries []entry.Entry, w io.Writer) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, f.dim(NoMatches))
		return err
	}

	columns := []column{
		{"#", alignRight},
		{"Date", alignLeft},
		{"Description", alignLeft},
		{"Category", alignLeft},
		{"Payment", alignLeft},
		{"Amount", alignRight},
		{"Notes", alignLeft},
	}
	if f.ShowIDs {
		columns = append(columns, column{"ID", alignLeft})
	}

	rows := make([][]cell, 0, len(entries))
	for i, e := range entries {
		notes := cell{text: f.truncate(e.Notes)}
		if notes.text == "" {
			notes = cell{text: EmptyNotes, style: f.dimStyle()}
		}

		row := []cell{
			{text: strconv.Itoa(i + 1), style: f.dimStyle()},
			{text: e.Date.String()},
			{text: f.truncate(e.Description)},
			{text: e.Category.String(), style: f.categoryStyle()},
			{text: e.PaymentMethod.String()},
			{text: f.Profile.Format(e.Amount), style: f.amountStyle(e.Type() == entry.Income)},
			notes,
		}
		if f.ShowIDs {
			row = append(row, cell{text: e.ID, style: f.dimStyle()})
		}
		rows = append(rows, row)
	}

	return f.writeTable(columns, rows, w)
}

// FormatStats writes the summary figures on one line.
func (f *Formatter) FormatStats(stats report.Stats, w io.Writer) error {
	parts := []string{
		f.keyword("Total:") + " " + f.Profile.Format(stats.Total),
		f.keyword("Average:") + " " + f.Profile.Format(stats.Average),
		f.keyword("Largest:") + " " + f.Profile.Format(stats.Largest),
		f.keyword("Entries:") + " " + strconv.Itoa(stats.Count),
	}
	_, err := fmt.Fprintln(w, strings.Join(parts, strings.Repeat(" ", MinimumSpacing)))
	return err
}

// FormatBreakdown writes one row per category, or NoData when empty.
func (f *Formatter) FormatBreakdown(shares []report.CategoryShare, w io.Writer) error {
	if len(shares) == 0 {
		_, err := fmt.Fprintln(w, f.dim(NoData))
		return err
	}

	columns := []column{
		{"Category", alignLeft},
		{"Amount", alignRight},
		{"Share", alignRight},
	}

	rows := make([][]cell, 0, len(shares))
	for _, s := range shares {
		rows = append(rows, []cell{
			{text: s.Category.String(), style: f.categoryStyle()},
			{text: f.Profile.Format(s.Amount)},
			{text: s.Percentage.StringFixed(1) + "%"},
		})
	}

	return f.writeTable(columns, rows, w)
}

// FormatTips writes each tip as an arrow-prefixed line. Amounts in a tip use the
// formatter's profile.
func (f *Formatter) FormatTips(tips []report.Tip, w io.Writer) error {
	for _, tip := range tips {
		if _, err := fmt.Fprintf(w, "%s %s\n", f.dim("→"), tip.Text(f.Profile.Format)); err != nil {
			return err
		}
	}
	return nil
}

func (f *Formatter) writeTable(columns []column, rows [][]cell, w io.Writer) error {
	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = runewidth.StringWidth(col.title)
	}
	for _, row := range rows {
		for i, c := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(c.text))
		}
	}

	var buf strings.Builder
	header := make([]cell, len(columns))
	for i, col := range columns {
		header[i] = cell{text: col.title, style: f.keywordStyle()}
	}
	writeRow(&buf, columns, widths, header)
	for _, row := range rows {
		writeRow(&buf, columns, widths, row)
	}

	_, err := io.WriteString(w, buf.String())
	return err
}

func writeRow(buf *strings.Builder, columns []column, widths []int, row []cell) {
	last := len(row) - 1
	for i, c := range row {
		padding := strings.Repeat(" ", widths[i]-runewidth.StringWidth(c.text))
		text := c.text
		if c.style != nil {
			text = c.style(text)
		}

		switch {
		case columns[i].align == alignRight:
			buf.WriteString(padding + text)
		case i == last:
			buf.WriteString(text)
		default:
			buf.WriteString(text + padding)
		}

		if i < last {
			buf.WriteString(strings.Repeat(" ", MinimumSpacing))
		}
	}
	buf.WriteByte('\n')
}

func (f *Formatter) truncate(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if f.MaxTextWidth <= 0 || runewidth.StringWidth(s) <= f.MaxTextWidth {
		return s
	}
	return runewidth.Truncate(s, f.MaxTextWidth, Ellipsis)
}

func (f *Formatter) dimStyle() func(string) string {
	if f.Styles == nil {
		return nil
	}
	return f.Styles.Dim
}

func (f *Formatter) keywordStyle() func(string) string {
	if f.Styles == nil {
		return nil
	}
	return f.Styles.Keyword
}

func (f *Formatter) categoryStyle() func(string) string {
	if f.Styles == nil {
		return nil
	}
	return f.Styles.Category
}

func (f *Formatter) amountStyle(income bool) func(string) string {
	if f.Styles == nil {
		return nil
	}
	if income {
		return f.Styles.Income
	}
	return f.Styles.Expense
}

func (f *Formatter) dim(s string) string {
	if f.Styles == nil {
		return s
	}
	return f.Styles.Dim(s)
}

func (f *Formatter) keyword(s string) string {
	if f.Styles == nil {
		return s
	}
	return f.Styles.Keyword(s)
}
