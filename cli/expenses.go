package cli

import (
	"bytes"
	stdErrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/spendlog/entry"
	"github.com/robinvdvleuten/spendlog/export"
	"github.com/robinvdvleuten/spendlog/filter"
	"github.com/robinvdvleuten/spendlog/formatter"
)

// EntryFields are the entry flags shared by add and edit. Empty values leave a field
// unset.
type EntryFields struct {
	Description string `help:"What the money was spent on." short:"d"`
	Amount      string `help:"Signed amount, negative for income (use --amount=-10)." short:"a"`
	Date        string `help:"Date as YYYY-MM-DD."`
	Category    string `help:"Category (${categories})." short:"c"`
	Payment     string `help:"Payment method (${payment_methods})." short:"p"`
	Notes       string `help:"Free-form notes." short:"n"`
}

// apply overwrites the fields of e that were given and validates the result. Every
// invalid field is reported at once.
func (f EntryFields) apply(e entry.Entry) (entry.Entry, error) {
	var errs []error

	if f.Description != "" {
		e.Description = f.Description
	}
	if f.Amount != "" {
		amount, err := entry.ParseAmount(f.Amount)
		if err != nil {
			errs = append(errs, err)
		} else {
			e.Amount = amount
		}
	}
	if f.Date != "" {
		e.Date = entry.Date(strings.TrimSpace(f.Date))
	}
	if f.Category != "" {
		e.Category = entry.Category(f.Category)
		if c, err := entry.ParseCategory(f.Category); err == nil {
			e.Category = c
		}
	}
	if f.Payment != "" {
		e.PaymentMethod = entry.PaymentMethod(f.Payment)
		if p, err := entry.ParsePaymentMethod(f.Payment); err == nil {
			e.PaymentMethod = p
		}
	}
	if f.Notes != "" {
		e.Notes = f.Notes
	}

	if err := e.Validate(); err != nil {
		var verrs *entry.ValidationErrors
		if stdErrors.As(err, &verrs) {
			errs = append(errs, verrs.Errors...)
		}
	}

	if len(errs) > 0 {
		return entry.Entry{}, &entry.ValidationErrors{Errors: errs}
	}
	return e, nil
}

type AddCmd struct {
	EntryFields
}

func (cmd *AddCmd) Run(ctx *kong.Context, globals *Globals) error {
	if cmd.Amount == "" {
		return handleError(ctx, &entry.ValidationErrors{Errors: []error{
			&entry.ValidationError{Field: "amount", Message: "is required"},
		}})
	}

	e, err := cmd.apply(entry.Entry{Date: entry.Today()})
	if err != nil {
		return handleError(ctx, err)
	}

	s, err := globals.open(ctx, "add")
	if err != nil {
		return handleError(ctx, err)
	}
	defer func() { _ = s.Close() }()

	added, err := s.tracker.Add(s.ctx, e)
	if err != nil {
		return handleError(ctx, err)
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Added %s (%s) as %s",
		added.Description, s.profile.Format(added.Amount), added.ID))
	return nil
}

type EditCmd struct {
	ID string `help:"Identifier of the entry (see list --ids)." arg:""`
	EntryFields
	ClearNotes bool `help:"Remove the notes of the entry."`
}

func (cmd *EditCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx, "edit")
	if err != nil {
		return handleError(ctx, err)
	}
	defer func() { _ = s.Close() }()

	current, ok := s.tracker.Get(cmd.ID)
	if !ok {
		printInfof(ctx.Stdout, "No entry with id %s, nothing changed", cmd.ID)
		return nil
	}
	if cmd.ClearNotes {
		current.Notes = ""
	}

	e, err := cmd.apply(current)
	if err != nil {
		return handleError(ctx, err)
	}

	updated, changed, err := s.tracker.Update(s.ctx, cmd.ID, e)
	if err != nil {
		return handleError(ctx, err)
	}
	if !changed {
		printInfof(ctx.Stdout, "No entry with id %s, nothing changed", cmd.ID)
		return nil
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Updated %s (%s)",
		updated.Description, s.profile.Format(updated.Amount)))
	return nil
}

type RmCmd struct {
	ID  string `help:"Identifier of the entry (see list --ids)." arg:""`
	Yes bool   `help:"Delete without asking for confirmation." short:"y"`
}

func (cmd *RmCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx, "rm")
	if err != nil {
		return handleError(ctx, err)
	}
	defer func() { _ = s.Close() }()

	e, ok := s.tracker.Get(cmd.ID)
	if !ok {
		printInfof(ctx.Stdout, "No entry with id %s, nothing deleted", cmd.ID)
		return nil
	}

	confirmed, err := confirm(cmd.Yes, fmt.Sprintf("Delete %q (%s)?", e.Description, s.profile.Format(e.Amount)))
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	if !confirmed {
		printInfof(ctx.Stdout, "Aborted, nothing deleted")
		return nil
	}

	if _, err := s.tracker.Remove(s.ctx, cmd.ID); err != nil {
		return handleError(ctx, err)
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Deleted %s", e.Description))
	return nil
}

type ClearCmd struct {
	Yes bool `help:"Delete without asking for confirmation." short:"y"`
}

func (cmd *ClearCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx, "clear")
	if err != nil {
		return handleError(ctx, err)
	}
	defer func() { _ = s.Close() }()

	n := s.tracker.Len()
	if n > 0 {
		confirmed, err := confirm(cmd.Yes, fmt.Sprintf("Delete all %d entries?", n))
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if !confirmed {
			printInfof(ctx.Stdout, "Aborted, nothing deleted")
			return nil
		}
	}

	if err := s.tracker.ClearAll(s.ctx); err != nil {
		return handleError(ctx, err)
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Deleted %d entries", n))
	return nil
}

type ListCmd struct {
	Search   string `help:"Case-insensitive text to find in description or notes." short:"s"`
	Category string `help:"Only show this category (${categories})." short:"c"`
	Payment  string `help:"Only show this payment method (${payment_methods})." short:"p"`
	From     string `help:"Earliest date (YYYY-MM-DD), inclusive."`
	To       string `help:"Latest date (YYYY-MM-DD), inclusive."`
	Sort     string `help:"Sort order (date-desc, date-asc, amount-desc, amount-asc)." default:"date-desc"`
	IDs      bool   `help:"Show entry identifiers." name:"ids"`
	Width    int    `help:"Maximum width of text columns (0 disables truncation)." default:"32"`
}

func (cmd *ListCmd) Run(ctx *kong.Context, globals *Globals) error {
	criteria, err := filter.Params{
		Search:        cmd.Search,
		Category:      cmd.Category,
		PaymentMethod: cmd.Payment,
		DateStart:     cmd.From,
		DateEnd:       cmd.To,
		Sort:          cmd.Sort,
	}.Criteria()
	if err != nil {
		return handleError(ctx, err)
	}

	s, err := globals.open(ctx, "list")
	if err != nil {
		return handleError(ctx, err)
	}
	defer func() { _ = s.Close() }()

	view := s.tracker.SetCriteria(s.ctx, criteria)
	view.Country = s.profile

	f := formatter.New(
		formatter.WithStyles(styles(ctx.Stdout)),
		formatter.WithIDs(cmd.IDs),
		formatter.WithMaxTextWidth(cmd.Width),
	)
	return f.FormatView(view, ctx.Stdout)
}

type ExportCmd struct {
	Output string `help:"File to write, or '-' for stdout." short:"o" default:"${export_filename}"`
}

func (cmd *ExportCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx, "export")
	if err != nil {
		return handleError(ctx, err)
	}
	defer func() { _ = s.Close() }()

	var buf bytes.Buffer
	if err := s.tracker.Export(s.ctx, &buf); err != nil {
		return handleError(ctx, err)
	}

	if cmd.Output == "-" {
		_, err := ctx.Stdout.Write(append(buf.Bytes(), '\n'))
		return err
	}

	if err := os.WriteFile(cmd.Output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Exported %d entries to %s",
		s.tracker.Len(), pathStyle.Render(cmd.Output)))
	return nil
}

// Vars are the interpolation variables the command tags refer to.
func Vars() map[string]string {
	categories := make([]string, len(entry.Categories))
	for i, c := range entry.Categories {
		categories[i] = c.String()
	}
	methods := make([]string, len(entry.PaymentMethods))
	for i, m := range entry.PaymentMethods {
		methods[i] = string(m)
	}

	return map[string]string{
		"export_filename": export.Filename,
		"categories":      strings.Join(categories, ", "),
		"payment_methods": strings.Join(methods, ", "),
	}
}
