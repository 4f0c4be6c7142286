package cli

import (
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/robinvdvleuten/spendlog/calc"
)

// DoctorCmd provides doctor utilities for debugging a ledger.
type DoctorCmd struct {
	Tokens TokensCmd `cmd:"" help:"Show the calculator tokens of an expression."`
	Dump   DumpCmd   `cmd:"" help:"Dump the stored ledger and preferences."`
}

// TokensCmd shows the lexical tokens of a calculator expression.
type TokensCmd struct {
	Expr string `help:"Expression to tokenize." arg:""`
}

// Run executes the tokens command.
func (cmd *TokensCmd) Run(ctx *kong.Context, globals *Globals) error {
	tokens, err := calc.Tokenize(cmd.Expr)
	if err != nil {
		return handleError(ctx, err)
	}

	// Format: TYPE pos "content"
	for _, token := range tokens {
		if token.Type == calc.EOF {
			continue
		}
		_, _ = fmt.Fprintf(ctx.Stdout, "%-10s %d    %q\n",
			token.Type.String(),
			token.Pos,
			token.Text)
	}

	return nil
}

// DumpCmd prints the raw stored state.
type DumpCmd struct{}

type dumpEntry struct {
	ID            string
	Description   string
	Amount        string
	Date          string
	Category      string
	PaymentMethod string
	Notes         string
}

type dump struct {
	Backend string
	Ledger  string
	Country string
	Entries []dumpEntry
}

// Run executes the dump command.
func (cmd *DumpCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx, "doctor dump")
	if err != nil {
		return handleError(ctx, err)
	}
	defer func() { _ = s.Close() }()

	entries, err := s.store.LoadAll(s.ctx)
	if err != nil {
		return handleError(ctx, err)
	}
	country, err := s.store.Country(s.ctx)
	if err != nil {
		return handleError(ctx, err)
	}

	d := dump{
		Backend: globals.Backend,
		Ledger:  globals.Ledger,
		Country: country,
	}
	for _, e := range entries {
		d.Entries = append(d.Entries, dumpEntry{
			ID:            e.ID,
			Description:   e.Description,
			Amount:        e.Amount.String(),
			Date:          e.Date.String(),
			Category:      string(e.Category),
			PaymentMethod: string(e.PaymentMethod),
			Notes:         e.Notes,
		})
	}

	_, _ = fmt.Fprintln(ctx.Stdout, repr.String(d, repr.Indent("  ")))
	return nil
}
