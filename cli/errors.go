package cli

import (
	stdErrors "errors"
	"fmt"
	"io"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/spendlog/calc"
	"github.com/robinvdvleuten/spendlog/entry"
	spendErrors "github.com/robinvdvleuten/spendlog/errors"
	"github.com/robinvdvleuten/spendlog/output"
	"github.com/robinvdvleuten/spendlog/tracker"
)

// ErrorRenderer renders errors with terminal styling.
type ErrorRenderer struct {
	formatter *spendErrors.TextFormatter
}

// NewErrorRenderer creates a renderer styled for w.
func NewErrorRenderer(w io.Writer) *ErrorRenderer {
	return &ErrorRenderer{
		formatter: spendErrors.NewTextFormatter(spendErrors.WithStyles(output.NewStyles(w))),
	}
}

// Render formats a single error.
func (r *ErrorRenderer) Render(err error) string {
	return r.formatter.Format(err)
}

// RenderAll formats multiple errors, separating them with blank lines.
func (r *ErrorRenderer) RenderAll(errs []error) string {
	if len(errs) == 0 {
		return ""
	}
	return r.formatter.FormatAll(errs)
}

// handleError prints err and returns the error main exits with. Operations refused
// on an empty ledger are a notice, not a failure.
func handleError(ctx *kong.Context, err error) error {
	if err == nil {
		return nil
	}

	renderer := NewErrorRenderer(ctx.Stderr)

	var empty *tracker.EmptyLedgerError
	if stdErrors.As(err, &empty) {
		printInfof(ctx.Stdout, "%s", renderer.Render(err))
		return nil
	}

	var verrs *entry.ValidationErrors
	var evalErr *calc.EvaluationError
	switch {
	case stdErrors.As(err, &verrs):
		_, _ = fmt.Fprintln(ctx.Stderr, renderer.Render(err))
		_, _ = fmt.Fprintln(ctx.Stderr)
		printError(ctx.Stderr, fmt.Sprintf("%d validation error(s) found", len(verrs.Errors)))
	case stdErrors.As(err, &evalErr):
		_, _ = fmt.Fprint(ctx.Stderr, renderer.Render(err))
		_, _ = fmt.Fprintln(ctx.Stderr)
		printError(ctx.Stderr, "evaluation failed")
	default:
		printError(ctx.Stderr, renderer.Render(err))
	}

	return NewCommandError(1)
}
