package cli

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/spendlog/calc"
)

// CalcCmd presses calculator keys in order, or evaluates a whole expression with
// --expr.
type CalcCmd struct {
	Keys []string `help:"Keys to press: digits, + - * / . % = C DEL." arg:"" optional:""`
	Expr string   `help:"Evaluate an expression directly." short:"e"`
}

func (cmd *CalcCmd) Run(ctx *kong.Context, globals *Globals) error {
	if cmd.Expr != "" {
		result, err := calc.Evaluate(cmd.Expr)
		if err != nil {
			return handleError(ctx, err)
		}
		_, _ = fmt.Fprintln(ctx.Stdout, result.String())
		return nil
	}

	keys := expandKeys(cmd.Keys)
	for _, key := range keys {
		if !calc.IsKey(key) {
			return handleError(ctx, fmt.Errorf("%w: %q", calc.ErrUnknownKey, key))
		}
	}

	c := calc.New()
	for _, key := range keys {
		if err := c.Press(key); err != nil {
			_, _ = fmt.Fprintln(ctx.Stdout, c.Display())
			return handleError(ctx, err)
		}
	}

	_, _ = fmt.Fprintln(ctx.Stdout, c.Display())
	return nil
}

// expandKeys splits runs of digits and operators such as "12+3" into single keys.
// Named keys (C, DEL, =) are kept whole.
func expandKeys(keys []string) []string {
	var out []string
	for _, key := range keys {
		if len(key) == 1 || calc.IsKey(key) {
			out = append(out, key)
			continue
		}
		for _, ch := range strings.Split(key, "") {
			out = append(out, ch)
		}
	}
	return out
}
