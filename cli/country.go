package cli

import (
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/spendlog/locale"
)

// sampleAmount shows the selected currency format.
var sampleAmount = decimal.RequireFromString("1234.5")

// CountryCmd lists the selectable countries, or selects one when a code is given.
type CountryCmd struct {
	Code string `help:"Country code to select (US, GB, IN, AE, AU, CA)." arg:"" optional:""`
}

func (cmd *CountryCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx, "country")
	if err != nil {
		return handleError(ctx, err)
	}
	defer func() { _ = s.Close() }()

	if cmd.Code == "" {
		current := s.tracker.Country()
		for _, p := range locale.Profiles {
			marker := " "
			if p.Code == current.Code {
				marker = successStyle.Render("*")
			}
			_, _ = fmt.Fprintf(ctx.Stdout, "%s %s  %s\n", marker, p.Code, p.Label())
		}
		return nil
	}

	profile, err := s.tracker.SetCountry(s.ctx, cmd.Code)
	if err != nil {
		return handleError(ctx, err)
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Amounts are now shown as %s (%s)",
		profile.Format(sampleAmount), profile.Label()))
	return nil
}
