package report

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/spendlog/entry"
)

// TipKind identifies which heuristic produced a tip.
type TipKind string

const (
	TipEmpty          TipKind = "empty"
	TipRecurringCosts TipKind = "recurring-costs"
	TipHighSpending   TipKind = "high-spending"
	TipDiversified    TipKind = "diversified"
)

// Tip is an advisory hint. Tips are heuristics, not authoritative figures.
type Tip struct {
	Kind     TipKind        `json:"kind"`
	Category entry.Category `json:"category,omitempty"`
	Message  string         `json:"message"`
	// Amount is the figure quoted by the message, if any.
	Amount *decimal.Decimal `json:"amount,omitempty"`
}

// Text renders the message with its amount formatted by format.
func (t Tip) Text(format func(decimal.Decimal) string) string {
	if t.Kind == TipRecurringCosts && t.Amount != nil {
		return recurringCostsMessage(format(*t.Amount))
	}
	return t.Message
}

func recurringCostsMessage(amount string) string {
	return fmt.Sprintf("Spending over %s. Consider reviewing recurring costs.", amount)
}

// RecurringCostsThreshold is the total above which reviewing recurring costs is advised.
var RecurringCostsThreshold = decimal.NewFromInt(1000)

// Advise derives advisory tips from entries:
//   - a recurring-costs tip when the total is strictly above RecurringCostsThreshold
//   - a high-spending tip for the category with the largest summed amount
//   - a well-diversified tip when neither of the above applies
//
// An empty input yields a single placeholder tip.
func Advise(entries []entry.Entry) []Tip {
	if len(entries) == 0 {
		return []Tip{{Kind: TipEmpty, Message: "Add expenses to see personalized tips."}}
	}

	var tips []Tip

	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	if total.GreaterThan(RecurringCostsThreshold) {
		threshold := RecurringCostsThreshold
		tips = append(tips, Tip{
			Kind:    TipRecurringCosts,
			Message: recurringCostsMessage(threshold.String()),
			Amount:  &threshold,
		})
	}

	// Any category at all triggers this one; there is no threshold on the top category.
	if groups := categoryTotals(entries); len(groups) > 0 {
		top := groups[0].Category
		tips = append(tips, Tip{
			Kind:     TipHighSpending,
			Category: top,
			Message:  fmt.Sprintf("High spending detected in %s. Set a budget target.", top),
		})
	}

	if len(tips) == 0 {
		tips = append(tips, Tip{
			Kind:    TipDiversified,
			Message: "Great job keeping expenses diversified and under control.",
		})
	}

	return tips
}

func sortSharesDesc(shares []CategoryShare) {
	slices.SortStableFunc(shares, func(a, b CategoryShare) int {
		return b.Amount.Cmp(a.Amount)
	})
}
