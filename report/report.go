// Package report computes the aggregate views shown next to the filtered entry list:
// summary statistics, the per-category breakdown and heuristic advisory tips.
//
// All functions are pure and operate on raw signed amounts, so income entries (negative
// amounts) reduce totals. An empty input is a valid case and yields zero values or a
// placeholder, never an error.
package report

import (
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/spendlog/entry"
)

// Stats holds the summary figures of a set of entries.
type Stats struct {
	Count   int             `json:"count"`
	Total   decimal.Decimal `json:"total"`
	Average decimal.Decimal `json:"average"`
	Largest decimal.Decimal `json:"largest"`
}

// CategoryShare is one row of the category breakdown.
type CategoryShare struct {
	Category   entry.Category  `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

// Report bundles every aggregate computed for one view.
type Report struct {
	Stats     Stats           `json:"stats"`
	Breakdown []CategoryShare `json:"breakdown"`
	Tips      []Tip           `json:"tips"`
}

// Build computes the full report for entries.
func Build(entries []entry.Entry) Report {
	return Report{
		Stats:     Summarize(entries),
		Breakdown: Breakdown(entries),
		Tips:      Advise(entries),
	}
}

// Summarize returns the total, average and largest amount of entries.
func Summarize(entries []entry.Entry) Stats {
	stats := Stats{
		Count:   len(entries),
		Total:   decimal.Zero,
		Average: decimal.Zero,
		Largest: decimal.Zero,
	}
	if len(entries) == 0 {
		return stats
	}

	stats.Largest = entries[0].Amount
	for _, e := range entries {
		stats.Total = stats.Total.Add(e.Amount)
		if e.Amount.GreaterThan(stats.Largest) {
			stats.Largest = e.Amount
		}
	}
	stats.Average = stats.Total.Div(decimal.NewFromInt(int64(len(entries))))

	return stats
}

var hundred = decimal.NewFromInt(100)

// Breakdown groups entries by category and returns each group's summed amount and its
// share of the sum of all group totals, rounded to one decimal. Groups are ordered by
// descending amount; ties keep the order in which the categories were first seen.
func Breakdown(entries []entry.Entry) []CategoryShare {
	groups := categoryTotals(entries)

	sum := decimal.Zero
	for _, g := range groups {
		sum = sum.Add(g.Amount)
	}

	for i := range groups {
		if sum.IsZero() {
			groups[i].Percentage = decimal.Zero
			continue
		}
		groups[i].Percentage = groups[i].Amount.Div(sum).Mul(hundred).Round(1)
	}

	return groups
}

// categoryTotals sums amounts per category, ordered by descending total with ties in
// first-encountered order. Percentages are left zero.
func categoryTotals(entries []entry.Entry) []CategoryShare {
	index := make(map[entry.Category]int)
	groups := make([]CategoryShare, 0)

	for _, e := range entries {
		i, ok := index[e.Category]
		if !ok {
			i = len(groups)
			index[e.Category] = i
			groups = append(groups, CategoryShare{Category: e.Category, Amount: decimal.Zero})
		}
		groups[i].Amount = groups[i].Amount.Add(e.Amount)
	}

	sortSharesDesc(groups)
	return groups
}
