package report

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/spendlog/entry"
)

func mk(amount string, cat entry.Category) entry.Entry {
	return entry.Entry{
		Description:   string(cat),
		Amount:        decimal.RequireFromString(amount),
		Date:          "2024-01-01",
		Category:      cat,
		PaymentMethod: entry.Cash,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(dec(want)), "got %s, want %s", got.String(), want)
}

func TestSummarize(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		stats := Summarize(nil)
		assert.Equal(t, 0, stats.Count)
		assertDecimal(t, "0", stats.Total)
		assertDecimal(t, "0", stats.Average)
		assertDecimal(t, "0", stats.Largest)
	})

	t.Run("SignedAmounts", func(t *testing.T) {
		stats := Summarize([]entry.Entry{
			mk("100", entry.Food),
			mk("-40", entry.Savings),
			mk("60", entry.Travel),
		})
		assert.Equal(t, 3, stats.Count)
		assertDecimal(t, "120", stats.Total)
		assertDecimal(t, "40", stats.Average)
		assertDecimal(t, "100", stats.Largest)
	})

	t.Run("OnlyIncome", func(t *testing.T) {
		stats := Summarize([]entry.Entry{mk("-10", entry.Savings), mk("-30", entry.Savings)})
		assertDecimal(t, "-40", stats.Total)
		assertDecimal(t, "-20", stats.Average)
		assertDecimal(t, "-10", stats.Largest)
	})
}

func TestBreakdown(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, 0, len(Breakdown(nil)))
	})

	t.Run("OrderedByAmountWithStableTies", func(t *testing.T) {
		shares := Breakdown([]entry.Entry{
			mk("50", entry.Travel),
			mk("100", entry.Food),
			mk("25", entry.Travel),
			mk("75", entry.Health),
			mk("25", entry.Shopping),
		})

		cats := make([]entry.Category, len(shares))
		for i, s := range shares {
			cats[i] = s.Category
		}
		// Travel (75) was seen before Health (75).
		assert.Equal(t, []entry.Category{entry.Food, entry.Travel, entry.Health, entry.Shopping}, cats)
		assertDecimal(t, "75", shares[1].Amount)
		assertDecimal(t, "36.4", shares[0].Percentage)
		assertDecimal(t, "27.3", shares[1].Percentage)
		assertDecimal(t, "9.1", shares[3].Percentage)
	})

	t.Run("PercentagesSumToHundred", func(t *testing.T) {
		shares := Breakdown([]entry.Entry{
			mk("10", entry.Food),
			mk("10", entry.Travel),
			mk("10", entry.Health),
		})

		sum := decimal.Zero
		for _, s := range shares {
			assertDecimal(t, "33.3", s.Percentage)
			sum = sum.Add(s.Percentage)
		}
		assert.True(t, sum.Sub(dec("100")).Abs().LessThanOrEqual(dec("0.5")), "sum %s not within tolerance", sum)
	})

	t.Run("ZeroDenominator", func(t *testing.T) {
		shares := Breakdown([]entry.Entry{mk("100", entry.Food), mk("-100", entry.Savings)})
		for _, s := range shares {
			assertDecimal(t, "0", s.Percentage)
		}
	})
}

func TestAdvise(t *testing.T) {
	kinds := func(tips []Tip) []TipKind {
		out := make([]TipKind, len(tips))
		for i, tip := range tips {
			out[i] = tip.Kind
		}
		return out
	}

	t.Run("Empty", func(t *testing.T) {
		tips := Advise(nil)
		assert.Equal(t, []TipKind{TipEmpty}, kinds(tips))
		assert.Equal(t, "Add expenses to see personalized tips.", tips[0].Message)
	})

	t.Run("OverThreshold", func(t *testing.T) {
		tips := Advise([]entry.Entry{mk("600", entry.Housing), mk("400.01", entry.Food)})
		assert.Equal(t, []TipKind{TipRecurringCosts, TipHighSpending}, kinds(tips))
		assert.Equal(t, "Spending over 1000. Consider reviewing recurring costs.", tips[0].Message)
		assert.Equal(t, "Spending over €1000. Consider reviewing recurring costs.",
			tips[0].Text(func(d decimal.Decimal) string { return "€" + d.String() }))
		assert.Equal(t, entry.Housing, tips[1].Category)
		assert.Equal(t, tips[1].Message, tips[1].Text(nil))
		assert.Equal(t, "High spending detected in Housing. Set a budget target.", tips[1].Message)
	})

	t.Run("ExactlyThresholdIsNotOver", func(t *testing.T) {
		tips := Advise([]entry.Entry{mk("600", entry.Housing), mk("400", entry.Food)})
		assert.Equal(t, []TipKind{TipHighSpending}, kinds(tips))
	})

	t.Run("TopCategoryAlwaysReported", func(t *testing.T) {
		tips := Advise([]entry.Entry{mk("-5", entry.Savings)})
		assert.Equal(t, []TipKind{TipHighSpending}, kinds(tips))
		assert.Equal(t, entry.Savings, tips[0].Category)
	})
}

func TestBuildScenario(t *testing.T) {
	// ledger = [Food 200, Housing 800], sorted by amount descending upstream.
	entries := []entry.Entry{mk("800", entry.Housing), mk("200", entry.Food)}

	r := Build(entries)

	assertDecimal(t, "1000", r.Stats.Total)
	assertDecimal(t, "500", r.Stats.Average)
	assertDecimal(t, "800", r.Stats.Largest)

	assert.Equal(t, 2, len(r.Breakdown))
	assert.Equal(t, entry.Housing, r.Breakdown[0].Category)
	assert.Equal(t, "80.0", r.Breakdown[0].Percentage.StringFixed(1))
	assert.Equal(t, entry.Food, r.Breakdown[1].Category)
	assert.Equal(t, "20.0", r.Breakdown[1].Percentage.StringFixed(1))

	assert.Equal(t, 1, len(r.Tips))
	assert.Equal(t, TipHighSpending, r.Tips[0].Kind)
	assert.Equal(t, entry.Housing, r.Tips[0].Category)
}
