package tracker_test

import (
	"bytes"
	"context"
	stdErrors "errors"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/spendlog/entry"
	"github.com/robinvdvleuten/spendlog/filter"
	"github.com/robinvdvleuten/spendlog/report"
	"github.com/robinvdvleuten/spendlog/storage"
	"github.com/robinvdvleuten/spendlog/telemetry"
	"github.com/robinvdvleuten/spendlog/tracker"
)

// flakyStore wraps a memory store and fails saves on demand.
type flakyStore struct {
	*storage.Memory
	failSave bool
	saves    int
}

func (f *flakyStore) SaveAll(ctx context.Context, entries []entry.Entry) error {
	f.saves++
	if f.failSave {
		return stdErrors.New("disk full")
	}
	return f.Memory.SaveAll(ctx, entries)
}

func newEntry(desc, amount string, cat entry.Category, date entry.Date) entry.Entry {
	return entry.Entry{
		Description:   desc,
		Amount:        decimal.RequireFromString(amount),
		Date:          date,
		Category:      cat,
		PaymentMethod: entry.Cash,
	}
}

func newTracker(t *testing.T, seed ...entry.Entry) (*tracker.Tracker, *flakyStore) {
	t.Helper()
	store := &flakyStore{Memory: storage.NewMemory(seed...)}
	tr := tracker.New(store, tracker.WithPreferences(store))
	assert.NoError(t, tr.Load(context.Background()))
	return tr, store
}

func TestLoadRestoresState(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory(
		entry.Entry{ID: "x", Description: "Rent", Amount: decimal.NewFromInt(800), Date: "2024-01-01", Category: entry.Housing, PaymentMethod: entry.Cash},
		entry.Entry{ID: "x", Description: "Duplicate", Amount: decimal.NewFromInt(1), Date: "2024-01-01", Category: entry.Other, PaymentMethod: entry.Cash},
	)
	assert.NoError(t, store.SetCountry(ctx, "gb"))

	tr := tracker.New(store, tracker.WithPreferences(store))
	assert.NoError(t, tr.Load(ctx))

	assert.Equal(t, 1, tr.Len())
	assert.Equal(t, "GB", tr.Country().Code)
}

func TestLoadUnknownCountryFallsBack(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	assert.NoError(t, store.SetCountry(ctx, "ZZ"))

	tr := tracker.New(store, tracker.WithPreferences(store))
	assert.NoError(t, tr.Load(ctx))
	assert.Equal(t, "US", tr.Country().Code)
}

func TestAddPersistsAndRenders(t *testing.T) {
	ctx := context.Background()
	tr, store := newTracker(t)

	var rendered []tracker.View
	tr.OnRender(func(v tracker.View) { rendered = append(rendered, v) })

	added, err := tr.Add(ctx, newEntry("  Rent  ", "800", entry.Housing, "2024-01-01"))
	assert.NoError(t, err)
	assert.NotEqual(t, "", added.ID)
	assert.Equal(t, "Rent", added.Description)

	saved, err := store.LoadAll(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(saved))
	assert.Equal(t, added.ID, saved[0].ID)

	assert.Equal(t, 1, len(rendered))
	assert.Equal(t, 1, len(rendered[0].Entries))
}

func TestAddValidation(t *testing.T) {
	ctx := context.Background()
	tr, store := newTracker(t)

	_, err := tr.Add(ctx, entry.Entry{Description: "  ", Category: "Pets", PaymentMethod: entry.Cash})

	var verrs *entry.ValidationErrors
	assert.True(t, stdErrors.As(err, &verrs))
	assert.Equal(t, 3, len(verrs.Errors))
	assert.Equal(t, 0, tr.Len())
	assert.Equal(t, 0, store.saves)
}

func TestFailedSaveRollsBack(t *testing.T) {
	ctx := context.Background()
	tr, store := newTracker(t)

	rent, err := tr.Add(ctx, newEntry("Rent", "800", entry.Housing, "2024-01-01"))
	assert.NoError(t, err)

	store.failSave = true

	_, err = tr.Add(ctx, newEntry("Food", "20", entry.Food, "2024-01-02"))
	assert.Error(t, err)
	assert.Equal(t, 1, tr.Len())

	changed := rent
	changed.Description = "Mortgage"
	_, ok, err := tr.Update(ctx, rent.ID, changed)
	assert.Error(t, err)
	assert.False(t, ok)
	got, _ := tr.Get(rent.ID)
	assert.Equal(t, "Rent", got.Description)

	removed, err := tr.Remove(ctx, rent.ID)
	assert.Error(t, err)
	assert.False(t, removed)
	assert.Equal(t, 1, tr.Len())

	err = tr.ClearAll(ctx)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 1, tr.Len())
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTracker(t)

	rent, err := tr.Add(ctx, newEntry("Rent", "800", entry.Housing, "2024-01-01"))
	assert.NoError(t, err)

	changed := newEntry("Rent", "850", entry.Housing, "2024-01-01")
	changed.ID = "ignored"
	updated, ok, err := tr.Update(ctx, rent.ID, changed)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, rent.ID, updated.ID)
	assert.Equal(t, "850", updated.Amount.String())
}

func TestUpdateUnknownIsBenign(t *testing.T) {
	ctx := context.Background()
	tr, store := newTracker(t)

	_, ok, err := tr.Update(ctx, "missing", newEntry("Rent", "800", entry.Housing, "2024-01-01"))
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, store.saves)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTracker(t)

	rent, err := tr.Add(ctx, newEntry("Rent", "800", entry.Housing, "2024-01-01"))
	assert.NoError(t, err)

	removed, err := tr.Remove(ctx, rent.ID)
	assert.NoError(t, err)
	assert.True(t, removed)

	removed, err = tr.Remove(ctx, rent.ID)
	assert.NoError(t, err)
	assert.False(t, removed)
}

func TestEmptyLedgerOperations(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTracker(t)

	err := tr.ClearAll(ctx)
	assert.True(t, stdErrors.Is(err, tracker.ErrEmptyLedger))

	var buf bytes.Buffer
	err = tr.Export(ctx, &buf)
	assert.True(t, stdErrors.Is(err, tracker.ErrEmptyLedger))

	var empty *tracker.EmptyLedgerError
	assert.True(t, stdErrors.As(err, &empty))
	assert.Equal(t, "export", empty.GetOperation())
	assert.Equal(t, 0, buf.Len())
}

func TestClearAll(t *testing.T) {
	ctx := context.Background()
	tr, store := newTracker(t)

	_, err := tr.Add(ctx, newEntry("Rent", "800", entry.Housing, "2024-01-01"))
	assert.NoError(t, err)

	assert.NoError(t, tr.ClearAll(ctx))
	assert.Equal(t, 0, tr.Len())

	saved, err := store.LoadAll(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(saved))
}

func TestExportIgnoresCriteria(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTracker(t)

	_, err := tr.Add(ctx, newEntry("Rent", "800", entry.Housing, "2024-01-01"))
	assert.NoError(t, err)
	_, err = tr.Add(ctx, newEntry("Pizza", "12", entry.Food, "2024-01-02"))
	assert.NoError(t, err)

	tr.SetCriteria(ctx, filter.Criteria{Category: entry.Food})

	var buf bytes.Buffer
	assert.NoError(t, tr.Export(ctx, &buf))

	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, 3, len(lines))
	assert.Equal(t, `"Pizza","12","2024-01-02","Food","Cash",""`, lines[1])
	assert.Equal(t, `"Rent","800","2024-01-01","Housing","Cash",""`, lines[2])
}

func TestCriteria(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTracker(t)

	for _, e := range []entry.Entry{
		newEntry("Rent", "800", entry.Housing, "2024-01-01"),
		newEntry("Pizza", "12", entry.Food, "2024-01-05"),
		newEntry("Groceries", "60", entry.Food, "2024-01-03"),
	} {
		_, err := tr.Add(ctx, e)
		assert.NoError(t, err)
	}

	view := tr.SetCriteria(ctx, filter.Criteria{Category: entry.Food, Sort: filter.AmountAsc})
	assert.Equal(t, 2, len(view.Entries))
	assert.Equal(t, 3, view.Total)
	assert.Equal(t, "Pizza", view.Entries[0].Description)
	assert.Equal(t, "72", view.Stats.Total.String())
	assert.Equal(t, filter.AmountAsc, tr.Criteria().Sort)

	view = tr.ResetCriteria(ctx)
	assert.Equal(t, 3, len(view.Entries))
	assert.Equal(t, filter.DefaultCriteria(), view.Criteria)
	assert.Equal(t, "Pizza", view.Entries[0].Description)
}

func TestViewForKeepsActiveCriteria(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTracker(t,
		newEntry("Pizza", "12", entry.Food, "2024-01-05"),
		newEntry("Rent", "800", entry.Housing, "2024-01-01"),
	)

	renders := 0
	tr.OnRender(func(tracker.View) { renders++ })

	view := tr.ViewFor(ctx, filter.Criteria{Category: entry.Food, Sort: filter.DateDesc})
	assert.Equal(t, 1, len(view.Entries))
	assert.Equal(t, entry.Food, view.Criteria.Category)
	assert.Equal(t, "12", view.Stats.Total.String())

	assert.Equal(t, filter.DefaultCriteria(), tr.Criteria())
	assert.Equal(t, 2, len(tr.View(ctx).Entries))
	assert.Equal(t, 0, renders)
}

func TestViewTipsUseCountry(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTracker(t, newEntry("Rent", "1200", entry.Housing, "2024-01-01"))

	_, err := tr.SetCountry(ctx, "GB")
	assert.NoError(t, err)

	view := tr.View(ctx)
	assert.Equal(t, report.TipRecurringCosts, view.Tips[0].Kind)
	assert.Equal(t, "Spending over £1,000.00. Consider reviewing recurring costs.", view.Tips[0].Message)
}

func TestViewPlaceholders(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTracker(t)

	view := tr.View(ctx)
	assert.True(t, view.Empty())
	assert.Equal(t, report.TipEmpty, view.Tips[0].Kind)

	_, err := tr.Add(ctx, newEntry("Rent", "800", entry.Housing, "2024-01-01"))
	assert.NoError(t, err)

	view = tr.SetCriteria(ctx, filter.Criteria{Search: "nothing matches"})
	assert.False(t, view.Empty())
	assert.Equal(t, 0, len(view.Entries))
}

func TestSetCountry(t *testing.T) {
	ctx := context.Background()
	tr, store := newTracker(t)

	profile, err := tr.SetCountry(ctx, "in")
	assert.NoError(t, err)
	assert.Equal(t, "INR", profile.Currency)

	code, err := store.Country(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "IN", code)

	_, err = tr.SetCountry(ctx, "FR")
	var unknown *tracker.UnknownCountryError
	assert.True(t, stdErrors.As(err, &unknown))
	assert.Equal(t, "IN", tr.Country().Code)
}

func TestCalculatorIsOwned(t *testing.T) {
	tr, _ := newTracker(t)

	c := tr.Calculator()
	for _, key := range []string{"1", "2", "+", "3", "*", "4", "="} {
		assert.NoError(t, c.Press(key))
	}
	assert.Equal(t, "24", tr.Calculator().Expression())
}

func TestViewRecordsTelemetry(t *testing.T) {
	collector := telemetry.NewTimingCollector()
	ctx := telemetry.WithCollector(context.Background(), collector)
	tr, _ := newTracker(t)

	tr.View(ctx)

	var names []string
	for _, step := range collector.Steps() {
		names = append(names, step.Name)
	}
	assert.Equal(t, []string{"tracker.view", "filter.select", "report.build"}, names)
}

func TestHousingFoodScenario(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTracker(t)

	_, err := tr.Add(ctx, newEntry("Rent", "800", entry.Housing, "2024-01-01"))
	assert.NoError(t, err)
	_, err = tr.Add(ctx, newEntry("Food", "200", entry.Food, "2024-01-02"))
	assert.NoError(t, err)

	view := tr.View(ctx)
	assert.Equal(t, 2, view.Stats.Count)
	assert.Equal(t, "1000", view.Stats.Total.String())
	assert.Equal(t, "500", view.Stats.Average.String())
	assert.Equal(t, "800", view.Stats.Largest.String())

	assert.Equal(t, 2, len(view.Breakdown))
	assert.Equal(t, entry.Housing, view.Breakdown[0].Category)
	assert.Equal(t, "80.0", view.Breakdown[0].Percentage.StringFixed(1))
	assert.Equal(t, entry.Food, view.Breakdown[1].Category)
	assert.Equal(t, "20.0", view.Breakdown[1].Percentage.StringFixed(1))

	// A total of exactly 1000 is not "over 1000".
	assert.Equal(t, 1, len(view.Tips))
	assert.Equal(t, report.TipHighSpending, view.Tips[0].Kind)
	assert.Equal(t, entry.Housing, view.Tips[0].Category)
}
