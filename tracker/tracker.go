// Package tracker is the application controller of spendlog. A Tracker owns the
// ledger, the active filter criteria, the calculator and the selected country, and it
// runs every mutation through the same steps: validate, mutate, persist, render.
//
// A mutation only counts once SaveAll has succeeded. When the persistence backend
// fails, the in-memory ledger is rolled back to the state before the mutation and the
// error is returned, so the ledger and the stored blob never drift apart.
//
// Example usage:
//
//	store, _ := storage.Open(ctx, storage.BackendJSON, "expenses.json")
//	t := tracker.New(store, tracker.WithPreferences(store))
//	if err := t.Load(ctx); err != nil {
//	    return err
//	}
//
//	e, err := t.Add(ctx, entry.Entry{Description: "Rent", ...})
//	view := t.View(ctx)
package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/robinvdvleuten/spendlog/calc"
	"github.com/robinvdvleuten/spendlog/entry"
	"github.com/robinvdvleuten/spendlog/export"
	"github.com/robinvdvleuten/spendlog/filter"
	"github.com/robinvdvleuten/spendlog/ledger"
	"github.com/robinvdvleuten/spendlog/locale"
	"github.com/robinvdvleuten/spendlog/report"
	"github.com/robinvdvleuten/spendlog/telemetry"
)

// Persister loads and stores the full ledger as one unit.
type Persister interface {
	LoadAll(ctx context.Context) ([]entry.Entry, error)
	SaveAll(ctx context.Context, entries []entry.Entry) error
}

// Preferences stores the selected country code separately from the entries.
type Preferences interface {
	Country(ctx context.Context) (string, error)
	SetCountry(ctx context.Context, code string) error
}

// View is everything a presentation layer needs to render the current state.
type View struct {
	Entries  []entry.Entry   `json:"entries"`
	Total    int             `json:"total"`
	Criteria filter.Criteria `json:"criteria"`
	Country  locale.Profile  `json:"country"`
	report.Report
}

// Empty reports whether the ledger itself has no entries, as opposed to the filters
// hiding all of them.
func (v View) Empty() bool {
	return v.Total == 0
}

// Tracker is the single owner of the application state. It is not safe for
// concurrent use.
type Tracker struct {
	store    Persister
	prefs    Preferences
	ledger   *ledger.Ledger
	criteria filter.Criteria
	calc     *calc.Calculator
	country  locale.Profile
	logger   zerolog.Logger
	hooks    []func(View)
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithPreferences enables loading and saving the selected country.
func WithPreferences(prefs Preferences) Option {
	return func(t *Tracker) {
		t.prefs = prefs
	}
}

// WithLogger sets the logger used for mutations and persistence failures.
func WithLogger(logger zerolog.Logger) Option {
	return func(t *Tracker) {
		t.logger = logger
	}
}

// WithCalculator replaces the default calculator.
func WithCalculator(c *calc.Calculator) Option {
	return func(t *Tracker) {
		t.calc = c
	}
}

// New creates a tracker over store with an empty ledger. Call Load to restore the
// persisted state.
func New(store Persister, opts ...Option) *Tracker {
	t := &Tracker{
		store:    store,
		ledger:   ledger.New(),
		criteria: filter.DefaultCriteria(),
		calc:     calc.New(),
		country:  locale.Default(),
		logger:   zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// OnRender registers fn to be called with a fresh View after every successful
// mutation, reload or criteria change.
func (t *Tracker) OnRender(fn func(View)) {
	t.hooks = append(t.hooks, fn)
}

// Load replaces the in-memory state with the persisted one. An unknown or missing
// country falls back to the default profile.
func (t *Tracker) Load(ctx context.Context) error {
	timer := telemetry.StartTimer(ctx, "tracker.load")
	defer timer.End()

	entries, err := t.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}
	t.ledger = ledger.New(entries...)

	if t.prefs != nil {
		code, err := t.prefs.Country(ctx)
		if err != nil {
			return fmt.Errorf("failed to load country: %w", err)
		}
		t.country = locale.Resolve(code)
	}

	t.logger.Debug().Int("entries", t.ledger.Len()).Str("country", t.country.Code).Msg("ledger loaded")
	t.render(ctx)
	return nil
}

// Add validates e and inserts it at the head of the ledger.
func (t *Tracker) Add(ctx context.Context, e entry.Entry) (entry.Entry, error) {
	e = e.Normalize()
	if err := e.Validate(); err != nil {
		return entry.Entry{}, err
	}

	snapshot := t.ledger.List()
	added, err := t.ledger.Add(e)
	if err != nil {
		return entry.Entry{}, err
	}

	if err := t.commit(ctx, snapshot); err != nil {
		return entry.Entry{}, err
	}

	t.logger.Info().Str("id", added.ID).Str("amount", added.Amount.String()).Msg("entry added")
	return added, nil
}

// Update replaces the entry with the given id, keeping the id. An unknown id is not an
// error: it reports changed == false and leaves everything untouched.
func (t *Tracker) Update(ctx context.Context, id string, e entry.Entry) (updated entry.Entry, changed bool, err error) {
	e = e.Normalize()
	if err := e.Validate(); err != nil {
		return entry.Entry{}, false, err
	}

	snapshot := t.ledger.List()
	updated, err = t.ledger.Update(id, e)
	if err != nil {
		var notFound *ledger.NotFoundError
		if errors.As(err, &notFound) {
			t.logger.Debug().Str("id", id).Msg("update of unknown entry ignored")
			return entry.Entry{}, false, nil
		}
		return entry.Entry{}, false, err
	}

	if err := t.commit(ctx, snapshot); err != nil {
		return entry.Entry{}, false, err
	}

	t.logger.Info().Str("id", id).Msg("entry updated")
	return updated, true, nil
}

// Remove deletes the entry with the given id. Removing an unknown id is a no-op that
// still reports success.
func (t *Tracker) Remove(ctx context.Context, id string) (bool, error) {
	snapshot := t.ledger.List()
	if !t.ledger.Remove(id) {
		return false, nil
	}

	if err := t.commit(ctx, snapshot); err != nil {
		return false, err
	}

	t.logger.Info().Str("id", id).Msg("entry removed")
	return true, nil
}

// ClearAll removes every entry. It returns ErrEmptyLedger when there is nothing to
// clear. Confirmation is the caller's responsibility.
func (t *Tracker) ClearAll(ctx context.Context) error {
	if t.ledger.Len() == 0 {
		return &EmptyLedgerError{Operation: "clear"}
	}

	snapshot := t.ledger.List()
	t.ledger.Clear()

	if err := t.commit(ctx, snapshot); err != nil {
		return err
	}

	t.logger.Info().Int("entries", len(snapshot)).Msg("ledger cleared")
	return nil
}

// commit persists the ledger and renders. On a failed save the ledger is restored to
// snapshot.
func (t *Tracker) commit(ctx context.Context, snapshot []entry.Entry) error {
	timer := telemetry.StartTimer(ctx, "tracker.save")
	err := t.store.SaveAll(ctx, t.ledger.List())
	timer.End()

	if err != nil {
		t.ledger.Replace(snapshot)
		t.logger.Error().Err(err).Msg("failed to save ledger, changes rolled back")
		return fmt.Errorf("failed to save ledger: %w", err)
	}

	t.render(ctx)
	return nil
}

// Get returns the entry with the given id.
func (t *Tracker) Get(id string) (entry.Entry, bool) {
	return t.ledger.Get(id)
}

// Entries returns a copy of the full, unfiltered ledger.
func (t *Tracker) Entries() []entry.Entry {
	return t.ledger.List()
}

// Len returns the number of entries in the ledger.
func (t *Tracker) Len() int {
	return t.ledger.Len()
}

// Criteria returns the active filter criteria.
func (t *Tracker) Criteria() filter.Criteria {
	return t.criteria
}

// SetCriteria replaces the active criteria and renders. An unknown sort key is kept;
// the filter engine treats it as "no sort".
func (t *Tracker) SetCriteria(ctx context.Context, c filter.Criteria) View {
	t.criteria = c
	return t.render(ctx)
}

// ResetCriteria clears every filter and restores the default sort.
func (t *Tracker) ResetCriteria(ctx context.Context) View {
	return t.SetCriteria(ctx, filter.DefaultCriteria())
}

// View derives the filtered list and the aggregates for the active criteria.
// Aggregates are computed over the filtered entries.
func (t *Tracker) View(ctx context.Context) View {
	return t.ViewFor(ctx, t.criteria)
}

// ViewFor derives the view for c without making c the active criteria. Nothing is
// rendered.
func (t *Tracker) ViewFor(ctx context.Context, c filter.Criteria) View {
	timer := telemetry.StartTimer(ctx, "tracker.view")
	defer timer.End()

	all := t.ledger.List()

	selectTimer := timer.Child("filter.select")
	visible := filter.Select(all, c)
	selectTimer.End()

	buildTimer := timer.Child("report.build")
	rep := report.Build(visible)
	for i, tip := range rep.Tips {
		rep.Tips[i].Message = tip.Text(t.country.Format)
	}
	buildTimer.End()

	return View{
		Entries:  visible,
		Total:    len(all),
		Criteria: c,
		Country:  t.country,
		Report:   rep,
	}
}

func (t *Tracker) render(ctx context.Context) View {
	view := t.View(ctx)
	for _, hook := range t.hooks {
		hook(view)
	}
	return view
}

// Export writes the full ledger, ignoring the active filters, as CSV. It returns
// ErrEmptyLedger when there is nothing to export.
func (t *Tracker) Export(ctx context.Context, w io.Writer) error {
	if t.ledger.Len() == 0 {
		return &EmptyLedgerError{Operation: "export"}
	}

	timer := telemetry.StartTimer(ctx, "tracker.export")
	defer timer.End()

	if err := export.WriteCSV(w, t.ledger.List()); err != nil {
		return fmt.Errorf("failed to export ledger: %w", err)
	}
	return nil
}

// Country returns the selected country profile.
func (t *Tracker) Country() locale.Profile {
	return t.country
}

// SetCountry selects the country used for display and persists the choice when
// preferences are configured. Unknown codes are rejected.
func (t *Tracker) SetCountry(ctx context.Context, code string) (locale.Profile, error) {
	profile, ok := locale.Lookup(code)
	if !ok {
		return t.country, &UnknownCountryError{Code: code}
	}

	if t.prefs != nil {
		if err := t.prefs.SetCountry(ctx, profile.Code); err != nil {
			return t.country, fmt.Errorf("failed to save country: %w", err)
		}
	}

	t.country = profile
	t.logger.Info().Str("country", profile.Code).Msg("country selected")
	t.render(ctx)
	return profile, nil
}

// Calculator returns the embedded calculator.
func (t *Tracker) Calculator() *calc.Calculator {
	return t.calc
}
