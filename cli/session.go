package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/robinvdvleuten/spendlog/locale"
	"github.com/robinvdvleuten/spendlog/output"
	"github.com/robinvdvleuten/spendlog/storage"
	"github.com/robinvdvleuten/spendlog/telemetry"
	"github.com/robinvdvleuten/spendlog/tracker"
)

// session is the state shared by the ledger commands of one invocation.
type session struct {
	ctx     context.Context
	store   storage.Store
	tracker *tracker.Tracker
	logger  zerolog.Logger
	profile locale.Profile

	stderr    io.Writer
	collector *telemetry.TimingCollector
	rootTimer telemetry.Timer
	once      sync.Once
}

// newLogger writes human readable logs to w at the configured level.
func (g *Globals) newLogger(w io.Writer) (zerolog.Logger, error) {
	level := zerolog.WarnLevel
	if g.LogLevel != "" {
		parsed, err := zerolog.ParseLevel(g.LogLevel)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", g.LogLevel, err)
		}
		level = parsed
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}).
		Level(level).
		With().
		Timestamp().
		Logger(), nil
}

// open loads the ledger for a command named name. The caller must Close the session.
func (g *Globals) open(ctx *kong.Context, name string) (*session, error) {
	logger, err := g.newLogger(ctx.Stderr)
	if err != nil {
		return nil, err
	}

	s := &session{
		ctx:    context.Background(),
		logger: logger,
		stderr: ctx.Stderr,
	}

	if g.Telemetry {
		s.collector = telemetry.NewTimingCollector()
		s.ctx = telemetry.WithCollector(s.ctx, s.collector)
		s.rootTimer = s.collector.Start(fmt.Sprintf("%s %s", name, filepath.Base(g.Ledger)))
	}

	openTimer := telemetry.StartTimer(s.ctx, "storage.open")
	store, err := storage.Open(s.ctx, storage.Backend(g.Backend), g.Ledger)
	openTimer.End()
	if err != nil {
		s.reportTelemetry()
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	s.store = store

	s.tracker = tracker.New(store,
		tracker.WithPreferences(store),
		tracker.WithLogger(logger),
	)
	if err := s.tracker.Load(s.ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	s.profile = s.tracker.Country()
	if g.Country != "" {
		profile, ok := locale.Lookup(g.Country)
		if !ok {
			_ = s.Close()
			return nil, &tracker.UnknownCountryError{Code: g.Country}
		}
		s.profile = profile
	}

	logger.Debug().
		Str("backend", g.Backend).
		Str("ledger", g.Ledger).
		Int("entries", s.tracker.Len()).
		Msg("session opened")

	return s, nil
}

// styles returns output styles for w, plain when w is not a terminal.
func styles(w io.Writer) *output.Styles {
	return output.NewStyles(w)
}

// reportTelemetry prints the timing tree once, if telemetry is enabled.
func (s *session) reportTelemetry() {
	s.once.Do(func() {
		if s.collector == nil {
			return
		}
		s.rootTimer.End()
		_, _ = fmt.Fprintln(s.stderr)
		s.collector.Report(s.stderr, styles(s.stderr))
	})
}

// Close releases the store and reports telemetry.
func (s *session) Close() error {
	defer s.reportTelemetry()
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}
