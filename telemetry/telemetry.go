// Package telemetry provides hierarchical timing collection for operations.
//
// Collectors travel through context.Context so the tracker pipeline can be
// instrumented without changing function signatures. When no collector is
// present a no-op one is used.
//
// Example usage:
//
//	collector := telemetry.NewTimingCollector()
//	ctx := telemetry.WithCollector(context.Background(), collector)
//
//	timer := telemetry.StartTimer(ctx, "tracker.view")
//	filterTimer := timer.Child("filter.select")
//	// ... work ...
//	filterTimer.End()
//	timer.End()
//
//	collector.Report(os.Stderr, output.NewStyles(os.Stderr))
package telemetry

import (
	"context"
	"io"
	"time"

	"github.com/robinvdvleuten/spendlog/output"
)

type contextKey struct{}

var collectorKey = contextKey{}

// Collector collects timings for a tree of operations.
type Collector interface {
	// Start begins timing an operation. Operations started while another one is
	// still running are nested under it.
	Start(name string) Timer

	// Report writes the collected timing tree. styles may be nil for plain output.
	Report(w io.Writer, styles *output.Styles)
}

// Timer tracks a single operation's timing.
type Timer interface {
	// End stops the timer and records the duration.
	End()

	// Child creates a nested timer under this timer.
	Child(name string) Timer
}

// Step is one finished operation, flattened out of the timing tree.
type Step struct {
	Name     string
	Depth    int
	Duration time.Duration
}

// WithCollector adds a collector to a context.
func WithCollector(ctx context.Context, collector Collector) context.Context {
	return context.WithValue(ctx, collectorKey, collector)
}

// FromContext extracts the collector from context, or a no-op collector when none
// is present. It never returns nil.
func FromContext(ctx context.Context) Collector {
	if collector, ok := ctx.Value(collectorKey).(Collector); ok {
		return collector
	}
	return noOpCollector{}
}

// StartTimer starts a timer on the collector carried by ctx.
func StartTimer(ctx context.Context, name string) Timer {
	return FromContext(ctx).Start(name)
}
