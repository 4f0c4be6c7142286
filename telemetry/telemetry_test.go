package telemetry

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

// stepClock advances by a fixed step every time it is read.
type stepClock struct {
	t    time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

func newTestCollector(step time.Duration) *TimingCollector {
	clock := &stepClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), step: step}
	return NewTimingCollector(WithClock(clock.Now))
}

func TestNoOpCollector(t *testing.T) {
	collector := noOpCollector{}

	timer := collector.Start("test")
	timer.Child("child").End()
	timer.End()

	var buf bytes.Buffer
	collector.Report(&buf, nil)
	assert.Equal(t, 0, buf.Len())
}

func TestFromContext(t *testing.T) {
	_, ok := FromContext(context.Background()).(noOpCollector)
	assert.True(t, ok, "expected no-op collector without one in context")

	collector := NewTimingCollector()
	ctx := WithCollector(context.Background(), collector)

	got, ok := FromContext(ctx).(*TimingCollector)
	assert.True(t, ok)
	assert.True(t, got == collector)
}

func TestStartTimerUsesContextCollector(t *testing.T) {
	collector := newTestCollector(time.Millisecond)
	ctx := WithCollector(context.Background(), collector)

	StartTimer(ctx, "tracker.load").End()

	steps := collector.Steps()
	assert.Equal(t, 1, len(steps))
	assert.Equal(t, "tracker.load", steps[0].Name)
	assert.Equal(t, time.Millisecond, steps[0].Duration)
}

func TestTimingCollectorNesting(t *testing.T) {
	collector := newTestCollector(time.Millisecond)

	root := collector.Start("tracker.view")
	selectTimer := root.Child("filter.select")
	selectTimer.End()
	build := root.Child("report.build")
	build.Child("report.breakdown").End()
	build.End()
	root.End()

	var names []string
	var depths []int
	for _, step := range collector.Steps() {
		names = append(names, step.Name)
		depths = append(depths, step.Depth)
	}
	assert.Equal(t, []string{"tracker.view", "filter.select", "report.build", "report.breakdown"}, names)
	assert.Equal(t, []int{0, 1, 1, 2}, depths)
}

func TestStartNestsUnderRunningTimer(t *testing.T) {
	collector := newTestCollector(time.Millisecond)

	outer := collector.Start("tracker.add")
	collector.Start("storage.save").End()
	outer.End()
	collector.Start("tracker.view").End()

	steps := collector.Steps()
	assert.Equal(t, 3, len(steps))
	assert.Equal(t, 1, steps[1].Depth)
	assert.Equal(t, 0, steps[2].Depth)
}

func TestReport(t *testing.T) {
	collector := newTestCollector(2 * time.Millisecond)

	root := collector.Start("tracker.view")
	root.Child("filter.select").End()
	root.Child("report.build").End()
	root.End()

	var buf bytes.Buffer
	collector.Report(&buf, nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, 3, len(lines))
	assert.True(t, strings.HasPrefix(lines[0], "tracker.view: "))
	assert.Equal(t, "├─ filter.select: 2ms", lines[1])
	assert.Equal(t, "└─ report.build: 2ms", lines[2])
}

func TestReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	NewTimingCollector().Report(&buf, nil)
	assert.Equal(t, 0, buf.Len())
}

func TestEndTwiceKeepsFirstDuration(t *testing.T) {
	collector := newTestCollector(time.Millisecond)

	timer := collector.Start("once")
	timer.End()
	timer.End()

	assert.Equal(t, time.Millisecond, collector.Steps()[0].Duration)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		want     string
	}{
		{time.Millisecond, "1ms"},
		{100 * time.Millisecond, "100ms"},
		{999 * time.Millisecond, "999ms"},
		{time.Second, "1.00s"},
		{1500 * time.Millisecond, "1.50s"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.duration))
	}
}
