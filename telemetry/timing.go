package telemetry

import (
	"io"
	"sync"
	"time"

	"github.com/robinvdvleuten/spendlog/output"
)

// TimingCollector collects hierarchical timing data. It is safe for concurrent use.
type TimingCollector struct {
	mu      sync.Mutex
	roots   []*timerNode
	current *timerNode
	now     func() time.Time
}

type timerNode struct {
	name     string
	start    time.Time
	end      time.Time
	children []*timerNode
	parent   *timerNode
}

func (n *timerNode) duration() time.Duration {
	if n.end.IsZero() {
		return 0
	}
	return n.end.Sub(n.start)
}

// CollectorOption configures a TimingCollector.
type CollectorOption func(*TimingCollector)

// WithClock replaces the clock used to time operations.
func WithClock(now func() time.Time) CollectorOption {
	return func(c *TimingCollector) {
		c.now = now
	}
}

// NewTimingCollector creates a new timing collector.
func NewTimingCollector(opts ...CollectorOption) *TimingCollector {
	c := &TimingCollector{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start begins timing an operation, nested under the innermost running one.
func (c *TimingCollector) Start(name string) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	node := &timerNode{name: name, start: c.now(), parent: c.current}
	if c.current == nil {
		c.roots = append(c.roots, node)
	} else {
		c.current.children = append(c.current.children, node)
	}
	c.current = node

	return &timingTimer{collector: c, node: node}
}

// Report writes the timing tree to w.
func (c *TimingCollector) Report(w io.Writer, styles *output.Styles) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, root := range c.roots {
		formatTimingTree(w, root, styles)
	}
}

// Steps returns every finished operation in depth-first order.
func (c *TimingCollector) Steps() []Step {
	c.mu.Lock()
	defer c.mu.Unlock()

	var steps []Step
	var walk func(n *timerNode, depth int)
	walk = func(n *timerNode, depth int) {
		if !n.end.IsZero() {
			steps = append(steps, Step{Name: n.name, Depth: depth, Duration: n.duration()})
		}
		for _, child := range n.children {
			walk(child, depth+1)
		}
	}
	for _, root := range c.roots {
		walk(root, 0)
	}
	return steps
}

type timingTimer struct {
	collector *TimingCollector
	node      *timerNode
}

// End stops the timer. Ending a timer twice keeps the first end time.
func (t *timingTimer) End() {
	c := t.collector
	c.mu.Lock()
	defer c.mu.Unlock()

	if !t.node.end.IsZero() {
		return
	}
	t.node.end = c.now()

	if c.current == t.node {
		c.current = t.node.parent
	}
}

// Child creates a timer nested under this one regardless of what else is running.
func (t *timingTimer) Child(name string) Timer {
	c := t.collector
	c.mu.Lock()
	defer c.mu.Unlock()

	node := &timerNode{name: name, start: c.now(), parent: t.node}
	t.node.children = append(t.node.children, node)
	c.current = node

	return &timingTimer{collector: c, node: node}
}
