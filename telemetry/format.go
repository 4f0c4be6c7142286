package telemetry

import (
	"fmt"
	"io"
	"time"

	"github.com/robinvdvleuten/spendlog/output"
)

// slowThreshold marks operations highlighted in reports.
const slowThreshold = 100 * time.Millisecond

// formatTimingTree writes one root and its children:
//
//	tracker.view: 3ms
//	├─ filter.select: 1ms
//	└─ report.build: 2ms
func formatTimingTree(w io.Writer, root *timerNode, styles *output.Styles) {
	timing := formatDuration(root.duration())
	if styles != nil {
		_, _ = fmt.Fprintf(w, "%s: %s\n", styles.Keyword(root.name), timing)
	} else {
		_, _ = fmt.Fprintf(w, "%s: %s\n", root.name, timing)
	}

	for i, child := range root.children {
		formatNode(w, child, "", i == len(root.children)-1, styles)
	}
}

func formatNode(w io.Writer, node *timerNode, prefix string, isLast bool, styles *output.Styles) {
	branch, extension := "├─ ", "│  "
	if isLast {
		branch, extension = "└─ ", "   "
	}

	d := node.duration()
	timing := formatDuration(d)
	if styles != nil {
		_, _ = fmt.Fprintf(w, "%s%s: %s\n", styles.Dim(prefix+branch), node.name, styles.Timing(timing, d >= slowThreshold))
	} else {
		_, _ = fmt.Fprintf(w, "%s%s%s: %s\n", prefix, branch, node.name, timing)
	}

	for i, child := range node.children {
		formatNode(w, child, prefix+extension, i == len(node.children)-1, styles)
	}
}

// formatDuration shows milliseconds below one second and seconds above.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}
