package report

import (
	"fmt"
	"io"
	"strings"
)

// TestDetailLogger prints the per-test detail of a suite in verbose mode.
type TestDetailLogger interface {
	LogTestResults(w io.Writer, cfg Config, outcomes []TestOutcome)
}

// VerboseLogger lists every test of a suite as a tree of its describe
// blocks.
type VerboseLogger struct{}

// NewVerboseLogger creates the default verbose detail logger.
func NewVerboseLogger() *VerboseLogger {
	return &VerboseLogger{}
}

func (l *VerboseLogger) LogTestResults(w io.Writer, cfg Config, outcomes []TestOutcome) {
	var prev []string
	for _, o := range outcomes {
		common := commonPrefix(prev, o.AncestorTitles)
		for i := common; i < len(o.AncestorTitles); i++ {
			fmt.Fprintf(w, "%s%s\n", indent(i+1), o.AncestorTitles[i])
		}
		prev = o.AncestorTitles

		line := indent(len(o.AncestorTitles)+1) + statusMark(o.Status, cfg) + " " + o.Title
		if o.Status != StatusPending && o.Duration > 0 {
			line += fmt.Sprintf(" (%dms)", o.Duration.Milliseconds())
		}
		fmt.Fprintln(w, line)
	}
}

func statusMark(s Status, cfg Config) string {
	switch s {
	case StatusPassed:
		return Format("✓", StylePassMark, cfg)
	case StatusFailed:
		return Format("✕", StyleFailMark, cfg)
	default:
		return Format("○", StylePendingMark, cfg)
	}
}

func indent(level int) string {
	return strings.Repeat("  ", level)
}

func commonPrefix(a, b []string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}
