package report

import (
	"fmt"
	"io"
)

// clearLine returns the cursor to column 0 and erases the line.
const clearLine = "\r\033[K"

// Progress renders the transient "Running N test suites..." line shown
// between suite completions.
type Progress struct {
	pending bool
}

// Render writes the remaining-suites line. Nothing is written when no
// suites remain or when highlighting is off.
func (p *Progress) Render(w io.Writer, agg *AggregatedResults, cfg Config) {
	remaining := agg.Remaining()
	if remaining <= 0 || cfg.NoHighlight {
		return
	}
	msg := fmt.Sprintf("Running %d %s...", remaining, Plural(remaining, "test suite"))
	fmt.Fprint(w, Format(msg, StyleRunning, cfg))
	p.pending = true
}

// Clear removes a transient line left by Render. It must run before any
// permanent line is printed.
func (p *Progress) Clear(w io.Writer, cfg Config) {
	if !p.pending {
		return
	}
	p.pending = false
	if cfg.NoHighlight {
		fmt.Fprint(w, "\n")
		return
	}
	fmt.Fprint(w, clearLine)
}

// Pending reports whether a transient line is currently on screen.
func (p *Progress) Pending() bool {
	return p.pending
}
