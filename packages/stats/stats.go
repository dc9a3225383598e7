// Package stats summarizes how long the suites of a run took.
package stats

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/abdul-hamid-achik/suitereport/packages/report"
)

const (
	minTrackableMs = 1
	maxTrackableMs = 3_600_000 // one hour
)

// SuiteTiming is the run time of one suite.
type SuiteTiming struct {
	Path     string
	Duration time.Duration
}

// Collector records suite run times. Safe for concurrent use.
type Collector struct {
	mu        sync.Mutex
	histogram *hdrhistogram.Histogram
	suites    []SuiteTiming
	slow      int
}

// NewCollector creates a collector with millisecond resolution, exact up
// to roughly 32s.
func NewCollector() *Collector {
	return &Collector{
		histogram: hdrhistogram.New(minTrackableMs, maxTrackableMs, 4),
	}
}

// RecordSuite records a suite's run time. Suites without timing are
// ignored.
func (c *Collector) RecordSuite(result report.SuiteResult) {
	if result.PerfStats == nil {
		return
	}
	c.Record(result.FilePath, result.PerfStats.Elapsed())
}

// Record records a single duration for path.
func (c *Collector) Record(path string, d time.Duration) {
	ms := d.Milliseconds()
	if ms < minTrackableMs {
		ms = minTrackableMs
	}
	if ms > maxTrackableMs {
		ms = maxTrackableMs
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.histogram.RecordValue(ms)
	c.suites = append(c.suites, SuiteTiming{Path: path, Duration: d})
	if report.IsSlow(d) {
		c.slow++
	}
}

// Summary is a snapshot of the recorded timings.
type Summary struct {
	Count   int
	Slow    int
	P50     time.Duration
	P95     time.Duration
	Max     time.Duration
	Slowest []SuiteTiming
}

// Summary returns percentiles and the top slowest suites, longest first.
func (c *Collector) Summary(top int) Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Summary{
		Count: len(c.suites),
		Slow:  c.slow,
		P50:   time.Duration(c.histogram.ValueAtQuantile(50)) * time.Millisecond,
		P95:   time.Duration(c.histogram.ValueAtQuantile(95)) * time.Millisecond,
	}
	if s.Count == 0 {
		return s
	}

	sorted := make([]SuiteTiming, len(c.suites))
	copy(sorted, c.suites)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Duration > sorted[j].Duration
	})
	s.Max = sorted[0].Duration
	if top > len(sorted) {
		top = len(sorted)
	}
	if top > 0 {
		s.Slowest = sorted[:top]
	}
	return s
}

// Format renders the summary for the terminal. An empty summary renders
// as "".
func (s Summary) Format(cfg report.Config) string {
	if s.Count == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Suite timing: p50 %s | p95 %s | max %s (%d timed, %d slow)\n",
		seconds(s.P50), seconds(s.P95), seconds(s.Max), s.Count, s.Slow)

	if len(s.Slowest) > 0 {
		b.WriteString("Slowest suites:\n")
		width := 0
		labels := make([]string, len(s.Slowest))
		for i, st := range s.Slowest {
			labels[i] = seconds(st.Duration)
			if len(labels[i]) > width {
				width = len(labels[i])
			}
		}
		for i, st := range s.Slowest {
			label := fmt.Sprintf("%*s", width, labels[i])
			if report.IsSlow(st.Duration) {
				label = report.Format(label, report.StyleSlow, cfg)
			}
			fmt.Fprintf(&b, "  %s  %s\n", label, report.SuitePath(st.Path, cfg))
		}
	}
	return b.String()
}

func seconds(d time.Duration) string {
	return report.FormatSeconds(d) + "s"
}
