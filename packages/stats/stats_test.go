package stats

import (
	"fmt"
	"testing"
	"time"

	"github.com/acarl005/stripansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/suitereport/packages/report"
)

func TestCollector_Summary(t *testing.T) {
	c := NewCollector()
	for i := 1; i <= 10; i++ {
		c.Record(fmt.Sprintf("/repo/s%d_test.go", i), time.Duration(i*100)*time.Millisecond)
	}

	s := c.Summary(3)
	assert.Equal(t, 10, s.Count)
	assert.Equal(t, 0, s.Slow)
	assert.Equal(t, 500*time.Millisecond, s.P50)
	assert.Equal(t, time.Second, s.P95)
	assert.Equal(t, time.Second, s.Max)
	require.Len(t, s.Slowest, 3)
	assert.Equal(t, "/repo/s10_test.go", s.Slowest[0].Path)
	assert.Equal(t, "/repo/s8_test.go", s.Slowest[2].Path)
}

func TestCollector_RecordSuite(t *testing.T) {
	c := NewCollector()
	start := time.Unix(1700000000, 0)

	c.RecordSuite(report.SuiteResult{FilePath: "untimed_test.go"})
	c.RecordSuite(report.SuiteResult{
		FilePath:  "slow_test.go",
		PerfStats: &report.PerfStats{Start: start, End: start.Add(3 * time.Second)},
	})

	s := c.Summary(5)
	assert.Equal(t, 1, s.Count)
	assert.Equal(t, 1, s.Slow)
	assert.Equal(t, 3*time.Second, s.Max)
}

func TestCollector_Empty(t *testing.T) {
	s := NewCollector().Summary(5)
	assert.Zero(t, s.Count)
	assert.Empty(t, s.Slowest)
	assert.Equal(t, "", s.Format(report.Config{}))
}

func TestSummary_Format(t *testing.T) {
	c := NewCollector()
	c.Record("/repo/fast_test.go", 250*time.Millisecond)
	c.Record("/repo/slow_test.go", 3*time.Second)

	cfg := report.Config{NoHighlight: true, RootDir: "/repo"}
	got := c.Summary(2).Format(cfg)

	want := "" +
		"Suite timing: p50 0.25s | p95 3s | max 3s (2 timed, 1 slow)\n" +
		"Slowest suites:\n" +
		"     3s  slow_test.go\n" +
		"  0.25s  fast_test.go\n"
	assert.Equal(t, want, got)

	colored := c.Summary(2).Format(report.Config{RootDir: "/repo"})
	assert.NotEqual(t, want, colored)
	assert.Equal(t, want, stripansi.Strip(colored))
}
