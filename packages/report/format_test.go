package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/acarl005/stripansi"
	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	t.Run("no highlight returns text unchanged", func(t *testing.T) {
		got := Format("hello", StylePass, Config{NoHighlight: true})
		assert.Equal(t, "hello", got)
	})

	t.Run("highlight wraps text in escape sequences", func(t *testing.T) {
		got := Format("hello", StylePass, Config{})
		assert.NotEqual(t, "hello", got)
		assert.Contains(t, got, "\x1b[")
		assert.Equal(t, "hello", stripansi.Strip(got))
	})

	t.Run("empty style", func(t *testing.T) {
		assert.Equal(t, "hello", Format("hello", nil, Config{}))
	})
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0"},
		{250 * time.Millisecond, "0.25"},
		{3 * time.Second, "3"},
		{12007 * time.Millisecond, "12.007"},
		{1500*time.Millisecond + 999*time.Microsecond, "1.5"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSeconds(tt.d))
	}
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "tests", Plural(0, "test"))
	assert.Equal(t, "test", Plural(1, "test"))
	assert.Equal(t, "test suites", Plural(2, "test suite"))
}

func TestProgress(t *testing.T) {
	agg := func(total, passed, failed int) *AggregatedResults {
		return &AggregatedResults{
			NumTotalTestSuites:  total,
			NumPassedTestSuites: passed,
			NumFailedTestSuites: failed,
		}
	}

	t.Run("plural", func(t *testing.T) {
		var buf bytes.Buffer
		var p Progress
		p.Render(&buf, agg(3, 1, 0), Config{})
		assert.Equal(t, "Running 2 test suites...", stripansi.Strip(buf.String()))
		assert.True(t, p.Pending())
	})

	t.Run("singular", func(t *testing.T) {
		var buf bytes.Buffer
		var p Progress
		p.Render(&buf, agg(3, 1, 1), Config{})
		assert.Equal(t, "Running 1 test suite...", stripansi.Strip(buf.String()))
	})

	t.Run("nothing remaining", func(t *testing.T) {
		var buf bytes.Buffer
		var p Progress
		p.Render(&buf, agg(3, 2, 1), Config{})
		assert.Empty(t, buf.String())
		assert.False(t, p.Pending())
	})

	t.Run("no highlight suppresses the transient line", func(t *testing.T) {
		var buf bytes.Buffer
		var p Progress
		p.Render(&buf, agg(3, 0, 0), Config{NoHighlight: true})
		assert.Empty(t, buf.String())
	})

	t.Run("clear erases a pending line", func(t *testing.T) {
		var buf bytes.Buffer
		var p Progress
		p.Render(&buf, agg(2, 0, 0), Config{})
		buf.Reset()
		p.Clear(&buf, Config{})
		assert.Equal(t, clearLine, buf.String())
		assert.False(t, p.Pending())

		buf.Reset()
		p.Clear(&buf, Config{})
		assert.Empty(t, buf.String())
	})

	t.Run("clear in no highlight mode ends the line", func(t *testing.T) {
		var buf bytes.Buffer
		var p Progress
		p.Render(&buf, agg(2, 0, 0), Config{})
		buf.Reset()
		p.Clear(&buf, Config{NoHighlight: true})
		assert.Equal(t, "\n", buf.String())
	})
}
