package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVerboseLogger_LogTestResults(t *testing.T) {
	outcomes := []TestOutcome{
		{Title: "adds", AncestorTitles: []string{"math", "ints"}, Status: StatusPassed, Duration: 3 * time.Millisecond},
		{Title: "subtracts", AncestorTitles: []string{"math", "ints"}, Status: StatusFailed, Duration: 12 * time.Millisecond},
		{Title: "rounds", AncestorTitles: []string{"math", "floats"}, Status: StatusPending},
		{Title: "top level", Status: StatusPassed},
	}

	var buf bytes.Buffer
	NewVerboseLogger().LogTestResults(&buf, Config{NoHighlight: true}, outcomes)

	want := "" +
		"  math\n" +
		"    ints\n" +
		"      ✓ adds (3ms)\n" +
		"      ✕ subtracts (12ms)\n" +
		"    floats\n" +
		"      ○ rounds\n" +
		"  ✓ top level\n"
	assert.Equal(t, want, buf.String())
}

func TestVerboseLogger_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewVerboseLogger().LogTestResults(&buf, Config{}, nil)
	assert.Empty(t, buf.String())
}
