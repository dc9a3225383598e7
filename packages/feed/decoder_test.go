package feed

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/suitereport/packages/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `{"type":"run","totalSuites":3}

{"type":"suite","filePath":"/repo/a_test.go","perfStats":{"start":1700000000000,"end":1700000000420},"testResults":[{"title":"adds","ancestorTitles":["math"],"status":"passed","duration":3.5}]}
{"type":"suite","filePath":"/repo/b_test.go","testResults":[{"title":"subtracts","status":"failed","failureMessages":["expected 1, got 2"]},{"title":"later","status":"pending"}]}
`

func TestDecoder_Next(t *testing.T) {
	d := NewDecoder(strings.NewReader(sampleFeed))

	rec, err := d.Next()
	require.NoError(t, err)
	assert.Equal(t, RecordRun, rec.Type)
	assert.Equal(t, 3, rec.TotalSuites)
	assert.Equal(t, 1, rec.Line)

	rec, err = d.Next()
	require.NoError(t, err)
	assert.Equal(t, RecordSuite, rec.Type)
	assert.Equal(t, 3, rec.Line, "blank lines are skipped but counted")
	require.NotNil(t, rec.Suite)
	a := rec.Suite
	assert.Equal(t, "/repo/a_test.go", a.FilePath)
	assert.Equal(t, 0, a.NumFailingTests)
	require.NotNil(t, a.PerfStats)
	assert.Equal(t, 420*time.Millisecond, a.PerfStats.Elapsed())
	require.Len(t, a.TestResults, 1)
	assert.Equal(t, []string{"math"}, a.TestResults[0].AncestorTitles)
	assert.Equal(t, 3500*time.Microsecond, a.TestResults[0].Duration)

	rec, err = d.Next()
	require.NoError(t, err)
	b := rec.Suite
	assert.Nil(t, b.PerfStats)
	assert.Equal(t, 1, b.NumFailingTests, "failing count defaults to failed outcomes")
	assert.Equal(t, report.StatusFailed, b.TestResults[0].Status)
	assert.Equal(t, []string{"expected 1, got 2"}, b.TestResults[0].FailureMessages)
	assert.Equal(t, report.StatusPending, b.TestResults[1].Status)

	_, err = d.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestDecoder_ExplicitFailingCount(t *testing.T) {
	d := NewDecoder(strings.NewReader(`{"type":"suite","filePath":"a_test.go","numFailingTests":2}`))
	rec, err := d.Next()
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Suite.NumFailingTests)
	assert.Empty(t, rec.Suite.TestResults)
}

func TestDecoder_FailingCountBelowRecordedFailures(t *testing.T) {
	d := NewDecoder(strings.NewReader(`{"type":"suite","filePath":"a.go","numFailingTests":0,"testResults":[{"title":"t","status":"failed","failureMessages":["boom"]},{"title":"u","status":"failed"}]}`))
	rec, err := d.Next()
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Suite.NumFailingTests)
	assert.False(t, rec.Suite.Passed())
}

func TestDecoder_SuiteFailureMessage(t *testing.T) {
	d := NewDecoder(strings.NewReader(`{"type":"suite","filePath":"a_test.go","failureMessage":"build failed"}`))
	rec, err := d.Next()
	require.NoError(t, err)
	assert.Equal(t, "build failed", rec.Suite.FailureMessage)
	assert.Equal(t, 1, rec.Suite.NumFailingTests)
	assert.False(t, rec.Suite.Passed())
}

func TestDecoder_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"invalid json", `{"type":`, "invalid JSON"},
		{"unknown type", `{"type":"other"}`, "schema validation failed"},
		{"missing file path", `{"type":"suite"}`, "schema validation failed"},
		{"bad status", `{"type":"suite","filePath":"a","testResults":[{"title":"x","status":"broken"}]}`, "schema validation failed"},
		{"negative total", `{"type":"run","totalSuites":-1}`, "schema validation failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDecoder(strings.NewReader(tt.input)).Next()
			require.Error(t, err)
			var de *DecodeError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, 1, de.Line)
			assert.Contains(t, err.Error(), tt.want)
			assert.Contains(t, err.Error(), "line 1:")
		})
	}
}

func TestDecoder_WithoutValidation(t *testing.T) {
	d := NewDecoder(strings.NewReader(`{"type":"other"}`), WithValidation(false))
	_, err := d.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown record type "other"`)
}

func TestDecoder_ContinuesAfterBadLine(t *testing.T) {
	d := NewDecoder(strings.NewReader("not json\n{\"type\":\"run\",\"totalSuites\":1}\n"))

	_, err := d.Next()
	require.Error(t, err)

	rec, err := d.Next()
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Line)
}

func TestReadAll(t *testing.T) {
	t.Run("announced total", func(t *testing.T) {
		total, suites, err := ReadAll(strings.NewReader(sampleFeed))
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Len(t, suites, 2)
	})

	t.Run("counted total", func(t *testing.T) {
		input := `{"type":"suite","filePath":"a"}` + "\n" + `{"type":"suite","filePath":"b"}`
		total, suites, err := ReadAll(strings.NewReader(input))
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, suites, 2)
	})

	t.Run("stops on error", func(t *testing.T) {
		_, _, err := ReadAll(strings.NewReader("{}"))
		assert.Error(t, err)
	})
}

func TestCountSuites(t *testing.T) {
	t.Run("announced total", func(t *testing.T) {
		total, err := CountSuites(strings.NewReader(sampleFeed))
		require.NoError(t, err)
		assert.Equal(t, 3, total)
	})

	t.Run("skips malformed records", func(t *testing.T) {
		input := "garbage\n" + `{"type":"suite","filePath":"a"}` + "\n" + `{"type":"suite"}`
		total, err := CountSuites(strings.NewReader(input))
		require.NoError(t, err)
		assert.Equal(t, 1, total)
	})

	t.Run("more suites than announced", func(t *testing.T) {
		input := `{"type":"run","totalSuites":1}` + "\n" + `{"type":"suite","filePath":"a"}` + "\n" + `{"type":"suite","filePath":"b"}`
		total, err := CountSuites(strings.NewReader(input))
		require.NoError(t, err)
		assert.Equal(t, 2, total)
	})
}

func TestValidateRecord(t *testing.T) {
	assert.NoError(t, ValidateRecord([]byte(`{"type":"run","totalSuites":0}`)))
	assert.NoError(t, ValidateRecord([]byte(`{"type":"suite","filePath":"x","perfStats":{"start":1,"end":2}}`)))
	assert.Error(t, ValidateRecord([]byte(`{"type":"suite","filePath":"x","perfStats":{"start":1}}`)))
}
