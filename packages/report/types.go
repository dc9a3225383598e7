package report

import "time"

// Config holds the per-run reporting options. It is supplied by the caller
// on every lifecycle call and never modified by the reporter.
type Config struct {
	Verbose         bool
	Bail            bool
	RootDir         string // empty means paths are printed as given
	NoHighlight     bool
	CollectCoverage bool
}

// PerfStats records when a suite started and finished.
type PerfStats struct {
	Start time.Time
	End   time.Time
}

// Elapsed returns the suite run time. Labels show it in whole
// milliseconds; the slow check uses the full value.
func (p PerfStats) Elapsed() time.Duration {
	return p.End.Sub(p.Start)
}

// Status is the outcome of a single test.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusPending Status = "pending"
)

// TestOutcome is the result of one test inside a suite.
type TestOutcome struct {
	Title           string
	AncestorTitles  []string
	Status          Status
	Duration        time.Duration
	FailureMessages []string
}

// FullName joins the ancestor titles and the test title.
func (o TestOutcome) FullName() string {
	name := ""
	for _, a := range o.AncestorTitles {
		name += a + " › "
	}
	return name + o.Title
}

// SuiteResult is delivered once per completed suite.
type SuiteResult struct {
	FilePath        string
	NumFailingTests int
	PerfStats       *PerfStats // nil when timing was not captured
	TestResults     []TestOutcome
	// FailureMessage describes a suite that failed to execute at all.
	FailureMessage string
}

// Passed reports whether the suite had no failing tests.
func (s SuiteResult) Passed() bool {
	return s.NumFailingTests == 0
}

// PostSuiteHeader is a failing suite's header and failure body, held back
// in verbose mode until the run completes.
type PostSuiteHeader struct {
	Header string
	Body   string
}

// AggregatedResults accumulates the totals of a run. The counters and
// StartTime belong to the execution engine; the reporter only appends to
// PostSuiteHeaders.
type AggregatedResults struct {
	NumPassedTests int
	NumFailedTests int
	NumTotalTests  int

	NumPassedTestSuites int
	NumFailedTestSuites int
	NumTotalTestSuites  int

	StartTime time.Time

	PostSuiteHeaders []PostSuiteHeader
}

// Remaining returns how many suites have not reported yet.
func (a *AggregatedResults) Remaining() int {
	return a.NumTotalTestSuites - (a.NumPassedTestSuites + a.NumFailedTestSuites)
}

// Consistent checks the invariants that must hold once a run completes.
func (a *AggregatedResults) Consistent() bool {
	return a.NumPassedTests+a.NumFailedTests == a.NumTotalTests &&
		a.NumPassedTestSuites+a.NumFailedTestSuites == a.NumTotalTestSuites
}
