package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

var (
	// ErrNotRunning is returned when a lifecycle call arrives out of order.
	ErrNotRunning = errors.New("reporter is not running")

	// ErrBailed is returned by OnTestResult after a bail when the exit
	// function returned instead of terminating the process.
	ErrBailed = errors.New("run bailed on first failing suite")
)

// ExitBail is the process exit status used when a run bails. Bailing is a
// requested stop, not a fault.
const ExitBail = 0

type runState int

const (
	stateNotStarted runState = iota
	stateRunning
	stateBailed
	stateCompleted
)

func (s runState) String() string {
	switch s {
	case stateNotStarted:
		return "not started"
	case stateRunning:
		return "running"
	case stateBailed:
		return "bailed"
	case stateCompleted:
		return "completed"
	}
	return fmt.Sprintf("runState(%d)", int(s))
}

// Reporter prints the progress and results of one test run. Lifecycle
// calls must be made sequentially from a single goroutine.
type Reporter struct {
	sink     io.Writer
	out      *bufio.Writer
	progress Progress

	details  TestDetailLogger
	coverage CoverageReporter
	exit     func(code int)
	now      func() time.Time

	state     runState
	presenter failurePresenter
}

type Option func(*Reporter)

// WithWriter sets the output sink. Defaults to os.Stdout.
func WithWriter(w io.Writer) Option {
	return func(r *Reporter) {
		r.sink = w
	}
}

// WithDetailLogger replaces the verbose per-test logger.
func WithDetailLogger(l TestDetailLogger) Option {
	return func(r *Reporter) {
		r.details = l
	}
}

// WithCoverageReporter registers the coverage extension point.
func WithCoverageReporter(c CoverageReporter) Option {
	return func(r *Reporter) {
		r.coverage = c
	}
}

// WithExitFunc replaces os.Exit for bail.
func WithExitFunc(fn func(code int)) Option {
	return func(r *Reporter) {
		r.exit = fn
	}
}

// WithClock replaces time.Now for run time computation.
func WithClock(now func() time.Time) Option {
	return func(r *Reporter) {
		r.now = now
	}
}

func NewReporter(opts ...Option) *Reporter {
	r := &Reporter{
		sink: os.Stdout,
		exit: os.Exit,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.out = bufio.NewWriter(r.sink)
	return r
}

// OnRunStart begins the run and shows the initial progress line.
func (r *Reporter) OnRunStart(cfg Config, agg *AggregatedResults) error {
	if r.state != stateNotStarted {
		return fmt.Errorf("%w: run start in state %s", ErrNotRunning, r.state)
	}
	r.state = stateRunning
	r.presenter = presenterFor(cfg)
	if cfg.Verbose && r.details == nil {
		r.details = NewVerboseLogger()
	}

	r.progress.Render(r.out, agg, cfg)
	return r.out.Flush()
}

// OnTestResult prints the outcome of one suite. agg must already count the
// suite. With cfg.Bail set, the first failing suite completes the run and
// exits the process with ExitBail.
func (r *Reporter) OnTestResult(cfg Config, result SuiteResult, agg *AggregatedResults) error {
	if r.state != stateRunning {
		return fmt.Errorf("%w: result for %s in state %s", ErrNotRunning, result.FilePath, r.state)
	}

	r.progress.Clear(r.out, cfg)

	passed := result.Passed()
	header := ResultHeader(passed, SuitePath(result.FilePath, cfg), cfg, TimingLabel(result.PerfStats, cfg))
	r.println(header)

	if cfg.Verbose && r.details != nil {
		r.details.LogTestResults(r.out, cfg, result.TestResults)
	}

	if !passed {
		if err := r.presenter.present(r, agg, header, FailureBody(result, cfg)); err != nil {
			return fmt.Errorf("writing failure for %s: %w", result.FilePath, err)
		}
		if cfg.Bail {
			r.state = stateBailed
			if err := r.OnRunComplete(cfg, agg); err != nil {
				return err
			}
			r.exit(ExitBail)
			return ErrBailed
		}
	}

	r.progress.Render(r.out, agg, cfg)
	return r.out.Flush()
}

// OnRunComplete prints deferred failures and the summary line. A run with
// no tests prints nothing.
func (r *Reporter) OnRunComplete(cfg Config, agg *AggregatedResults) error {
	if r.state != stateRunning && r.state != stateBailed {
		return fmt.Errorf("%w: run complete in state %s", ErrNotRunning, r.state)
	}
	r.state = stateCompleted

	r.progress.Clear(r.out, cfg)

	if agg.NumTotalTests == 0 {
		return r.drain()
	}

	if cfg.Verbose && len(agg.PostSuiteHeaders) > 0 {
		parts := make([]string, 0, 2*len(agg.PostSuiteHeaders))
		for _, h := range agg.PostSuiteHeaders {
			parts = append(parts, h.Header)
			if h.Body != "" {
				parts = append(parts, h.Body)
			}
		}
		r.println(strings.Join(parts, "\n"))
	}

	r.println(Summary(cfg, agg, r.now().Sub(agg.StartTime)))

	if cfg.CollectCoverage && r.coverage != nil {
		if err := r.coverage.ReportCoverage(r.out, cfg, agg); err != nil {
			return fmt.Errorf("reporting coverage: %w", err)
		}
	}

	return r.drain()
}

// Summary builds the final line, e.g.
// "1 test failed, 4 tests passed (5 total in 2 test suites, run time 1.2s)".
func Summary(cfg Config, agg *AggregatedResults, runTime time.Duration) string {
	var b strings.Builder
	if f := agg.NumFailedTests; f > 0 {
		b.WriteString(Format(fmt.Sprintf("%d %s failed", f, Plural(f, "test")), StyleSummaryFail, cfg))
		b.WriteString(", ")
	}
	p := agg.NumPassedTests
	b.WriteString(Format(fmt.Sprintf("%d %s passed", p, Plural(p, "test")), StyleSummaryPass, cfg))
	fmt.Fprintf(&b, " (%d total in %d %s, run time %ss)",
		agg.NumTotalTests,
		agg.NumTotalTestSuites,
		Plural(agg.NumTotalTestSuites, "test suite"),
		FormatSeconds(runTime))
	return b.String()
}

func (r *Reporter) println(s string) {
	r.out.WriteString(s)
	r.out.WriteByte('\n')
}

// drain flushes buffered output and, when the sink is a file, asks the OS
// to commit it. Sync errors are ignored: terminals and pipes reject it.
func (r *Reporter) drain() error {
	if err := r.out.Flush(); err != nil {
		return err
	}
	if s, ok := r.sink.(interface{ Sync() error }); ok {
		_ = s.Sync()
	}
	return nil
}
