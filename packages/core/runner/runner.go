package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/abdul-hamid-achik/suitereport/packages/feed"
	"github.com/abdul-hamid-achik/suitereport/packages/logging"
	"github.com/abdul-hamid-achik/suitereport/packages/report"
)

// Reporter receives the lifecycle calls of a run.
type Reporter interface {
	OnRunStart(cfg report.Config, agg *report.AggregatedResults) error
	OnTestResult(cfg report.Config, result report.SuiteResult, agg *report.AggregatedResults) error
	OnRunComplete(cfg report.Config, agg *report.AggregatedResults) error
}

// Source yields feed records in completion order. It returns io.EOF when
// exhausted; a *feed.DecodeError skips one record.
type Source interface {
	Next() (feed.Record, error)
}

type Runner struct {
	reporter  Reporter
	config    report.Config
	limiter   *rate.Limiter
	logger    *slog.Logger
	observers []func(report.SuiteResult)
	now       func() time.Time
}

type Option func(*Runner)

// WithRate limits delivery to perSecond suites per second. Zero disables
// pacing.
func WithRate(perSecond float64) Option {
	return func(r *Runner) {
		if perSecond > 0 {
			r.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// WithObserver registers fn to see every suite after it was reported.
func WithObserver(fn func(report.SuiteResult)) Option {
	return func(r *Runner) {
		r.observers = append(r.observers, fn)
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

func NewRunner(rep Reporter, cfg report.Config, opts ...Option) *Runner {
	r := &Runner{
		reporter: rep,
		config:   cfg,
		logger:   logging.Discard(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type RunResult struct {
	ID         string
	Aggregated *report.AggregatedResults
	Duration   time.Duration
	Bailed     bool
	Canceled   bool
	Skipped    int // records dropped because they could not be decoded
}

// Failed reports whether any test or suite failed.
func (r *RunResult) Failed() bool {
	agg := r.Aggregated
	return agg.NumFailedTests > 0 || agg.NumFailedTestSuites > 0
}

type delivery struct {
	rec feed.Record
	err error
}

// Run reads src to the end and reports every suite. totalSuites is the
// number of suites expected; a run record in the feed overrides it. It
// grows when more suites arrive than announced and shrinks to the
// delivered count when the feed ends early.
func (r *Runner) Run(ctx context.Context, totalSuites int, src Source) (*RunResult, error) {
	result := &RunResult{
		ID: uuid.NewString(),
		Aggregated: &report.AggregatedResults{
			NumTotalTestSuites: totalSuites,
		},
	}
	logger := r.logger.With("run", result.ID)
	agg := result.Aggregated

	deliveries := make(chan delivery)
	done := make(chan struct{})
	defer close(done)
	go read(src, deliveries, done)

	started := false
	start := func() error {
		if started {
			return nil
		}
		started = true
		agg.StartTime = r.now()
		logger.Debug("run started", "total_suites", agg.NumTotalTestSuites)
		return r.reporter.OnRunStart(r.config, agg)
	}

loop:
	for {
		var d delivery
		var ok bool
		select {
		case <-ctx.Done():
			result.Canceled = true
			logger.Warn("run canceled", "reason", ctx.Err())
			break loop
		case d, ok = <-deliveries:
			if !ok {
				break loop
			}
		}

		if d.err != nil {
			var de *feed.DecodeError
			if errors.As(d.err, &de) {
				result.Skipped++
				logger.Warn("skipping record", "line", de.Line, "error", de.Err)
				continue
			}
			if errors.Is(d.err, io.EOF) {
				break loop
			}
			return result, d.err
		}

		switch d.rec.Type {
		case feed.RecordRun:
			if started {
				logger.Warn("ignoring run record after first suite", "line", d.rec.Line)
				continue
			}
			agg.NumTotalTestSuites = d.rec.TotalSuites
		case feed.RecordSuite:
			if err := start(); err != nil {
				return result, err
			}
			if r.limiter != nil {
				if err := r.limiter.Wait(ctx); err != nil {
					result.Canceled = true
					break loop
				}
			}
			bailed, err := r.deliver(*d.rec.Suite, agg, logger)
			if bailed {
				result.Bailed = true
				result.Duration = r.now().Sub(agg.StartTime)
				return result, nil
			}
			if err != nil {
				return result, err
			}
		}
	}

	if !result.Canceled {
		if delivered := agg.NumPassedTestSuites + agg.NumFailedTestSuites; delivered < agg.NumTotalTestSuites {
			logger.Warn("feed ended before all announced suites arrived",
				"announced", agg.NumTotalTestSuites, "delivered", delivered)
			agg.NumTotalTestSuites = delivered
		}
	}

	if err := start(); err != nil {
		return result, err
	}
	if err := r.reporter.OnRunComplete(r.config, agg); err != nil {
		return result, err
	}
	result.Duration = r.now().Sub(agg.StartTime)
	logger.Debug("run complete",
		"passed", agg.NumPassedTests,
		"failed", agg.NumFailedTests,
		"suites", agg.NumTotalTestSuites,
		"skipped_records", result.Skipped)
	return result, nil
}

// deliver counts suite into agg and hands it to the reporter.
func (r *Runner) deliver(suite report.SuiteResult, agg *report.AggregatedResults, logger *slog.Logger) (bool, error) {
	passed, failed := countTests(suite)
	agg.NumPassedTests += passed
	agg.NumFailedTests += failed
	agg.NumTotalTests += passed + failed

	if suite.Passed() {
		agg.NumPassedTestSuites++
	} else {
		agg.NumFailedTestSuites++
	}
	if done := agg.NumPassedTestSuites + agg.NumFailedTestSuites; done > agg.NumTotalTestSuites {
		agg.NumTotalTestSuites = done
	}

	logger.Debug("suite complete", "path", suite.FilePath, "passed", passed, "failed", failed)

	err := r.reporter.OnTestResult(r.config, suite, agg)
	if errors.Is(err, report.ErrBailed) {
		logger.Info("bailed", "path", suite.FilePath)
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("reporting %s: %w", suite.FilePath, err)
	}

	for _, fn := range r.observers {
		fn(suite)
	}
	return false, nil
}

// countTests returns the passed and failed test counts of a suite. Pending
// tests count toward neither. A failing count larger than the recorded
// failures stands for failures without detail.
func countTests(suite report.SuiteResult) (passed, failed int) {
	for _, o := range suite.TestResults {
		switch o.Status {
		case report.StatusPassed:
			passed++
		case report.StatusFailed:
			failed++
		}
	}
	if suite.NumFailingTests > failed {
		failed = suite.NumFailingTests
	}
	return passed, failed
}

func read(src Source, out chan<- delivery, done <-chan struct{}) {
	defer close(out)
	for {
		rec, err := src.Next()
		select {
		case out <- delivery{rec: rec, err: err}:
		case <-done:
			return
		}
		if err != nil {
			var de *feed.DecodeError
			if !errors.As(err, &de) {
				return
			}
		}
	}
}
