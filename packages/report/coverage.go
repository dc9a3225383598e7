package report

import "io"

// CoverageReporter prints a coverage report after the run summary. It is
// called only when Config.CollectCoverage is set and a reporter was
// registered with WithCoverageReporter; none is registered by default.
type CoverageReporter interface {
	ReportCoverage(w io.Writer, cfg Config, agg *AggregatedResults) error
}
