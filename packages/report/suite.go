package report

import (
	"path/filepath"
	"strings"
	"time"
)

// SlowSuiteThreshold is the run time above which a suite's timing label is
// highlighted, whether it passed or not.
const SlowSuiteThreshold = 2500 * time.Millisecond

// SuitePath returns filePath relative to cfg.RootDir, or filePath itself
// when no root is configured or the path cannot be made relative.
func SuitePath(filePath string, cfg Config) string {
	if cfg.RootDir == "" {
		return filePath
	}
	rel, err := filepath.Rel(cfg.RootDir, filePath)
	if err != nil {
		return filePath
	}
	return rel
}

// TimingLabel returns "(Rs)" for a suite, or "" when perf is nil.
func TimingLabel(perf *PerfStats, cfg Config) string {
	if perf == nil {
		return ""
	}
	elapsed := perf.Elapsed()
	label := "(" + FormatSeconds(elapsed) + "s)"
	if IsSlow(elapsed) {
		return Format(label, StyleSlow, cfg)
	}
	return label
}

// IsSlow reports whether elapsed strictly exceeds SlowSuiteThreshold.
func IsSlow(elapsed time.Duration) bool {
	return elapsed > SlowSuiteThreshold
}

// ResultHeader builds the one-line PASS/FAIL header for a suite.
func ResultHeader(passed bool, suitePath string, cfg Config, timingLabel string) string {
	tag := Format(" PASS ", StylePass, cfg)
	if !passed {
		tag = Format(" FAIL ", StyleFail, cfg)
	}
	parts := []string{tag, Format(suitePath, StyleTestName, cfg)}
	if timingLabel != "" {
		parts = append(parts, timingLabel)
	}
	return strings.Join(parts, " ")
}
