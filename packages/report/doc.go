// Package report renders the progress and results of a test run to a
// terminal.
//
// A run is driven by three lifecycle calls on a Reporter:
//   - OnRunStart: once, before any suite completes
//   - OnTestResult: once per completed suite, in completion order
//   - OnRunComplete: once, after the last suite
//
// Between suites a transient "Running N test suites..." line is shown.
// Each suite prints a PASS/FAIL header; failure detail is either written
// immediately or, in verbose mode, deferred until the run completes so it
// does not interleave with per-test verbose output.
//
// With NoHighlight set every piece of output is plain text, suitable for
// redirected streams and log files.
package report
