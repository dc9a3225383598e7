// Package runner drives a report from a stream of suite results.
//
// It plays the part of the test execution engine toward the reporter:
//   - Announcing the run and the number of suites expected
//   - Updating the aggregated counters before each suite is reported
//   - Serializing delivery so the reporter sees one call at a time
//   - Optionally pacing delivery to a fixed rate
//   - Stopping on bail or context cancellation
package runner
