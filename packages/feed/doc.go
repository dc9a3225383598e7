// Package feed decodes the JSON-lines stream of suite results that drives a
// report.
//
// The stream starts with an optional run record announcing how many suites
// will be delivered, followed by one suite record per completed suite:
//
//	{"type":"run","totalSuites":2}
//	{"type":"suite","filePath":"/repo/a_test.go","perfStats":{"start":1700000000000,"end":1700000000420},"testResults":[{"title":"adds","status":"passed","duration":3}]}
//	{"type":"suite","filePath":"/repo/b_test.go","numFailingTests":1,"testResults":[{"title":"subtracts","ancestorTitles":["math"],"status":"failed","failureMessages":["expected 1, got 2"]}]}
//
// Timestamps are Unix milliseconds and durations are milliseconds. Every
// record is validated against an embedded JSON schema before decoding.
package feed
