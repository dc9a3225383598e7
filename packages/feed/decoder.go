package feed

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/abdul-hamid-achik/suitereport/packages/report"
	"github.com/tidwall/gjson"
)

// MaxRecordSize bounds a single line of the feed.
const MaxRecordSize = 16 * 1024 * 1024

// RecordType identifies the kind of a feed record.
type RecordType string

const (
	RecordRun   RecordType = "run"
	RecordSuite RecordType = "suite"
)

// Record is one decoded line of the feed.
type Record struct {
	Type        RecordType
	Line        int
	TotalSuites int                 // set for RecordRun
	Suite       *report.SuiteResult // set for RecordSuite
}

// DecodeError reports a record that could not be decoded. Decoding may
// continue past it.
type DecodeError struct {
	Line int
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decoder reads records from a JSON-lines stream.
type Decoder struct {
	scanner  *bufio.Scanner
	line     int
	validate bool
}

type DecoderOption func(*Decoder)

// WithValidation toggles schema validation of each record. On by default.
func WithValidation(v bool) DecoderOption {
	return func(d *Decoder) {
		d.validate = v
	}
}

func NewDecoder(r io.Reader, opts ...DecoderOption) *Decoder {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxRecordSize)
	d := &Decoder{
		scanner:  sc,
		validate: true,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Next returns the next record, skipping blank lines. It returns io.EOF at
// the end of the stream and a *DecodeError for a malformed record.
func (d *Decoder) Next() (Record, error) {
	for d.scanner.Scan() {
		d.line++
		data := bytes.TrimSpace(d.scanner.Bytes())
		if len(data) == 0 {
			continue
		}

		rec, err := d.decode(data)
		if err != nil {
			return Record{}, &DecodeError{Line: d.line, Err: err}
		}
		return rec, nil
	}
	if err := d.scanner.Err(); err != nil {
		return Record{}, fmt.Errorf("reading feed: %w", err)
	}
	return Record{}, io.EOF
}

func (d *Decoder) decode(data []byte) (Record, error) {
	if !gjson.ValidBytes(data) {
		return Record{}, errors.New("invalid JSON")
	}
	if d.validate {
		if err := ValidateRecord(data); err != nil {
			return Record{}, err
		}
	}

	doc := gjson.ParseBytes(data)
	rec := Record{Line: d.line, Type: RecordType(doc.Get("type").String())}
	switch rec.Type {
	case RecordRun:
		rec.TotalSuites = int(doc.Get("totalSuites").Int())
	case RecordSuite:
		suite := parseSuite(doc)
		rec.Suite = &suite
	default:
		return Record{}, fmt.Errorf("unknown record type %q", rec.Type)
	}
	return rec, nil
}

func parseSuite(doc gjson.Result) report.SuiteResult {
	suite := report.SuiteResult{
		FilePath:       doc.Get("filePath").String(),
		FailureMessage: doc.Get("failureMessage").String(),
	}

	if ps := doc.Get("perfStats"); ps.Exists() {
		suite.PerfStats = &report.PerfStats{
			Start: time.UnixMilli(ps.Get("start").Int()),
			End:   time.UnixMilli(ps.Get("end").Int()),
		}
	}

	failed := 0
	doc.Get("testResults").ForEach(func(_, o gjson.Result) bool {
		outcome := report.TestOutcome{
			Title:    o.Get("title").String(),
			Status:   report.Status(o.Get("status").String()),
			Duration: time.Duration(o.Get("duration").Float() * float64(time.Millisecond)),
		}
		for _, a := range o.Get("ancestorTitles").Array() {
			outcome.AncestorTitles = append(outcome.AncestorTitles, a.String())
		}
		for _, m := range o.Get("failureMessages").Array() {
			outcome.FailureMessages = append(outcome.FailureMessages, m.String())
		}
		if outcome.Status == report.StatusFailed {
			failed++
		}
		suite.TestResults = append(suite.TestResults, outcome)
		return true
	})

	// An explicit count may exceed the recorded failures, never undercut them.
	suite.NumFailingTests = failed
	if n := int(doc.Get("numFailingTests").Int()); n > failed {
		suite.NumFailingTests = n
	}
	if suite.NumFailingTests == 0 && suite.FailureMessage != "" {
		suite.NumFailingTests = 1
	}

	return suite
}

// ReadAll decodes a complete feed. The returned total is the announced
// suite count, or the number of suite records when none was announced.
func ReadAll(r io.Reader, opts ...DecoderOption) (int, []report.SuiteResult, error) {
	d := NewDecoder(r, opts...)
	total := -1
	var suites []report.SuiteResult
	for {
		rec, err := d.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, nil, err
		}
		switch rec.Type {
		case RecordRun:
			total = rec.TotalSuites
		case RecordSuite:
			suites = append(suites, *rec.Suite)
		}
	}
	if total < len(suites) {
		total = len(suites)
	}
	return total, suites, nil
}

// CountSuites returns the announced suite total of a feed, or the number of
// suite records when none was announced or more arrived. Malformed records
// are not counted.
func CountSuites(r io.Reader) (int, error) {
	d := NewDecoder(r)
	total, suites := -1, 0
	for {
		rec, err := d.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		var de *DecodeError
		if errors.As(err, &de) {
			continue
		}
		if err != nil {
			return 0, err
		}
		switch rec.Type {
		case RecordRun:
			total = rec.TotalSuites
		case RecordSuite:
			suites++
		}
	}
	if total < suites {
		total = suites
	}
	return total, nil
}
