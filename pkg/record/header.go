package record

import (
	"regexp"
	"time"
)

// TimeLayout is the timestamp layout used by python-VM log headers,
// e.g. "25-Aug-2026::14:03:22.123". Timestamps are UTC.
const TimeLayout = "2-Jan-2006::15:04:05.000"

// headerPattern matches a python-VM log header line:
//
//	<SEVERITY> D-Mon-YYYY::HH:MM:SS.mmm logger thread - message
//
// The pattern is fixed. It never adapts to observed data, so header
// recognition needs no lookahead.
var headerPattern = regexp.MustCompile(
	`^<([A-Z]+)> (\d{1,2}-[A-Za-z]{3}-\d{4}::\d{2}:\d{2}:\d{2}\.\d{3}) (\S+) (\S+) - (.*)$`)

// ParseHeader parses line as a record header. It returns the header, the
// message text that trails the header fields, and whether the line is a
// header at all.
//
// A line that is header-shaped but whose severity or timestamp fields fail
// to parse is reported as not-a-header, so a multi-line message that happens
// to resemble a header is never spuriously split.
func ParseHeader(line string) (Header, string, bool) {
	m := headerPattern.FindStringSubmatch(line)
	if m == nil {
		return Header{}, "", false
	}

	sev, ok := ParseSeverity(m[1])
	if !ok {
		return Header{}, "", false
	}

	t, err := time.ParseInLocation(TimeLayout, m[2], time.UTC)
	if err != nil {
		return Header{}, "", false
	}

	return Header{
		Time:     t,
		Severity: sev,
		Logger:   m[3],
		Thread:   m[4],
	}, m[5], true
}

// IsHeader reports whether line would start a new record.
func IsHeader(line string) bool {
	_, _, ok := ParseHeader(line)
	return ok
}
