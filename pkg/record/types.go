package record

import "time"

// RawLine is one line of input text with its 1-based position in the stream.
type RawLine struct {
	// Text is the line content without the trailing newline.
	Text string

	// Num is the 1-based ordinal of the line in the stream.
	Num int
}

// Header holds the fields parsed from a line that starts a new record.
type Header struct {
	// Time is the header timestamp. Python-VM logs carry UTC wall-clock time.
	Time time.Time

	// Severity is the parsed severity level.
	Severity Severity

	// Logger is the component/logger tag, free text.
	Logger string

	// Thread is the thread identifier. Parsed for completeness but never
	// rendered.
	Thread string
}

// Record is a header plus the ordered body of a (possibly multi-line) log
// message.
type Record struct {
	Header Header

	// HeaderLine is the raw text of the line that opened the record.
	HeaderLine string

	// Body holds the message text. Body[0] is the header line's own trailing
	// message text; any further elements are continuation lines, verbatim.
	Body []string

	// FirstLine is the stream ordinal of the header line.
	FirstLine int

	// Complete is set when the record has been finalized and released.
	Complete bool
}

// Message returns the first line of the message (the header's trailing text).
func (r *Record) Message() string {
	if len(r.Body) == 0 {
		return ""
	}
	return r.Body[0]
}

// Continuations returns the body lines that followed the header line.
func (r *Record) Continuations() []string {
	if len(r.Body) < 2 {
		return nil
	}
	return r.Body[1:]
}

// RawLines returns the record's lines exactly as they appeared in the input:
// the header line followed by every continuation line.
func (r *Record) RawLines() []string {
	out := make([]string, 0, len(r.Body))
	out = append(out, r.HeaderLine)
	out = append(out, r.Continuations()...)
	return out
}
