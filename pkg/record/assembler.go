package record

// Assembler groups raw lines into records. It is a two-state machine: either
// no record is pending, or exactly one is. A header line finalizes the
// pending record (if any) and opens a new one; any other line is appended to
// the pending record as a continuation.
//
// The Assembler never decides on its own that a pending record is complete;
// that call belongs to the caller (end of stream, inactivity timeout), which
// invokes Flush.
type Assembler struct {
	pending   *Record
	onAnomaly func(RawLine)
}

// NewAssembler creates an Assembler. onAnomaly, if non-nil, is invoked for
// each non-header line that arrives while no record is pending (malformed
// leading input). Such lines are dropped and parsing continues.
func NewAssembler(onAnomaly func(RawLine)) *Assembler {
	return &Assembler{onAnomaly: onAnomaly}
}

// Feed consumes one raw line. If the line starts a new record while another
// is pending, the pending record is finalized and returned; otherwise Feed
// returns nil.
func (a *Assembler) Feed(line RawLine) *Record {
	hdr, rest, ok := ParseHeader(line.Text)
	if ok {
		done := a.Flush()
		a.pending = &Record{
			Header:     hdr,
			HeaderLine: line.Text,
			Body:       []string{rest},
			FirstLine:  line.Num,
		}
		return done
	}

	if a.pending != nil {
		a.pending.Body = append(a.pending.Body, line.Text)
		return nil
	}

	if a.onAnomaly != nil {
		a.onAnomaly(line)
	}
	return nil
}

// Flush finalizes and returns the pending record, or nil if none is pending.
// A flushed record is never returned again.
func (a *Assembler) Flush() *Record {
	if a.pending == nil {
		return nil
	}
	r := a.pending
	r.Complete = true
	a.pending = nil
	return r
}

// Pending reports whether a record is currently being accumulated.
func (a *Assembler) Pending() bool {
	return a.pending != nil
}
