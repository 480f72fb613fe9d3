// Package format renders completed records as column-aligned, colorized
// text, with time-gap separators between distant records.
package format

// Column widths and layouts are fixed by field semantics, never computed
// from observed data, so rendering a streaming log needs no lookahead.
const (
	// severityWidth fits the longest severity label (TRACE, DEBUG, ERROR).
	severityWidth = 5

	// loggerWidth fits typical python-VM logger tags; longer tags are
	// truncated.
	loggerWidth = 24

	dateLayout  = "02-Jan"
	clockLayout = "15:04:05.000"
)

// Layout selects which columns batch and follow output carry.
type Layout struct {
	// ShowDate includes the date column. Only batch output carries it; in
	// follow mode the date is evident from continuous viewing.
	ShowDate bool
}

// BatchLayout is the layout for finite (paged) output.
func BatchLayout() Layout { return Layout{ShowDate: true} }

// FollowLayout is the layout for continuously tailed output.
func FollowLayout() Layout { return Layout{} }

// messageOffset is the fixed column at which message text starts.
func (l Layout) messageOffset() int {
	n := severityWidth + 1 + len(clockLayout) + 1 + loggerWidth + 1
	if l.ShowDate {
		n += len(dateLayout) + 1
	}
	return n
}
