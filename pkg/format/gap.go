package format

import (
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

// DefaultGapThreshold is the elapsed time between consecutive records above
// which a separator line is inserted.
const DefaultGapThreshold = 30 * time.Second

// GapTracker remembers the timestamp of the most recently emitted record and
// produces a separator line when the next record is far behind it.
type GapTracker struct {
	threshold time.Duration
	width     func() int
	last      time.Time
	seen      bool
}

// NewGapTracker creates a tracker. threshold <= 0 means DefaultGapThreshold;
// a nil width function uses the detected terminal width.
func NewGapTracker(threshold time.Duration, width func() int) *GapTracker {
	if threshold <= 0 {
		threshold = DefaultGapThreshold
	}
	if width == nil {
		width = TerminalWidth
	}
	return &GapTracker{threshold: threshold, width: width}
}

// Separator returns the separator line to print before a record timestamped
// t, if the elapsed time since the previous record strictly exceeds the
// threshold. The tracked timestamp advances on every call, separator or not.
func (g *GapTracker) Separator(t time.Time) (string, bool) {
	prev, seen := g.last, g.seen
	g.last, g.seen = t, true

	if !seen {
		return "", false
	}
	delta := t.Sub(prev)
	if delta <= g.threshold {
		return "", false
	}

	line := fmt.Sprintf("--- %d seconds later ---", int(delta/time.Second))
	if pad := g.width() - len(line); pad > 0 {
		line += strings.Repeat("-", pad)
	}
	return line, true
}

// TerminalWidth reports the current stdout width, defaulting to 80 when
// stdout is not a terminal.
func TerminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}
