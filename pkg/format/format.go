package format

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mkarlsen/pylv/pkg/record"
)

// Severity palette, matching the classic python-VM viewer colors.
var (
	styleTrace  = lipgloss.NewStyle().Faint(true)
	styleDebug  = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true) // magenta
	styleInfo   = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true) // green
	styleWarn   = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true) // yellow
	styleError  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true) // red
	styleTime   = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true) // blue
	styleLogger = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))            // yellow
	styleGap    = lipgloss.NewStyle().Faint(true)
)

func severityStyle(s record.Severity) lipgloss.Style {
	switch s {
	case record.SeverityTrace:
		return styleTrace
	case record.SeverityDebug:
		return styleDebug
	case record.SeverityWarn:
		return styleWarn
	case record.SeverityError:
		return styleError
	default:
		return styleInfo
	}
}

// Formatter renders completed records to a writer. It is driven by a single
// goroutine; rendering is a pure function of the record and the fixed layout.
type Formatter struct {
	w      io.Writer
	layout Layout
	color  bool
	gap    *GapTracker

	locFn   func() (*time.Location, error)
	locOnce sync.Once
	loc     *time.Location
	diag    func(format string, args ...any)
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithColor enables or disables ANSI color output.
func WithColor(on bool) Option {
	return func(f *Formatter) { f.color = on }
}

// WithGap attaches a gap tracker; a separator line is written before any
// record whose timestamp is far from the previously emitted one.
func WithGap(g *GapTracker) Option {
	return func(f *Formatter) { f.gap = g }
}

// WithLocation overrides how the local time zone is resolved.
func WithLocation(fn func() (*time.Location, error)) Option {
	return func(f *Formatter) { f.locFn = fn }
}

// WithDiag sets the sink for diagnostic warnings (defaults to discarding).
func WithDiag(fn func(format string, args ...any)) Option {
	return func(f *Formatter) { f.diag = fn }
}

// NewFormatter creates a Formatter writing to w with the given layout.
func NewFormatter(w io.Writer, layout Layout, opts ...Option) *Formatter {
	f := &Formatter{
		w:      w,
		layout: layout,
		locFn: func() (*time.Location, error) {
			return time.LoadLocation("Local")
		},
		diag: func(string, ...any) {},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// location resolves the display time zone once per Formatter. If the local
// zone is unavailable it warns once and falls back to UTC.
func (f *Formatter) location() *time.Location {
	f.locOnce.Do(func() {
		loc, err := f.locFn()
		if err != nil {
			f.diag("warning: local time zone unavailable, showing UTC timestamps: %v", err)
			loc = time.UTC
		}
		f.loc = loc
	})
	return f.loc
}

// Render writes one record: an optional gap separator, the aligned header
// line, and the indented continuation lines.
func (f *Formatter) Render(r *record.Record) error {
	t := r.Header.Time.In(f.location())

	if f.gap != nil {
		if sep, ok := f.gap.Separator(t); ok {
			if f.color {
				sep = styleGap.Render(sep)
			}
			if _, err := fmt.Fprintln(f.w, sep); err != nil {
				return err
			}
		}
	}

	var b strings.Builder
	sevStyle := severityStyle(r.Header.Severity)

	sev := fmt.Sprintf("%*s", severityWidth, r.Header.Severity.String())
	if f.color {
		sev = sevStyle.Render(sev)
	}
	b.WriteString(sev)
	b.WriteByte(' ')

	if f.layout.ShowDate {
		d := t.Format(dateLayout)
		if f.color {
			d = styleTime.Render(d)
		}
		b.WriteString(d)
		b.WriteByte(' ')
	}

	clock := t.Format(clockLayout)
	if f.color {
		clock = styleTime.Render(clock)
	}
	b.WriteString(clock)
	b.WriteByte(' ')

	logger := fmt.Sprintf("%-*s", loggerWidth, truncate(r.Header.Logger, loggerWidth))
	if f.color {
		logger = styleLogger.Render(logger)
	}
	b.WriteString(logger)
	b.WriteByte(' ')

	b.WriteString(f.message(r.Header.Severity, r.Message()))

	if _, err := fmt.Fprintln(f.w, b.String()); err != nil {
		return err
	}

	indent := strings.Repeat(" ", f.layout.messageOffset()-2)
	gutter := "|"
	if f.color {
		gutter = sevStyle.Render(gutter)
	}
	for _, cont := range r.Continuations() {
		line := indent + gutter + " " + f.message(r.Header.Severity, cont)
		if _, err := fmt.Fprintln(f.w, line); err != nil {
			return err
		}
	}
	return nil
}

// message colorizes message text. Only errors get their message body
// colored; everything else stays plain for readability.
func (f *Formatter) message(sev record.Severity, text string) string {
	if f.color && sev == record.SeverityError {
		return styleError.Render(text)
	}
	return text
}

func truncate(s string, w int) string {
	if len(s) > w {
		return s[:w]
	}
	return s
}
