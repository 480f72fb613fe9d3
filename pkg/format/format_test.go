package format

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mkarlsen/pylv/pkg/record"
)

func utcLocation() (*time.Location, error) { return time.UTC, nil }

func testRecord(sev record.Severity, body ...string) *record.Record {
	return &record.Record{
		Header: record.Header{
			Time:     time.Date(2026, 8, 25, 14, 3, 22, 123_000_000, time.UTC),
			Severity: sev,
			Logger:   "ncs-dp-1-svc",
			Thread:   "th-7",
		},
		Body:     body,
		Complete: true,
	}
}

func renderToString(t *testing.T, layout Layout, r *record.Record, opts ...Option) string {
	t.Helper()
	var sb strings.Builder
	opts = append([]Option{WithLocation(utcLocation)}, opts...)
	f := NewFormatter(&sb, layout, opts...)
	if err := f.Render(r); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return sb.String()
}

func TestRenderBatchLayout(t *testing.T) {
	out := renderToString(t, BatchLayout(), testRecord(record.SeverityInfo, "starting"))

	want := fmt.Sprintf("%5s %s %s %-24s %s\n",
		"INFO", "25-Aug", "14:03:22.123", "ncs-dp-1-svc", "starting")
	if out != want {
		t.Errorf("Render() =\n%q\nwant\n%q", out, want)
	}
}

func TestRenderFollowLayoutOmitsDate(t *testing.T) {
	out := renderToString(t, FollowLayout(), testRecord(record.SeverityInfo, "starting"))

	if strings.Contains(out, "25-Aug") {
		t.Errorf("follow layout contains the date column: %q", out)
	}
	if !strings.Contains(out, "14:03:22.123") {
		t.Errorf("follow layout is missing the time column: %q", out)
	}
}

func TestRenderContinuationsAligned(t *testing.T) {
	r := testRecord(record.SeverityError, "apply failed",
		"Traceback (most recent call last):",
		"  File \"service.py\", line 42, in apply")
	out := renderToString(t, BatchLayout(), r)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}

	// Continuation gutters line up exactly under the message column.
	msgCol := strings.Index(lines[0], "apply failed")
	for _, cont := range lines[1:] {
		gutter := strings.Index(cont, "| ")
		if gutter+2 != msgCol {
			t.Errorf("gutter at column %d, message column is %d: %q", gutter, msgCol, cont)
		}
	}
	if !strings.HasSuffix(lines[1], "Traceback (most recent call last):") {
		t.Errorf("continuation text mangled: %q", lines[1])
	}
}

func TestRenderSeverityColumnIsPure(t *testing.T) {
	a := renderToString(t, FollowLayout(), testRecord(record.SeverityWarn, "first message"))
	b := renderToString(t, FollowLayout(), testRecord(record.SeverityWarn, "completely different"))

	// Identical severities render identically regardless of context.
	if a[:severityWidth] != b[:severityWidth] {
		t.Errorf("severity column differs: %q vs %q", a[:severityWidth], b[:severityWidth])
	}
	if a[:severityWidth] != " WARN" {
		t.Errorf("severity column = %q, want %q", a[:severityWidth], " WARN")
	}
}

func TestRenderLocalTimeConversion(t *testing.T) {
	zone := time.FixedZone("UTC+2", 2*60*60)
	out := renderToString(t, FollowLayout(), testRecord(record.SeverityInfo, "hi"),
		WithLocation(func() (*time.Location, error) { return zone, nil }))

	if !strings.Contains(out, "16:03:22.123") {
		t.Errorf("timestamp not converted to local zone: %q", out)
	}
}

func TestRenderZoneFallbackWarnsOnce(t *testing.T) {
	var warnings []string
	var sb strings.Builder
	f := NewFormatter(&sb, FollowLayout(),
		WithLocation(func() (*time.Location, error) {
			return nil, fmt.Errorf("no zone database")
		}),
		WithDiag(func(format string, args ...any) {
			warnings = append(warnings, fmt.Sprintf(format, args...))
		}))

	for i := 0; i < 3; i++ {
		if err := f.Render(testRecord(record.SeverityInfo, "hi")); err != nil {
			t.Fatalf("Render() error = %v", err)
		}
	}

	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want exactly 1", len(warnings))
	}
	// Fallback displays the unconverted UTC value.
	if !strings.Contains(sb.String(), "14:03:22.123") {
		t.Errorf("fallback output does not show UTC time: %q", sb.String())
	}
}

func TestRenderTruncatesLongLogger(t *testing.T) {
	r := testRecord(record.SeverityInfo, "hi")
	r.Header.Logger = strings.Repeat("x", loggerWidth+10)
	out := renderToString(t, FollowLayout(), r)

	if strings.Contains(out, strings.Repeat("x", loggerWidth+1)) {
		t.Errorf("logger tag not truncated to %d columns: %q", loggerWidth, out)
	}
}
