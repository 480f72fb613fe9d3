package tail

import (
	"context"
	"strings"
	"testing"

	"github.com/mkarlsen/pylv/pkg/record"
)

func collect(t *testing.T, src Source) []record.RawLine {
	t.Helper()

	out := make(chan record.RawLine, 64)
	done := make(chan error, 1)
	go func() {
		done <- src.Run(context.Background(), out)
		close(out)
	}()

	var lines []record.RawLine
	for l := range out {
		lines = append(lines, l)
	}
	if err := <-done; err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return lines
}

func TestBatchSource(t *testing.T) {
	input := "first\nsecond\nthird\n"
	lines := collect(t, NewBatchSource(strings.NewReader(input), "test"))

	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	for i, want := range []string{"first", "second", "third"} {
		if lines[i].Text != want {
			t.Errorf("line %d = %q, want %q", i, lines[i].Text, want)
		}
		if lines[i].Num != i+1 {
			t.Errorf("line %d Num = %d, want %d", i, lines[i].Num, i+1)
		}
	}
}

func TestBatchSourceNoTrailingNewline(t *testing.T) {
	lines := collect(t, NewBatchSource(strings.NewReader("only line"), "test"))

	if len(lines) != 1 || lines[0].Text != "only line" {
		t.Fatalf("got %v, want one line %q", lines, "only line")
	}
}

func TestBatchSourceEmpty(t *testing.T) {
	lines := collect(t, NewBatchSource(strings.NewReader(""), "test"))
	if len(lines) != 0 {
		t.Fatalf("got %d lines from empty input, want 0", len(lines))
	}
}
