// Package tail provides the line sources that feed the record pipeline:
// a finite batch reader and an fsnotify-based follower for growing files.
package tail

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/mkarlsen/pylv/pkg/record"
)

// maxLineSize caps a single input line at 1MB.
const maxLineSize = 1024 * 1024

// Source yields raw lines in input order onto a channel until the stream
// ends, the context is cancelled, or reading fails.
type Source interface {
	// Run sends lines on out and returns when no more lines will be sent.
	// The caller owns out and should close it after Run returns.
	Run(ctx context.Context, out chan<- record.RawLine) error
}

// BatchSource reads a finite line stream from an io.Reader (a log file or
// stdin).
type BatchSource struct {
	r    io.Reader
	name string
}

// NewBatchSource creates a batch source. name is used in error messages.
func NewBatchSource(r io.Reader, name string) *BatchSource {
	return &BatchSource{r: r, name: name}
}

// Run implements Source. It returns nil at end of stream.
func (s *BatchSource) Run(ctx context.Context, out chan<- record.RawLine) error {
	sc := bufio.NewScanner(s.r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	n := 0
	for sc.Scan() {
		n++
		select {
		case out <- record.RawLine{Text: sc.Text(), Num: n}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", s.name, err)
	}
	return nil
}
