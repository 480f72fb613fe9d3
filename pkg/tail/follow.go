package tail

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mkarlsen/pylv/pkg/record"
)

// DefaultBacklog is how many trailing lines a FollowSource emits before it
// starts waiting for new appends.
const DefaultBacklog = 100

// FollowSource tails a growing log file. It first emits the last backlog
// lines of the file, then streams newly appended lines as change
// notifications arrive. Truncation rewinds to the start; a removed or
// renamed file is retried for a few seconds before giving up.
type FollowSource struct {
	path    string
	backlog int

	offset int64
	carry  string // bytes after the last newline seen so far
	n      int
}

// NewFollowSource creates a follower for path. backlog < 0 means
// DefaultBacklog; 0 suppresses the initial backlog entirely.
func NewFollowSource(path string, backlog int) *FollowSource {
	if backlog < 0 {
		backlog = DefaultBacklog
	}
	return &FollowSource{path: path, backlog: backlog}
}

// Run implements Source. It returns nil on context cancellation and an error
// on any read failure.
func (s *FollowSource) Run(ctx context.Context, out chan<- record.RawLine) error {
	f, err := os.Open(s.path) // #nosec G304 -- user-selected log path is expected
	if err != nil {
		return fmt.Errorf("opening %s: %w", s.path, err)
	}
	defer func() { f.Close() }()

	lines, err := s.readBacklog(f)
	if err != nil {
		return err
	}
	for _, text := range lines {
		s.n++
		select {
		case out <- record.RawLine{Text: text, Num: s.n}:
		case <-ctx.Done():
			return nil
		}
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(s.path); err != nil {
		return fmt.Errorf("watching %s: %w", s.path, err)
	}
	// Appends between the backlog read and the watch registration would
	// otherwise go unnoticed until the next write.
	if err := s.readNew(ctx, f, out); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			switch {
			case ev.Op&fsnotify.Write != 0:
				if err := s.readNew(ctx, f, out); err != nil {
					return err
				}
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				f.Close()
				nf, err := s.reopen(ctx, w)
				if err != nil {
					return err
				}
				if nf == nil {
					return nil // cancelled while waiting
				}
				f = nf
				if err := s.readNew(ctx, f, out); err != nil {
					return err
				}
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watching %s: %w", s.path, err)
		}
	}
}

// readBacklog reads the whole file and returns its last backlog complete
// lines. A trailing partial line is carried over for the next read.
func (s *FollowSource) readBacklog(f *os.File) ([]string, error) {
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	s.offset = int64(len(data))

	lines := strings.Split(string(data), "\n")
	s.carry = lines[len(lines)-1]
	lines = lines[:len(lines)-1]

	if len(lines) > s.backlog {
		lines = lines[len(lines)-s.backlog:]
	}
	return lines, nil
}

// readNew emits the complete lines appended since the last read.
func (s *FollowSource) readNew(ctx context.Context, f *os.File, out chan<- record.RawLine) error {
	st, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", s.path, err)
	}
	if st.Size() < s.offset {
		// Truncated in place: start over from the top.
		s.offset = 0
		s.carry = ""
	}
	if _, err := f.Seek(s.offset, io.SeekStart); err != nil {
		return fmt.Errorf("seeking %s: %w", s.path, err)
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("reading %s: %w", s.path, err)
	}
	if len(data) == 0 {
		return nil
	}
	s.offset += int64(len(data))

	lines := strings.Split(s.carry+string(data), "\n")
	s.carry = lines[len(lines)-1]
	for _, text := range lines[:len(lines)-1] {
		s.n++
		select {
		case out <- record.RawLine{Text: text, Num: s.n}:
		case <-ctx.Done():
			return nil
		}
	}
	return nil
}

// reopen waits for a rotated file to reappear, re-registers the watch, and
// returns the new handle. Returns (nil, nil) if the context was cancelled
// while waiting.
func (s *FollowSource) reopen(ctx context.Context, w *fsnotify.Watcher) (*os.File, error) {
	for i := 0; i < 5; i++ {
		select {
		case <-ctx.Done():
			return nil, nil
		case <-time.After(time.Second):
		}

		f, err := os.Open(s.path) // #nosec G304
		if err != nil {
			continue
		}
		if err := w.Add(s.path); err != nil {
			f.Close()
			return nil, fmt.Errorf("re-watching %s: %w", s.path, err)
		}
		s.offset = 0
		s.carry = ""
		return f, nil
	}
	return nil, fmt.Errorf("log file %s disappeared and did not come back", s.path)
}
