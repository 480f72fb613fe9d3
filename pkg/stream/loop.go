// Package stream drives raw lines through the record assembler and decides
// when a pending record stops accepting continuations.
//
// A single goroutine owns the whole pipeline: it merges the line channel,
// the follow-mode inactivity timer, and context cancellation in one select
// loop, so the pending record needs no locking.
package stream

import (
	"context"
	"time"

	"github.com/mkarlsen/pylv/pkg/record"
)

// DefaultIdleTimeout is the follow-mode inactivity period after which a
// pending record is considered complete.
const DefaultIdleTimeout = 200 * time.Millisecond

// Options configures a Loop.
type Options struct {
	// Follow enables the inactivity timer. Without it the only flush
	// triggers are the next header and end of stream.
	Follow bool

	// IdleTimeout is the follow-mode inactivity period. Zero means
	// DefaultIdleTimeout.
	IdleTimeout time.Duration

	// Keep, if non-nil, is applied to each completed record before emission;
	// records it rejects are silently dropped. This is the severity-filter
	// insertion point.
	Keep func(*record.Record) bool

	// OnAnomaly receives malformed leading lines (see record.NewAssembler).
	OnAnomaly func(record.RawLine)
}

// Loop assembles records from a line channel and hands each completed record
// to an emit function, in input order.
type Loop struct {
	asm  *record.Assembler
	emit func(*record.Record) error
	opts Options
}

// New creates a Loop that emits completed records via emit.
func New(opts Options, emit func(*record.Record) error) *Loop {
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = DefaultIdleTimeout
	}
	return &Loop{
		asm:  record.NewAssembler(opts.OnAnomaly),
		emit: emit,
		opts: opts,
	}
}

// Run consumes lines until the channel closes or ctx is cancelled. In both
// cases any pending record is flushed before Run returns, so the last
// in-progress message is never lost.
//
// In follow mode the inactivity timer is re-armed after every line processed
// while a record is pending; if it expires before the next line arrives, the
// pending record is flushed as final.
func (l *Loop) Run(ctx context.Context, lines <-chan record.RawLine) error {
	var timer *time.Timer
	var expiry <-chan time.Time

	disarm := func() {
		if timer != nil {
			timer.Stop()
			timer = nil
		}
		expiry = nil
	}
	defer disarm()

	arm := func() {
		disarm()
		if !l.opts.Follow || !l.asm.Pending() {
			return
		}
		timer = time.NewTimer(l.opts.IdleTimeout)
		expiry = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			// Interrupt: flush synchronously, then exit the loop cleanly.
			return l.release(l.asm.Flush())

		case line, ok := <-lines:
			if !ok {
				return l.release(l.asm.Flush())
			}
			if done := l.asm.Feed(line); done != nil {
				if err := l.release(done); err != nil {
					return err
				}
			}
			arm()

		case <-expiry:
			disarm()
			if err := l.release(l.asm.Flush()); err != nil {
				return err
			}
		}
	}
}

// release applies the Keep filter and emits the record. Nil records are
// ignored so callers can pass Flush results through unconditionally.
func (l *Loop) release(r *record.Record) error {
	if r == nil {
		return nil
	}
	if l.opts.Keep != nil && !l.opts.Keep(r) {
		return nil
	}
	return l.emit(r)
}
