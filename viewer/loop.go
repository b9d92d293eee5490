package viewer

import (
	"context"
	"errors"
	"time"
)

// ErrLoopStopped is returned when posting to a loop that has exited
var ErrLoopStopped = errors.New("viewer: loop stopped")

// Loop runs posted events and frame ticks one at a time on a single goroutine
type Loop struct {
	events chan func()
	done   chan struct{}
}

func NewLoop() *Loop {
	return &Loop{
		events: make(chan func(), 64),
		done:   make(chan struct{}),
	}
}

// Post queues fn. It blocks while the queue is full and fails once the loop has stopped.
func (l *Loop) Post(fn func()) error {
	select {
	case <-l.done:
		return ErrLoopStopped
	default:
	}
	select {
	case l.events <- fn:
		return nil
	case <-l.done:
		return ErrLoopStopped
	}
}

// Do runs fn on the loop and waits for it to finish
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if err := l.Post(func() {
		defer close(finished)
		fn()
	}); err != nil {
		return err
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run dispatches until ctx is done. A positive interval calls tick on every
// ticker fire; otherwise only posted events run.
func (l *Loop) Run(ctx context.Context, interval time.Duration, tick func(time.Time)) error {
	defer close(l.done)
	var ticks <-chan time.Time
	if interval > 0 && tick != nil {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		ticks = ticker.C
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.events:
			fn()
		case now := <-ticks:
			tick(now)
		}
	}
}

// Done is closed when Run returns
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// RunPending executes queued events on the calling goroutine without blocking.
// It is meant for callers that drive the loop by hand instead of calling Run.
func (l *Loop) RunPending() int {
	n := 0
	for {
		select {
		case fn := <-l.events:
			fn()
			n++
		default:
			return n
		}
	}
}
