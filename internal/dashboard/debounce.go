package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrSuperseded is returned to a debounced call that a newer call for the
// same key replaced before its window elapsed.
var ErrSuperseded = errors.New("superseded by a newer request")

// Debouncer collapses bursts of calls per key into the last one. Each call
// waits out the window; only a call that is still the newest for its key when
// the window ends runs.
type Debouncer struct {
	window  time.Duration
	mu      sync.Mutex
	pending map[string]chan struct{}
}

func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{window: window, pending: make(map[string]chan struct{})}
}

// Do runs fn after the window unless a newer Do for key arrives first, in
// which case it returns ErrSuperseded without calling fn.
func (d *Debouncer) Do(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	if d.window <= 0 {
		return fn(ctx)
	}

	mine := make(chan struct{})
	d.mu.Lock()
	if prev, ok := d.pending[key]; ok {
		close(prev)
	}
	d.pending[key] = mine
	d.mu.Unlock()

	timer := time.NewTimer(d.window)
	defer timer.Stop()

	select {
	case <-mine:
		return ErrSuperseded
	case <-ctx.Done():
		d.release(key, mine)
		return ctx.Err()
	case <-timer.C:
	}

	if !d.release(key, mine) {
		return ErrSuperseded
	}
	return fn(ctx)
}

// release drops mine from pending and reports whether it was still the newest.
func (d *Debouncer) release(key string, mine chan struct{}) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending[key] != mine {
		return false
	}
	delete(d.pending, key)
	return true
}
