package clock

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Watcher polls a RoundClock on a fixed cadence on behalf of one surface.
// It reports the remaining seconds on every tick and fires its expiry
// callback exactly once when the clock reaches zero, then stops.
type Watcher struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Watch starts polling rc. onTick may be nil. The watcher stops when ctx is
// cancelled, Stop is called, or the clock expires.
func Watch(ctx context.Context, c clockwork.Clock, rc *RoundClock, interval time.Duration, onTick func(remaining int), onExpire func()) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	wctx, cancel := context.WithCancel(ctx)
	w := &Watcher{cancel: cancel, done: make(chan struct{})}

	ticker := c.NewTicker(interval)
	go func() {
		defer close(w.done)
		defer cancel()
		defer ticker.Stop()

		check := func() bool {
			remaining := rc.Remaining()
			if onTick != nil {
				onTick(remaining)
			}
			if rc.Started() && remaining == 0 {
				if onExpire != nil {
					onExpire()
				}
				return true
			}
			return false
		}

		if check() {
			return
		}
		for {
			select {
			case <-wctx.Done():
				return
			case <-ticker.Chan():
				if wctx.Err() != nil {
					return
				}
				if check() {
					return
				}
			}
		}
	}()

	return w
}

// Stop cancels the watcher. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.once.Do(w.cancel)
}

// Done is closed once the polling goroutine has exited.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}
