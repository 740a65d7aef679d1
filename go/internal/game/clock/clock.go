// Package clock keeps every timer of a round on one absolute start time.
//
// A RoundClock is created per phase with a fixed duration and started once.
// Readers never decrement a local counter; they compute the remaining time
// from the shared start, so two surfaces polling the same clock agree to
// within one poll interval. A clock that has not been started reads as the
// full duration, which is how pre-round overlays "pause" the round.
package clock

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	// DefaultRoundDuration is the drawing/tracing time limit.
	DefaultRoundDuration = 20 * time.Second
	// DefaultQuizDuration is the quiz answer time limit.
	DefaultQuizDuration = 15 * time.Second
	// DefaultPollInterval bounds the displayed drift to a quarter second.
	DefaultPollInterval = 250 * time.Millisecond
)

// RoundClock is a single shared start timestamp plus a total duration.
type RoundClock struct {
	clock    clockwork.Clock
	duration time.Duration

	mu      sync.RWMutex
	startAt time.Time
	started bool
}

// New creates an unstarted clock.
func New(c clockwork.Clock, duration time.Duration) *RoundClock {
	return &RoundClock{clock: c, duration: duration}
}

// Start captures the start timestamp. Only the first call has an effect; the
// captured timestamp is returned either way.
func (rc *RoundClock) Start() time.Time {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if !rc.started {
		rc.startAt = rc.clock.Now()
		rc.started = true
	}
	return rc.startAt
}

// Started reports whether the start timestamp has been captured.
func (rc *RoundClock) Started() bool {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return rc.started
}

// StartedAt returns the captured start timestamp.
func (rc *RoundClock) StartedAt() (time.Time, bool) {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return rc.startAt, rc.started
}

// Deadline returns the absolute expiry time.
func (rc *RoundClock) Deadline() (time.Time, bool) {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	if !rc.started {
		return time.Time{}, false
	}
	return rc.startAt.Add(rc.duration), true
}

// Duration returns the configured total duration.
func (rc *RoundClock) Duration() time.Duration {
	return rc.duration
}

// Remaining returns the whole seconds left.
func (rc *RoundClock) Remaining() int {
	rc.mu.RLock()
	start, started := rc.startAt, rc.started
	rc.mu.RUnlock()
	if !started {
		return TotalSeconds(rc.duration)
	}
	return RemainingAt(start, rc.clock.Now(), rc.duration)
}

// Expired reports whether the clock has started and run out.
func (rc *RoundClock) Expired() bool {
	return rc.Started() && rc.Remaining() == 0
}

// RemainingAt computes max(0, total - floor(elapsed seconds)).
func RemainingAt(start, now time.Time, total time.Duration) int {
	elapsedSec := int(now.Sub(start).Milliseconds() / 1000)
	if elapsedSec < 0 {
		elapsedSec = 0
	}
	remaining := TotalSeconds(total) - elapsedSec
	if remaining < 0 {
		return 0
	}
	return remaining
}

// TotalSeconds converts a duration to whole seconds.
func TotalSeconds(d time.Duration) int {
	return int(d / time.Second)
}
