package attempt

import (
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/wordrace/go/internal/models"
)

// Round pairs the two collectors of a round and hands both attempts off
// exactly once, after the second team is in.
type Round struct {
	collectors [2]*Collector

	once     sync.Once
	mu       sync.Mutex
	attempts [2]*models.RawAttempt
	onBoth   func(a, b models.RawAttempt)
}

// NewRound creates the collector pair. measure may be nil. onBoth receives
// the attempts of team A and team B in that order, on the goroutine that
// submitted second.
func NewRound(c clockwork.Clock, measure MeasureFunc, onBoth func(a, b models.RawAttempt)) *Round {
	r := &Round{onBoth: onBoth}
	for _, team := range models.Teams {
		r.collectors[team.Index()] = NewCollector(team, c, measure, r.record)
	}
	return r
}

// Collector returns the collector of a team.
func (r *Round) Collector(team models.Team) *Collector {
	if !team.Valid() {
		return nil
	}
	return r.collectors[team.Index()]
}

// ExpireAll submits the buffered canvas of every team that has not yet
// submitted.
func (r *Round) ExpireAll() {
	for _, c := range r.collectors {
		c.Expire()
	}
}

// Complete reports whether both teams have submitted.
func (r *Round) Complete() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attempts[0] != nil && r.attempts[1] != nil
}

func (r *Round) record(a models.RawAttempt) {
	r.mu.Lock()
	r.attempts[a.Team.Index()] = &a
	ready := r.attempts[0] != nil && r.attempts[1] != nil
	var first, second models.RawAttempt
	if ready {
		first, second = *r.attempts[0], *r.attempts[1]
	}
	r.mu.Unlock()

	if ready && r.onBoth != nil {
		r.once.Do(func() { r.onBoth(first, second) })
	}
}
