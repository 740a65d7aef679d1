// Package attempt records each team's single submission for a round.
package attempt

import (
	"image"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/wordrace/go/internal/models"
	"github.com/rs/zerolog/log"
)

// Canvas is the in-progress state of a team's drawing surface. It is what
// gets submitted when the clock expires before the team presses Done.
type Canvas struct {
	HasDrawn    bool
	RawAccuracy int
	Ink         image.Image
}

// MeasureFunc computes the raw accuracy of submitted ink.
type MeasureFunc func(ink image.Image) int

// Collector captures "done" for one team exactly once.
type Collector struct {
	team    models.Team
	clock   clockwork.Clock
	measure MeasureFunc

	mu       sync.Mutex
	buffered Canvas
	attempt  *models.RawAttempt
	onDone   func(models.RawAttempt)
}

// NewCollector creates a collector for team. When measure is set it replaces
// the caller's accuracy for drawn submissions and is called at most once.
// onDone is invoked once, outside the collector's lock, with the recorded
// attempt.
func NewCollector(team models.Team, c clockwork.Clock, measure MeasureFunc, onDone func(models.RawAttempt)) *Collector {
	return &Collector{team: team, clock: c, measure: measure, onDone: onDone}
}

// Team returns the team this collector belongs to.
func (c *Collector) Team() models.Team {
	return c.team
}

// Buffer replaces the in-progress canvas. Ignored once an attempt exists.
func (c *Collector) Buffer(canvas Canvas) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.attempt != nil {
		return
	}
	c.buffered = canvas
}

// Submit records the attempt if none exists yet. It reports whether this call
// was the one that recorded it; later calls are no-ops.
func (c *Collector) Submit(hasDrawn bool, rawAccuracy int, ink image.Image) bool {
	c.mu.Lock()
	if c.attempt != nil {
		c.mu.Unlock()
		log.Debug().Str("team", string(c.team)).Msg("ignoring duplicate submission")
		return false
	}
	if !hasDrawn {
		rawAccuracy = 0
		ink = nil
	} else if c.measure != nil {
		rawAccuracy = c.measure(ink)
	}
	a := models.RawAttempt{
		Team:        c.team,
		HasDrawn:    hasDrawn,
		RawAccuracy: clampAccuracy(rawAccuracy),
		Ink:         ink,
		FinishedAt:  c.clock.Now(),
	}
	c.attempt = &a
	onDone := c.onDone
	c.mu.Unlock()

	if onDone != nil {
		onDone(a)
	}
	return true
}

// Expire submits whatever canvas is buffered, an untouched canvas included.
func (c *Collector) Expire() bool {
	c.mu.Lock()
	canvas := c.buffered
	c.mu.Unlock()
	return c.Submit(canvas.HasDrawn, canvas.RawAccuracy, canvas.Ink)
}

// Attempt returns the recorded attempt, if any.
func (c *Collector) Attempt() (models.RawAttempt, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.attempt == nil {
		return models.RawAttempt{}, false
	}
	return *c.attempt, true
}

// Done reports whether the team has submitted.
func (c *Collector) Done() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempt != nil
}

func clampAccuracy(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
