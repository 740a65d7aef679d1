package orchestrator

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const timerAutoAdvance = "auto_advance"

// scheduleLocked arms a one-shot timer for the current phase. When it fires,
// fn runs under the state lock only if the phase that armed it is still
// current.
func (o *Orchestrator) scheduleLocked(name string, d time.Duration, fn func()) {
	seq := o.seq
	ctx := o.phaseCtx
	timer := o.clock.NewTimer(d)

	// Atomically replace any existing timer with this name
	o.replaceTimer(name, timer)

	go func(t clockwork.Timer) {
		select {
		case <-t.Chan():
			o.removeTimer(name, t)

			o.mu.Lock()
			defer o.unlock()
			if o.seq != seq {
				log.Debug().Str("timer", name).Uint64("seq", seq).Msg("discarding stale timer")
				return
			}
			log.Debug().Str("timer", name).Msg("timer fired")
			fn()
		case <-ctx.Done():
			stopAndDrainTimer(t)
			o.removeTimer(name, t)
			log.Debug().Str("timer", name).Msg("timer cancelled with its phase")
		}
	}(timer)

	log.Debug().
		Str("timer", name).
		Dur("duration", d).
		Msg("scheduled one-shot timer")
}

// replaceTimer atomically replaces a named timer, stopping any existing one.
func (o *Orchestrator) replaceTimer(name string, newTimer clockwork.Timer) {
	o.activeTimersMu.Lock()
	defer o.activeTimersMu.Unlock()

	if existing, ok := o.activeTimers[name]; ok {
		stopAndDrainTimer(existing)
		log.Debug().Str("timer", name).Msg("replaced existing timer")
	}
	o.activeTimers[name] = newTimer
}

// stopAndDrainTimer stops a timer and drains its channel if it already fired.
func stopAndDrainTimer(timer clockwork.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.Chan():
		default:
		}
	}
}

// cancelAllTimers stops every active timer.
func (o *Orchestrator) cancelAllTimers() {
	o.activeTimersMu.Lock()
	defer o.activeTimersMu.Unlock()

	for name, t := range o.activeTimers {
		stopAndDrainTimer(t)
		log.Debug().Str("timer", name).Msg("cancelled timer")
	}
	o.activeTimers = make(map[string]clockwork.Timer)
}

// removeTimer forgets a timer that fired or was cancelled, unless it has
// already been replaced.
func (o *Orchestrator) removeTimer(name string, t clockwork.Timer) {
	o.activeTimersMu.Lock()
	defer o.activeTimersMu.Unlock()
	if o.activeTimers[name] == t {
		delete(o.activeTimers, name)
	}
}
