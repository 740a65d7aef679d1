// Package resolver turns the two raw attempts of a round into a RoundResult.
package resolver

import (
	"context"
	"image"
	"time"

	"github.com/mcdev12/wordrace/go/internal/models"
	"github.com/rs/zerolog/log"
)

// DefaultJudgeTimeout bounds a single handwriting verdict.
const DefaultJudgeTimeout = 10 * time.Second

// Judge reports whether ink spells word.
type Judge interface {
	Judge(ctx context.Context, word string, ink image.Image) (bool, error)
}

type Resolver struct {
	judge   Judge
	timeout time.Duration
}

// New creates a resolver. judge is only consulted in DRAW mode and may be nil,
// in which case every drawn attempt is judged incorrect.
func New(judge Judge, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = DefaultJudgeTimeout
	}
	return &Resolver{judge: judge, timeout: timeout}
}

// Resolve computes each team's outcome and the round winner. In DRAW mode
// both verdicts are requested concurrently and Resolve returns once both are
// in or the judge timeout elapses. It never fails; judge errors count as
// incorrect.
func (r *Resolver) Resolve(ctx context.Context, round int, mode models.GameMode, word string, a, b models.RawAttempt) models.RoundResult {
	var outcomes [2]models.TeamOutcome
	attempts := [2]models.RawAttempt{a, b}

	switch mode {
	case models.GameModeDraw:
		verdicts := r.judgeBoth(ctx, word, attempts)
		for i, at := range attempts {
			outcomes[i] = drawOutcome(at, verdicts[i])
		}
	default:
		for i, at := range attempts {
			outcomes[i] = traceOutcome(at)
		}
	}

	result := models.RoundResult{
		Round:    round,
		Winner:   Winner(outcomes[0], outcomes[1]),
		Outcomes: outcomes,
	}

	log.Info().
		Int("round", round).
		Str("mode", string(mode)).
		Str("winner", string(result.Winner)).
		Int("accuracy_a", outcomes[0].FinalAccuracy).
		Int("accuracy_b", outcomes[1].FinalAccuracy).
		Msg("round resolved")
	return result
}

type verdict struct {
	index   int
	correct bool
}

// judgeBoth returns once every requested verdict is in or the judge timeout
// elapses. Verdicts still outstanding at the deadline stay false and are
// discarded when they arrive.
func (r *Resolver) judgeBoth(ctx context.Context, word string, attempts [2]models.RawAttempt) [2]bool {
	var verdicts [2]bool

	jctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	results := make(chan verdict, len(attempts))
	pending := 0
	for i, at := range attempts {
		if !at.HasDrawn || r.judge == nil {
			continue
		}
		pending++
		go func() {
			ok, err := r.judge.Judge(jctx, word, at.Ink)
			if err != nil {
				log.Warn().Err(err).Str("team", string(at.Team)).Msg("handwriting judge failed, marking incorrect")
				ok = false
			}
			results <- verdict{index: i, correct: ok}
		}()
	}

	for pending > 0 {
		select {
		case v := <-results:
			verdicts[v.index] = v.correct
			pending--
		case <-jctx.Done():
			log.Warn().Int("pending", pending).Dur("timeout", r.timeout).Msg("handwriting judge timed out, marking incorrect")
			return verdicts
		}
	}

	return verdicts
}

func traceOutcome(a models.RawAttempt) models.TeamOutcome {
	acc := a.RawAccuracy
	if !a.HasDrawn {
		acc = 0
	}
	return models.TeamOutcome{
		Team:          a.Team,
		FinalAccuracy: acc,
		Success:       a.HasDrawn,
		HasDrawn:      a.HasDrawn,
		FinishedAt:    a.FinishedAt,
	}
}

func drawOutcome(a models.RawAttempt, correct bool) models.TeamOutcome {
	correct = correct && a.HasDrawn
	acc := 0
	if correct {
		acc = 100
	}
	return models.TeamOutcome{
		Team:          a.Team,
		FinalAccuracy: acc,
		Success:       correct,
		HasDrawn:      a.HasDrawn,
		FinishedAt:    a.FinishedAt,
	}
}

// Winner picks the round winner. A lone success wins outright. With no
// success there is no winner. When both succeed, higher accuracy wins, then
// the earlier finish, then team A.
func Winner(a, b models.TeamOutcome) models.Team {
	switch {
	case a.Success && !b.Success:
		return a.Team
	case b.Success && !a.Success:
		return b.Team
	case !a.Success && !b.Success:
		return models.TeamNone
	}

	if a.FinalAccuracy != b.FinalAccuracy {
		if a.FinalAccuracy > b.FinalAccuracy {
			return a.Team
		}
		return b.Team
	}
	if b.FinishedAt.Before(a.FinishedAt) {
		return b.Team
	}
	return a.Team
}
