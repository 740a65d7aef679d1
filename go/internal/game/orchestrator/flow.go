package orchestrator

import (
	"context"
	"errors"
	"image"

	"github.com/mcdev12/wordrace/go/internal/game/attempt"
	"github.com/mcdev12/wordrace/go/internal/game/clock"
	"github.com/mcdev12/wordrace/go/internal/game/events"
	"github.com/mcdev12/wordrace/go/internal/game/quiz"
	"github.com/mcdev12/wordrace/go/internal/game/scoring"
	"github.com/mcdev12/wordrace/go/internal/models"
	"github.com/mcdev12/wordrace/go/internal/tracing"
	"github.com/rs/zerolog/log"
)

var errNoContentProvider = errors.New("no content provider configured")

// resetRoundLocked clears per-round state. The last quiz outcome survives
// until the next round clock starts.
func (o *Orchestrator) resetRoundLocked() {
	o.loading = false
	o.roundContent = nil
	o.bonus = false
	o.roundClock = nil
	o.attempts = nil
	o.resolving = false
	o.result = nil
	o.quiz = nil
}

// enterRoundStartLocked requests content for o.round. The bonus draw happens
// here, once per round, when the content is requested.
func (o *Orchestrator) enterRoundStartLocked() {
	o.resetRoundLocked()
	o.bonus = o.cfg.Bonus.Roll()
	o.loading = true
	o.setPhaseLocked(models.GamePhaseRoundStart)

	seq, ctx := o.seq, o.phaseCtx
	o.goTask(func() { o.loadContent(ctx, seq) })
}

func (o *Orchestrator) loadContent(ctx context.Context, seq uint64) {
	var (
		rc  models.RoundContent
		err error
	)
	if o.content == nil {
		err = errNoContentProvider
	} else {
		cctx, cancel := context.WithTimeout(ctx, o.cfg.ContentTimeout)
		rc, err = o.content.Next(cctx)
		cancel()
	}

	o.mu.Lock()
	defer o.unlock()
	if o.seq != seq {
		log.Debug().Uint64("seq", seq).Msg("discarding content for abandoned round")
		return
	}

	if err != nil {
		log.Error().
			Err(err).
			Str("game_id", o.gameID.String()).
			Int("round", o.round).
			Msg("round content unavailable, ending game")
		o.endGameLocked(events.ReasonContentUnavailable)
		return
	}

	o.roundContent = &rc
	o.loading = false
	o.emitLocked(events.TypeRoundStarted, events.RoundStartedPayload{
		Round:       o.round,
		TotalRounds: o.game.TotalRounds,
		Mode:        o.game.Mode,
		Word:        rc.Word,
		WordImage:   rc.WordImage,
		FontSize:    tracing.FontSize(rc.Word),
		Bonus:       o.bonus,
	})
}

// enterActiveRoundLocked captures the round clock's start timestamp and starts
// one watcher per team surface, both reading that same clock.
func (o *Orchestrator) enterActiveRoundLocked() {
	o.setPhaseLocked(models.GamePhaseActiveRound)
	o.quizOutcome = nil
	seq := o.seq
	word := o.roundContent.Word

	var measure attempt.MeasureFunc
	if o.game.Mode == models.GameModeTrace && o.scorer != nil {
		measure = func(ink image.Image) int { return o.scorer.Score(ink, word) }
	}

	o.roundClock = clock.New(o.clock, o.cfg.RoundDuration)
	o.roundClock.Start()
	// onBoth runs inside Collector.Submit, which is only reached with o.mu held.
	o.attempts = attempt.NewRound(o.clock, measure, func(a, b models.RawAttempt) {
		o.beginResolveLocked(seq, a, b)
	})
	o.emitClockStartedLocked(o.roundClock)

	for _, team := range models.Teams {
		o.watchLocked(o.roundClock, team, func() { o.expireTeamLocked(team) })
	}
}

func (o *Orchestrator) expireTeamLocked(team models.Team) {
	if o.attempts == nil {
		return
	}
	col := o.attempts.Collector(team)
	if col.Expire() {
		o.emitAttemptLocked(col, true)
	}
}

func (o *Orchestrator) emitAttemptLocked(col *attempt.Collector, expired bool) {
	a, ok := col.Attempt()
	if !ok {
		return
	}
	log.Info().
		Str("game_id", o.gameID.String()).
		Int("round", o.round).
		Str("team", string(a.Team)).
		Bool("has_drawn", a.HasDrawn).
		Bool("expired", expired).
		Msg("attempt recorded")

	o.emitLocked(events.TypeAttemptSubmitted, events.AttemptSubmittedPayload{
		Round:      o.round,
		Team:       a.Team,
		HasDrawn:   a.HasDrawn,
		Expired:    expired,
		FinishedAt: a.FinishedAt,
	})
}

// beginResolveLocked hands both attempts to the resolver. Resolution may wait
// on the handwriting judge, so it runs outside the lock.
func (o *Orchestrator) beginResolveLocked(seq uint64, a, b models.RawAttempt) {
	if o.seq != seq || o.resolving {
		return
	}
	o.resolving = true
	o.stopWatchersLocked()

	ctx, round, mode, word := o.phaseCtx, o.round, o.game.Mode, o.roundContent.Word
	o.goTask(func() {
		res := o.resolver.Resolve(ctx, round, mode, word, a, b)
		o.finishRound(seq, res)
	})
}

func (o *Orchestrator) finishRound(seq uint64, res models.RoundResult) {
	o.mu.Lock()
	defer o.unlock()
	if o.seq != seq {
		log.Debug().Uint64("seq", seq).Int("round", res.Round).Msg("discarding result for abandoned round")
		return
	}

	o.result = &res
	payload := events.RoundResolvedPayload{Result: res}

	if !o.game.QuizEnabled {
		delta := scoring.DirectPoints(o.game.Mode, res, o.cfg.DirectPoints)
		payload.DirectPoints = &delta
		o.applyLocked(delta)
	}

	o.setPhaseLocked(models.GamePhaseRoundEnd)
	o.emitLocked(events.TypeRoundResolved, payload)
	if payload.DirectPoints != nil {
		o.emitScoresLocked()
	}

	if o.cfg.ResultDisplay > 0 {
		o.scheduleLocked(timerAutoAdvance, o.cfg.ResultDisplay, o.advanceLocked)
	}
}

// advanceLocked leaves ROUND_END. The quiz is only offered to a round winner.
func (o *Orchestrator) advanceLocked() {
	if o.result != nil && o.result.HasWinner() && o.game.QuizEnabled {
		o.enterQuizLocked(o.result.Winner)
		return
	}
	o.nextRoundLocked()
}

func (o *Orchestrator) enterQuizLocked(team models.Team) {
	o.setPhaseLocked(models.GamePhaseQuiz)
	seq := o.seq

	rc := clock.New(o.clock, o.cfg.QuizDuration)
	cfg := quiz.Config{Rewards: o.cfg.Rewards, Bonus: o.bonus, Policy: o.cfg.Bonus}
	// onResolved runs inside Answer or Expire, both reached with o.mu held.
	o.quiz = quiz.NewSession(team, o.roundContent.Quiz, rc, cfg, func(out models.QuizOutcome) {
		o.finishQuizLocked(seq, out)
	})
	o.quiz.Start()

	o.emitLocked(events.TypeQuizStarted, events.QuizStartedPayload{
		Round:    o.round,
		Team:     team,
		Question: o.roundContent.Quiz.Question,
		Options:  o.roundContent.Quiz.Options,
		Bonus:    o.bonus,
	})
	o.emitClockStartedLocked(rc)

	sess := o.quiz
	o.watchLocked(rc, models.TeamNone, func() { sess.Expire() })
}

func (o *Orchestrator) finishQuizLocked(seq uint64, out models.QuizOutcome) {
	if o.seq != seq {
		return
	}
	o.quizOutcome = &out
	o.applyLocked(models.Scores{}.Add(out.Team, out.PointsAwarded))

	o.emitLocked(events.TypeQuizResolved, events.QuizResolvedPayload{Round: o.round, Outcome: out})
	o.emitScoresLocked()
	o.nextRoundLocked()
}

func (o *Orchestrator) nextRoundLocked() {
	if o.round >= o.game.TotalRounds {
		o.endGameLocked(events.ReasonCompleted)
		return
	}
	o.round++
	o.enterRoundStartLocked()
}

func (o *Orchestrator) endGameLocked(reason string) {
	o.endReason = reason
	o.loading = false
	o.setPhaseLocked(models.GamePhaseGameEnd)

	log.Info().
		Str("game_id", o.gameID.String()).
		Str("reason", reason).
		Int("score_a", o.scores.A).
		Int("score_b", o.scores.B).
		Msg("game ended")

	o.emitLocked(events.TypeGameEnded, events.GameEndedPayload{
		Reason: reason,
		Scores: o.scores,
		Winner: o.scores.Leader(),
	})
}

// applyLocked is the only place scores change.
func (o *Orchestrator) applyLocked(delta models.Scores) {
	o.scores = o.scores.Add(models.TeamA, delta.A).Add(models.TeamB, delta.B)
}

func (o *Orchestrator) emitScoresLocked() {
	o.emitLocked(events.TypeScoresUpdated, events.ScoresUpdatedPayload{
		Scores:       o.scores,
		CurrentRound: o.round,
		TotalRounds:  o.game.TotalRounds,
	})
}

func (o *Orchestrator) emitClockStartedLocked(rc *clock.RoundClock) {
	start, _ := rc.StartedAt()
	deadline, _ := rc.Deadline()
	o.emitLocked(events.TypeClockStarted, events.ClockStartedPayload{
		Round:       o.round,
		Phase:       o.phase,
		StartedAt:   start,
		DeadlineAt:  deadline,
		DurationSec: clock.TotalSeconds(rc.Duration()),
	})
}
