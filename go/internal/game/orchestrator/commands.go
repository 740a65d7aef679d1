package orchestrator

import (
	"errors"
	"fmt"
	"image"

	"github.com/google/uuid"
	"github.com/mcdev12/wordrace/go/internal/game/attempt"
	"github.com/mcdev12/wordrace/go/internal/game/events"
	"github.com/mcdev12/wordrace/go/internal/game/quiz"
	"github.com/mcdev12/wordrace/go/internal/models"
	"github.com/mcdev12/wordrace/go/internal/teams"
	"github.com/rs/zerolog/log"
)

// StartGame accepts the game configuration. SETUP -> TEAM_SETUP.
func (o *Orchestrator) StartGame(cfg models.GameConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	o.mu.Lock()
	defer o.unlock()
	if o.phase != models.GamePhaseSetup {
		return fmt.Errorf("%w: start game in %s", ErrInvalidPhase, o.phase)
	}

	o.gameID = uuid.New()
	o.game = cfg
	o.scores = models.Scores{}
	o.round = 0
	o.endReason = ""
	o.resetRoundLocked()
	o.quizOutcome = nil
	if o.content != nil {
		o.content.ResetSession()
	}

	log.Info().
		Str("game_id", o.gameID.String()).
		Int("total_rounds", cfg.TotalRounds).
		Str("mode", string(cfg.Mode)).
		Bool("quiz_enabled", cfg.QuizEnabled).
		Msg("game started")

	o.setPhaseLocked(models.GamePhaseTeamSetup)
	o.emitScoresLocked()
	return nil
}

// ConfirmTeams locks in the roster and requests the first round.
// TEAM_SETUP -> ROUND_START.
func (o *Orchestrator) ConfirmTeams(roster teams.Roster) error {
	o.mu.Lock()
	defer o.unlock()
	if o.phase != models.GamePhaseTeamSetup {
		return fmt.Errorf("%w: confirm teams in %s", ErrInvalidPhase, o.phase)
	}
	if o.roster != nil {
		if err := o.roster.Validate(roster); err != nil {
			return err
		}
	}

	o.players = roster
	o.round = 1
	o.enterRoundStartLocked()
	return nil
}

// Ready starts the round clock. ROUND_START -> ACTIVE_ROUND.
func (o *Orchestrator) Ready() error {
	o.mu.Lock()
	defer o.unlock()
	if o.phase != models.GamePhaseRoundStart {
		return fmt.Errorf("%w: ready in %s", ErrInvalidPhase, o.phase)
	}
	if o.loading || o.roundContent == nil {
		return ErrContentNotReady
	}

	o.enterActiveRoundLocked()
	return nil
}

// UpdateCanvas buffers a team's in-progress drawing so that clock expiry can
// submit it.
func (o *Orchestrator) UpdateCanvas(team models.Team, hasDrawn bool, ink image.Image) error {
	o.mu.Lock()
	defer o.unlock()

	col, err := o.collectorLocked(team)
	if err != nil {
		return err
	}
	col.Buffer(attempt.Canvas{HasDrawn: hasDrawn, Ink: ink})
	return nil
}

// SubmitAttempt records a team's explicit "done". It reports whether the
// submission was recorded; a second submission in the same round is ignored.
func (o *Orchestrator) SubmitAttempt(team models.Team, hasDrawn bool, ink image.Image) (bool, error) {
	o.mu.Lock()
	defer o.unlock()

	col, err := o.collectorLocked(team)
	if err != nil {
		return false, err
	}
	// The second submission triggers resolution from inside Submit.
	if !col.Submit(hasDrawn, 0, ink) {
		return false, nil
	}
	o.emitAttemptLocked(col, false)
	return true, nil
}

// Advance leaves ROUND_END for the quiz, the next round, or the end of the
// game.
func (o *Orchestrator) Advance() error {
	o.mu.Lock()
	defer o.unlock()
	if o.phase != models.GamePhaseRoundEnd {
		return fmt.Errorf("%w: advance in %s", ErrInvalidPhase, o.phase)
	}

	o.advanceLocked()
	return nil
}

// AnswerQuiz records the quiz taker's choice. It reports whether the answer
// was accepted; anything after the first answer or the deadline is rejected.
func (o *Orchestrator) AnswerQuiz(team models.Team, optionIndex int) (bool, error) {
	o.mu.Lock()
	defer o.unlock()
	if o.phase != models.GamePhaseQuiz || o.quiz == nil {
		return false, fmt.Errorf("%w: answer quiz in %s", ErrInvalidPhase, o.phase)
	}
	if !team.Valid() {
		return false, ErrUnknownTeam
	}

	err := o.quiz.Answer(team, optionIndex)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, quiz.ErrLocked):
		log.Debug().Str("team", string(team)).Msg("quiz input after lock ignored")
		return false, nil
	default:
		return false, err
	}
}

// PlayAgain returns to SETUP. GAME_END -> SETUP.
func (o *Orchestrator) PlayAgain() error {
	o.mu.Lock()
	defer o.unlock()
	if o.phase != models.GamePhaseGameEnd {
		return fmt.Errorf("%w: play again in %s", ErrInvalidPhase, o.phase)
	}

	o.resetRoundLocked()
	o.quizOutcome = nil
	o.round = 0
	o.setPhaseLocked(models.GamePhaseSetup)
	return nil
}

// EndGame force-ends a running game, cancelling all of its timers.
func (o *Orchestrator) EndGame(reason string) error {
	o.mu.Lock()
	defer o.unlock()
	if o.phase == models.GamePhaseSetup || o.phase == models.GamePhaseGameEnd {
		return fmt.Errorf("%w: end game in %s", ErrInvalidPhase, o.phase)
	}
	if reason == "" {
		reason = events.ReasonAborted
	}

	o.endGameLocked(reason)
	return nil
}

func (o *Orchestrator) collectorLocked(team models.Team) (*attempt.Collector, error) {
	if o.phase != models.GamePhaseActiveRound || o.attempts == nil {
		return nil, fmt.Errorf("%w: drawing in %s", ErrInvalidPhase, o.phase)
	}
	col := o.attempts.Collector(team)
	if col == nil {
		return nil, ErrUnknownTeam
	}
	return col, nil
}
