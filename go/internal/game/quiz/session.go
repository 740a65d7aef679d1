// Package quiz runs the timed multiple choice challenge offered to a round
// winner.
package quiz

import (
	"errors"
	"sync"

	"github.com/mcdev12/wordrace/go/internal/game/clock"
	"github.com/mcdev12/wordrace/go/internal/game/scoring"
	"github.com/mcdev12/wordrace/go/internal/models"
	"github.com/rs/zerolog/log"
)

var (
	// ErrLocked is returned for any input after the quiz has resolved.
	ErrLocked = errors.New("quiz already resolved")
	// ErrNotQuizTaker is returned when the other team tries to answer.
	ErrNotQuizTaker = errors.New("team is not taking this quiz")
	// ErrInvalidOption is returned for an option index outside the question.
	ErrInvalidOption = errors.New("invalid quiz option")
)

// Config carries the scoring inputs of a session.
type Config struct {
	Rewards scoring.RewardTable
	Bonus   bool
	Policy  scoring.BonusPolicy
}

// Session is one quiz instance. It resolves exactly once, by answer or by
// expiry of its own clock, and rejects all input after that.
type Session struct {
	team  models.Team
	quiz  models.Quiz
	clock *clock.RoundClock
	cfg   Config

	mu         sync.Mutex
	outcome    *models.QuizOutcome
	onResolved func(models.QuizOutcome)
}

// NewSession creates a session for team. The clock is not started; call
// Start when the question is shown. onResolved is called once, outside the
// session lock.
func NewSession(team models.Team, q models.Quiz, rc *clock.RoundClock, cfg Config, onResolved func(models.QuizOutcome)) *Session {
	return &Session{team: team, quiz: q, clock: rc, cfg: cfg, onResolved: onResolved}
}

// Start captures the quiz clock's start timestamp.
func (s *Session) Start() {
	s.clock.Start()
}

func (s *Session) Team() models.Team        { return s.team }
func (s *Session) Quiz() models.Quiz        { return s.quiz }
func (s *Session) Clock() *clock.RoundClock { return s.clock }

// Answer records the quiz taker's selection. A selection arriving after the
// clock ran out resolves the quiz as timed out and is itself rejected.
func (s *Session) Answer(team models.Team, index int) error {
	if team != s.team {
		return ErrNotQuizTaker
	}

	s.mu.Lock()
	if s.outcome != nil {
		s.mu.Unlock()
		return ErrLocked
	}
	if s.clock.Expired() {
		out := s.resolveLocked(models.QuizStatusTimedOut, -1)
		s.mu.Unlock()
		s.notify(out)
		return ErrLocked
	}
	if index < 0 || index >= len(s.quiz.Options) {
		s.mu.Unlock()
		return ErrInvalidOption
	}

	status := models.QuizStatusFailed
	if index == s.quiz.CorrectIndex() {
		status = models.QuizStatusSuccess
	}
	out := s.resolveLocked(status, index)
	s.mu.Unlock()

	s.notify(out)
	return nil
}

// Expire resolves the quiz as timed out if nothing was selected. It reports
// whether this call resolved it.
func (s *Session) Expire() bool {
	s.mu.Lock()
	if s.outcome != nil {
		s.mu.Unlock()
		return false
	}
	out := s.resolveLocked(models.QuizStatusTimedOut, -1)
	s.mu.Unlock()

	s.notify(out)
	return true
}

// Outcome returns the terminal outcome, if resolved.
func (s *Session) Outcome() (models.QuizOutcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.outcome == nil {
		return models.QuizOutcome{}, false
	}
	return *s.outcome, true
}

func (s *Session) resolveLocked(status models.QuizStatus, index int) models.QuizOutcome {
	out := models.QuizOutcome{
		Team:          s.team,
		Status:        status,
		SelectedIndex: index,
		Bonus:         s.cfg.Bonus,
		PointsAwarded: scoring.QuizPoints(s.cfg.Rewards, status, s.cfg.Bonus, s.cfg.Policy),
	}
	s.outcome = &out

	log.Info().
		Str("team", string(s.team)).
		Str("status", string(status)).
		Int("points", out.PointsAwarded).
		Bool("bonus", out.Bonus).
		Msg("quiz resolved")
	return out
}

func (s *Session) notify(out models.QuizOutcome) {
	if s.onResolved != nil {
		s.onResolved(out)
	}
}
