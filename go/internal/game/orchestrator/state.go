package orchestrator

import (
	"time"

	"github.com/mcdev12/wordrace/go/internal/models"
	"github.com/mcdev12/wordrace/go/internal/teams"
)

// State is a read-only view of the game for displays and reconnecting
// clients.
type State struct {
	GameID       string               `json:"game_id,omitempty"`
	Phase        models.GamePhase     `json:"phase"`
	Round        int                  `json:"round"`
	TotalRounds  int                  `json:"total_rounds"`
	Mode         models.GameMode      `json:"mode,omitempty"`
	QuizEnabled  bool                 `json:"quiz_enabled"`
	Scores       models.Scores        `json:"scores"`
	Players      teams.Roster         `json:"players"`
	Loading      bool                 `json:"loading"`
	Bonus        bool                 `json:"bonus"`
	Word         string               `json:"word,omitempty"`
	WordImage    string               `json:"word_image,omitempty"`
	ClockStarted *time.Time           `json:"clock_started,omitempty"`
	RemainingSec *int                 `json:"remaining_sec,omitempty"`
	Submitted    map[models.Team]bool `json:"submitted,omitempty"`
	Result       *models.RoundResult  `json:"result,omitempty"`
	QuizTeam     models.Team          `json:"quiz_team,omitempty"`
	QuizQuestion string               `json:"quiz_question,omitempty"`
	QuizOptions  []string             `json:"quiz_options,omitempty"`
	QuizOutcome  *models.QuizOutcome  `json:"quiz_outcome,omitempty"`
	EndReason    string               `json:"end_reason,omitempty"`
}

// Snapshot returns the current state.
func (o *Orchestrator) Snapshot() State {
	o.mu.Lock()
	defer o.mu.Unlock()

	s := State{
		Phase:       o.phase,
		Round:       o.round,
		TotalRounds: o.game.TotalRounds,
		Mode:        o.game.Mode,
		QuizEnabled: o.game.QuizEnabled,
		Scores:      o.scores,
		Players:     o.players,
		Loading:     o.loading,
		Bonus:       o.bonus,
		EndReason:   o.endReason,
	}
	if o.phase != models.GamePhaseSetup {
		s.GameID = o.gameID.String()
	}
	if o.roundContent != nil {
		s.Word = o.roundContent.Word
		s.WordImage = o.roundContent.WordImage
	}

	switch {
	case o.phase == models.GamePhaseActiveRound && o.roundClock != nil:
		s.ClockStarted, s.RemainingSec = clockView(o.roundClock.StartedAt, o.roundClock.Remaining)
	case o.phase == models.GamePhaseQuiz && o.quiz != nil:
		s.ClockStarted, s.RemainingSec = clockView(o.quiz.Clock().StartedAt, o.quiz.Clock().Remaining)
		s.QuizTeam = o.quiz.Team()
		q := o.quiz.Quiz()
		s.QuizQuestion = q.Question
		s.QuizOptions = append([]string(nil), q.Options...)
	}

	if o.attempts != nil {
		s.Submitted = make(map[models.Team]bool, len(models.Teams))
		for _, t := range models.Teams {
			s.Submitted[t] = o.attempts.Collector(t).Done()
		}
	}
	if o.result != nil {
		r := *o.result
		s.Result = &r
	}
	if o.quizOutcome != nil {
		q := *o.quizOutcome
		s.QuizOutcome = &q
	}
	return s
}

func clockView(startedAt func() (time.Time, bool), remaining func() int) (*time.Time, *int) {
	start, ok := startedAt()
	if !ok {
		return nil, nil
	}
	r := remaining()
	return &start, &r
}
