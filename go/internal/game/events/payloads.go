// Package events defines the game's event envelope, its payloads and the
// publishers that carry them to displays and external subscribers.
package events

import (
	"time"

	"github.com/mcdev12/wordrace/go/internal/models"
)

// PhaseChangedPayload is sent on every state machine transition
type PhaseChangedPayload struct {
	From  models.GamePhase `json:"from"`
	To    models.GamePhase `json:"to"`
	Round int              `json:"round"`
}

// RoundStartedPayload announces the content of a round once it has loaded.
type RoundStartedPayload struct {
	Round       int             `json:"round"`
	TotalRounds int             `json:"total_rounds"`
	Mode        models.GameMode `json:"mode"`
	Word        string          `json:"word"`
	WordImage   string          `json:"word_image,omitempty"`
	FontSize    float64         `json:"font_size"`
	Bonus       bool            `json:"bonus"`
}

// ClockStartedPayload carries the shared start timestamp both team surfaces
// count down from.
type ClockStartedPayload struct {
	Round       int              `json:"round"`
	Phase       models.GamePhase `json:"phase"`
	StartedAt   time.Time        `json:"started_at"`
	DeadlineAt  time.Time        `json:"deadline_at"`
	DurationSec int              `json:"duration_sec"`
}

// TimerTickPayload is the per-poll remaining time of one surface. Team is
// empty for the quiz clock.
type TimerTickPayload struct {
	Round            int              `json:"round"`
	Phase            models.GamePhase `json:"phase"`
	Team             models.Team      `json:"team,omitempty"`
	TimeRemainingSec int              `json:"time_remaining_sec"`
}

type AttemptSubmittedPayload struct {
	Round      int         `json:"round"`
	Team       models.Team `json:"team"`
	HasDrawn   bool        `json:"has_drawn"`
	Expired    bool        `json:"expired"`
	FinishedAt time.Time   `json:"finished_at"`
}

type RoundResolvedPayload struct {
	Result models.RoundResult `json:"result"`
	// DirectPoints is set when quizzes are disabled and the round scored directly.
	DirectPoints *models.Scores `json:"direct_points,omitempty"`
}

type QuizStartedPayload struct {
	Round    int         `json:"round"`
	Team     models.Team `json:"team"`
	Question string      `json:"question"`
	Options  []string    `json:"options"`
	Bonus    bool        `json:"bonus"`
}

type QuizResolvedPayload struct {
	Round   int                `json:"round"`
	Outcome models.QuizOutcome `json:"outcome"`
}

// ScoresUpdatedPayload is what the scoreboard renders.
type ScoresUpdatedPayload struct {
	Scores       models.Scores `json:"scores"`
	CurrentRound int           `json:"current_round"`
	TotalRounds  int           `json:"total_rounds"`
}

type GameEndedPayload struct {
	Reason string        `json:"reason"`
	Scores models.Scores `json:"scores"`
	Winner models.Team   `json:"winner,omitempty"`
}

// Game end reasons
const (
	ReasonCompleted          = "completed"
	ReasonContentUnavailable = "content_unavailable"
	ReasonAborted            = "aborted"
)
