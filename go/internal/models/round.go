package models

import (
	"image"
	"strconv"
	"strings"
	"time"
)

// Quiz is a four-option multiple choice question attached to a round.
type Quiz struct {
	Question      string   `json:"question" yaml:"question"`
	Options       []string `json:"options" yaml:"options"`
	CorrectAnswer string   `json:"correct_answer" yaml:"correct_answer"`
}

// CorrectIndex returns the index of the correct option, or -1 when the answer
// matches no option. The answer is matched by option text first and then as
// a zero-based index.
func (q Quiz) CorrectIndex() int {
	want := strings.TrimSpace(q.CorrectAnswer)
	for i, opt := range q.Options {
		if strings.EqualFold(strings.TrimSpace(opt), want) {
			return i
		}
	}
	if i, err := strconv.Atoi(want); err == nil && i >= 0 && i < len(q.Options) {
		return i
	}
	return -1
}

// RoundContent is everything the provider supplies for one round.
type RoundContent struct {
	Word string `json:"word" yaml:"word"`
	Quiz Quiz   `json:"quiz" yaml:"quiz"`
	// WordImage is an opaque image reference, usually a data URL.
	WordImage string `json:"word_image,omitempty" yaml:"word_image,omitempty"`
}

// RawAttempt is the single recorded submission of a team for a round.
type RawAttempt struct {
	Team        Team        `json:"team"`
	HasDrawn    bool        `json:"has_drawn"`
	RawAccuracy int         `json:"raw_accuracy"`
	Ink         image.Image `json:"-"`
	FinishedAt  time.Time   `json:"finished_at"`
}

// TeamOutcome is the resolved state of one team after judging.
type TeamOutcome struct {
	Team          Team      `json:"team"`
	FinalAccuracy int       `json:"final_accuracy"`
	Success       bool      `json:"success"`
	HasDrawn      bool      `json:"has_drawn"`
	FinishedAt    time.Time `json:"finished_at"`
}

// RoundResult is the immutable verdict of one round.
type RoundResult struct {
	Round    int            `json:"round"`
	Winner   Team           `json:"winner,omitempty"`
	Outcomes [2]TeamOutcome `json:"outcomes"`
}

// HasWinner reports whether the round produced a winner.
func (r RoundResult) HasWinner() bool {
	return r.Winner.Valid()
}

// Outcome returns the outcome for a team.
func (r RoundResult) Outcome(t Team) TeamOutcome {
	return r.Outcomes[t.Index()]
}

// QuizStatus is the terminal state of a quiz.
type QuizStatus string

const (
	QuizStatusSuccess  QuizStatus = "success"
	QuizStatusFailed   QuizStatus = "failed"
	QuizStatusTimedOut QuizStatus = "timed_out"
)

// QuizOutcome is produced at most once per round with a winner.
type QuizOutcome struct {
	Team          Team       `json:"team"`
	Status        QuizStatus `json:"status"`
	SelectedIndex int        `json:"selected_index"`
	Bonus         bool       `json:"bonus"`
	PointsAwarded int        `json:"points_awarded"`
}

// IsCorrect reports whether the quiz was answered correctly.
func (o QuizOutcome) IsCorrect() bool {
	return o.Status == QuizStatusSuccess
}
