package quiz

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/wordrace/go/internal/game/clock"
	"github.com/mcdev12/wordrace/go/internal/game/scoring"
	"github.com/mcdev12/wordrace/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var catQuiz = models.Quiz{
	Question:      `Which animal says "meow"?`,
	Options:       []string{"Dog", "Cat", "Bird", "Cow"},
	CorrectAnswer: "Cat",
}

func newSession(t *testing.T, bonus bool) (*Session, *clockwork.FakeClock, *[]models.QuizOutcome) {
	t.Helper()
	fc := clockwork.NewFakeClock()
	var got []models.QuizOutcome
	cfg := Config{Rewards: scoring.DefaultRewardTable(), Bonus: bonus, Policy: scoring.DefaultBonusPolicy()}
	s := NewSession(models.TeamA, catQuiz, clock.New(fc, clock.DefaultQuizDuration), cfg, func(o models.QuizOutcome) {
		got = append(got, o)
	})
	s.Start()
	return s, fc, &got
}

func TestSession_CorrectWithBonus(t *testing.T) {
	s, _, got := newSession(t, true)

	require.NoError(t, s.Answer(models.TeamA, 1))

	require.Len(t, *got, 1)
	out := (*got)[0]
	assert.Equal(t, models.QuizStatusSuccess, out.Status)
	assert.Equal(t, 4, out.PointsAwarded)
	assert.True(t, out.IsCorrect())
}

func TestSession_WrongAnswer(t *testing.T) {
	s, _, got := newSession(t, false)

	require.NoError(t, s.Answer(models.TeamA, 3))

	out, ok := s.Outcome()
	require.True(t, ok)
	assert.Equal(t, models.QuizStatusFailed, out.Status)
	assert.Equal(t, 1, out.PointsAwarded)
	assert.Len(t, *got, 1)
}

func TestSession_LockedAfterFirstAnswer(t *testing.T) {
	s, _, got := newSession(t, false)

	require.NoError(t, s.Answer(models.TeamA, 0))
	assert.ErrorIs(t, s.Answer(models.TeamA, 1), ErrLocked)
	assert.False(t, s.Expire())

	out, _ := s.Outcome()
	assert.Equal(t, models.QuizStatusFailed, out.Status)
	assert.Len(t, *got, 1)
}

func TestSession_Expire(t *testing.T) {
	s, _, got := newSession(t, false)

	assert.True(t, s.Expire())
	assert.ErrorIs(t, s.Answer(models.TeamA, 1), ErrLocked)

	require.Len(t, *got, 1)
	assert.Equal(t, models.QuizStatusTimedOut, (*got)[0].Status)
	assert.Equal(t, 1, (*got)[0].PointsAwarded)
}

func TestSession_LateClickResolvesAsTimeout(t *testing.T) {
	s, fc, got := newSession(t, false)

	fc.Advance(clock.DefaultQuizDuration + time.Millisecond)
	assert.ErrorIs(t, s.Answer(models.TeamA, 1), ErrLocked)

	require.Len(t, *got, 1)
	assert.Equal(t, models.QuizStatusTimedOut, (*got)[0].Status)
}

func TestSession_RejectsOtherTeamAndBadIndex(t *testing.T) {
	s, _, got := newSession(t, false)

	assert.ErrorIs(t, s.Answer(models.TeamB, 1), ErrNotQuizTaker)
	assert.ErrorIs(t, s.Answer(models.TeamA, 4), ErrInvalidOption)
	assert.ErrorIs(t, s.Answer(models.TeamA, -1), ErrInvalidOption)
	assert.Empty(t, *got)

	_, ok := s.Outcome()
	assert.False(t, ok)
}
