package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuiz_CorrectIndex(t *testing.T) {
	tests := []struct {
		name string
		quiz Quiz
		want int
	}{
		{
			name: "matches option text",
			quiz: Quiz{Options: []string{"Dog", "Cat", "Bird", "Cow"}, CorrectAnswer: "Cat"},
			want: 1,
		},
		{
			name: "case insensitive",
			quiz: Quiz{Options: []string{"Apple", "Carrot", "Fish", "Stone"}, CorrectAnswer: "apple"},
			want: 0,
		},
		{
			name: "index form",
			quiz: Quiz{Options: []string{"Moon", "Cloud", "Sun", "Star"}, CorrectAnswer: "2"},
			want: 2,
		},
		{
			name: "no match",
			quiz: Quiz{Options: []string{"Boat", "Plane"}, CorrectAnswer: "Car"},
			want: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.quiz.CorrectIndex())
		})
	}
}

func TestScores_AddNeverDecreases(t *testing.T) {
	s := Scores{}
	s = s.Add(TeamA, 4)
	s = s.Add(TeamB, -3)
	s = s.Add(TeamB, 0)
	s = s.Add(TeamNone, 10)

	assert.Equal(t, 4, s.Get(TeamA))
	assert.Equal(t, 0, s.Get(TeamB))
	assert.Equal(t, TeamA, s.Leader())
}

func TestGameConfig_Validate(t *testing.T) {
	require.NoError(t, GameConfig{TotalRounds: 1, Mode: GameModeTrace}.Validate())
	assert.ErrorIs(t, GameConfig{TotalRounds: 0, Mode: GameModeDraw}.Validate(), ErrInvalidConfig)
	assert.ErrorIs(t, GameConfig{TotalRounds: 3, Mode: "PAINT"}.Validate(), ErrInvalidConfig)
}
