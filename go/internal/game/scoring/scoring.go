// Package scoring holds every point calculation in the game. Each outcome is
// scored exactly once by one of these functions and the result is applied by
// the orchestrator.
package scoring

import (
	"math/rand/v2"

	"github.com/mcdev12/wordrace/go/internal/models"
)

const (
	DefaultCorrectPoints    = 2
	DefaultIncorrectPoints  = 1
	DefaultDirectPoints     = 1
	DefaultBonusProbability = 0.25
	DefaultBonusMultiplier  = 2
)

// RewardTable is the fixed quiz reward. Incorrect and timed out answers share
// the lower value.
type RewardTable struct {
	Correct   int `yaml:"correct" json:"correct"`
	Incorrect int `yaml:"incorrect" json:"incorrect"`
}

func DefaultRewardTable() RewardTable {
	return RewardTable{Correct: DefaultCorrectPoints, Incorrect: DefaultIncorrectPoints}
}

// BonusPolicy decides whether a round is a bonus round.
type BonusPolicy struct {
	Probability float64
	Multiplier  int
	// Float returns a value in [0, 1). Defaults to math/rand/v2.
	Float func() float64
}

func DefaultBonusPolicy() BonusPolicy {
	return BonusPolicy{Probability: DefaultBonusProbability, Multiplier: DefaultBonusMultiplier}
}

// Roll draws once for a round.
func (p BonusPolicy) Roll() bool {
	if p.Probability <= 0 {
		return false
	}
	f := p.Float
	if f == nil {
		f = rand.Float64
	}
	return f() < p.Probability
}

func (p BonusPolicy) multiplier() int {
	if p.Multiplier < 1 {
		return 1
	}
	return p.Multiplier
}

// QuizPoints is the point delta for the quiz taker.
func QuizPoints(table RewardTable, status models.QuizStatus, bonus bool, policy BonusPolicy) int {
	points := table.Incorrect
	if status == models.QuizStatusSuccess {
		points = table.Correct
	}
	if bonus {
		points *= policy.multiplier()
	}
	if points < 0 {
		return 0
	}
	return points
}

// DirectPoints scores a round when quizzes are disabled. Only the team that
// strictly out-performs the other scores: higher accuracy in TRACE mode, a lone
// success in DRAW mode. Equal performance scores nothing.
func DirectPoints(mode models.GameMode, result models.RoundResult, points int) models.Scores {
	a, b := result.Outcome(models.TeamA), result.Outcome(models.TeamB)

	var winner models.Team
	switch mode {
	case models.GameModeDraw:
		if a.Success != b.Success {
			winner = models.TeamB
			if a.Success {
				winner = models.TeamA
			}
		}
	default:
		if a.FinalAccuracy != b.FinalAccuracy {
			winner = models.TeamB
			if a.FinalAccuracy > b.FinalAccuracy {
				winner = models.TeamA
			}
		}
	}

	return models.Scores{}.Add(winner, points)
}
