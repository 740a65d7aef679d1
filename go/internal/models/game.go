package models

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned when a game configuration fails validation.
var ErrInvalidConfig = errors.New("invalid game config")

// GameMode defines how a round is played and scored.
type GameMode string

const (
	// GameModeTrace overlays ink on a template glyph, scored by pixel overlap.
	GameModeTrace GameMode = "TRACE"
	// GameModeDraw writes the word from memory, scored by the handwriting judge.
	GameModeDraw GameMode = "DRAW"
)

// Valid reports whether m is a known game mode.
func (m GameMode) Valid() bool {
	return m == GameModeTrace || m == GameModeDraw
}

// GamePhase defines the phase of the game state machine.
type GamePhase string

const (
	GamePhaseSetup       GamePhase = "SETUP"
	GamePhaseTeamSetup   GamePhase = "TEAM_SETUP"
	GamePhaseRoundStart  GamePhase = "ROUND_START"
	GamePhaseActiveRound GamePhase = "ACTIVE_ROUND"
	GamePhaseQuiz        GamePhase = "QUIZ"
	GamePhaseRoundEnd    GamePhase = "ROUND_END"
	GamePhaseGameEnd     GamePhase = "GAME_END"
)

// GameConfig holds the settings chosen at game start.
type GameConfig struct {
	TotalRounds int      `json:"total_rounds" yaml:"total_rounds"`
	Mode        GameMode `json:"mode" yaml:"mode"`
	QuizEnabled bool     `json:"quiz_enabled" yaml:"quiz_enabled"`
}

// Validate checks the configuration bounds.
func (c GameConfig) Validate() error {
	if c.TotalRounds < 1 {
		return fmt.Errorf("%w: total rounds must be at least 1, got %d", ErrInvalidConfig, c.TotalRounds)
	}
	if !c.Mode.Valid() {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, c.Mode)
	}
	return nil
}
