// Package teams validates and balances the two-team roster confirmed during
// team setup.
package teams

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrNotEnoughPlayers = errors.New("not enough players")
	ErrTeamsUnbalanced  = errors.New("team sizes differ too much")
	ErrTeamTooLarge     = errors.New("team has too many players")
	ErrEmptyName        = errors.New("player name is required")
)

// App handles roster logic
type App struct {
	rules   Rules
	shuffle func(n int, swap func(i, j int))
}

// NewApp creates a new teams App
func NewApp(rules Rules) *App {
	return &App{
		rules:   rules,
		shuffle: rand.Shuffle,
	}
}

// Rules returns the active roster rules.
func (a *App) Rules() Rules {
	return a.rules
}

// Validate checks a roster against the rules.
func (a *App) Validate(r Roster) error {
	for _, p := range append(append([]Player{}, r.A...), r.B...) {
		if strings.TrimSpace(p.Name) == "" {
			return ErrEmptyName
		}
	}

	if r.Total() < a.rules.MinTotalPlayers {
		return fmt.Errorf("%w: at least %d players are required, got %d", ErrNotEnoughPlayers, a.rules.MinTotalPlayers, r.Total())
	}

	diff := len(r.A) - len(r.B)
	if diff < 0 {
		diff = -diff
	}
	if diff > a.rules.MaxTeamDifference {
		return fmt.Errorf("%w: difference must be %d or less, got %d", ErrTeamsUnbalanced, a.rules.MaxTeamDifference, diff)
	}

	if a.rules.MaxPlayersPerTeam > 0 && (len(r.A) > a.rules.MaxPlayersPerTeam || len(r.B) > a.rules.MaxPlayersPerTeam) {
		return fmt.Errorf("%w: at most %d per team", ErrTeamTooLarge, a.rules.MaxPlayersPerTeam)
	}

	return nil
}

// NewPlayers assigns IDs to a list of names.
func NewPlayers(names ...string) []Player {
	players := make([]Player, 0, len(names))
	for _, n := range names {
		players = append(players, Player{ID: uuid.New(), Name: strings.TrimSpace(n)})
	}
	return players
}

// Shuffle randomly permutes all players and deals them out alternately, A
// first, so team sizes never differ by more than one.
func (a *App) Shuffle(r Roster) Roster {
	all := append(append([]Player{}, r.A...), r.B...)
	a.shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })

	var out Roster
	for i, p := range all {
		if i%2 == 0 {
			out.A = append(out.A, p)
		} else {
			out.B = append(out.B, p)
		}
	}

	log.Debug().Int("team_a", len(out.A)).Int("team_b", len(out.B)).Msg("teams shuffled")
	return out
}
