package teams

import (
	"github.com/google/uuid"
	"github.com/mcdev12/wordrace/go/internal/models"
)

// Player is one child on a team.
type Player struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Roster is the confirmed team split for a game.
type Roster struct {
	A []Player `json:"A"`
	B []Player `json:"B"`
}

// Members returns the players of a team.
func (r Roster) Members(t models.Team) []Player {
	switch t {
	case models.TeamA:
		return r.A
	case models.TeamB:
		return r.B
	default:
		return nil
	}
}

// Total returns the number of players on both teams.
func (r Roster) Total() int {
	return len(r.A) + len(r.B)
}

// Rules constrain a roster before the first round.
type Rules struct {
	MinTotalPlayers   int `yaml:"min_total_players" env:"TEAMS_MIN_TOTAL_PLAYERS"`
	MaxTeamDifference int `yaml:"max_team_difference" env:"TEAMS_MAX_TEAM_DIFFERENCE"`
	MaxPlayersPerTeam int `yaml:"max_players_per_team" env:"TEAMS_MAX_PLAYERS_PER_TEAM"`
}

// DefaultRules returns the classroom defaults.
func DefaultRules() Rules {
	return Rules{
		MinTotalPlayers:   2,
		MaxTeamDifference: 1,
		MaxPlayersPerTeam: 8,
	}
}
