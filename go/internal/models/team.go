package models

import "fmt"

// Team identifies one of the two competing sides.
type Team string

const (
	TeamA Team = "A"
	TeamB Team = "B"

	// TeamNone marks the absence of a winner.
	TeamNone Team = ""
)

// Teams lists both teams in fixed tie-break order.
var Teams = [2]Team{TeamA, TeamB}

// Valid reports whether t is one of the two playing teams.
func (t Team) Valid() bool {
	return t == TeamA || t == TeamB
}

// Index returns the slot of the team in per-team arrays.
func (t Team) Index() int {
	if t == TeamB {
		return 1
	}
	return 0
}

func (t Team) String() string {
	if t == TeamNone {
		return "none"
	}
	return fmt.Sprintf("Team %s", string(t))
}

// Scores holds the cumulative points of both teams.
type Scores struct {
	A int `json:"A"`
	B int `json:"B"`
}

// Get returns the score of a team.
func (s Scores) Get(t Team) int {
	if t == TeamB {
		return s.B
	}
	if t == TeamA {
		return s.A
	}
	return 0
}

// Add returns a copy of s with points added to t. Non-positive deltas are
// ignored so scores never decrease over a game.
func (s Scores) Add(t Team, points int) Scores {
	if points <= 0 {
		return s
	}
	switch t {
	case TeamA:
		s.A += points
	case TeamB:
		s.B += points
	}
	return s
}

// Leader returns the team with the strictly higher score, or TeamNone on a tie.
func (s Scores) Leader() Team {
	switch {
	case s.A > s.B:
		return TeamA
	case s.B > s.A:
		return TeamB
	default:
		return TeamNone
	}
}
