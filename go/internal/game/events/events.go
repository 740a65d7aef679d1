package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event is the envelope for everything the game announces to displays.
type Event struct {
	ID        string          `json:"id"`
	GameID    string          `json:"game_id"`
	Type      Type            `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// Type names an event
type Type string

const (
	TypePhaseChanged     Type = "PhaseChanged"
	TypeRoundStarted     Type = "RoundStarted"
	TypeClockStarted     Type = "ClockStarted"
	TypeTimerTick        Type = "TimerTick"
	TypeAttemptSubmitted Type = "AttemptSubmitted"
	TypeRoundResolved    Type = "RoundResolved"
	TypeQuizStarted      Type = "QuizStarted"
	TypeQuizResolved     Type = "QuizResolved"
	TypeScoresUpdated    Type = "ScoresUpdated"
	TypeGameEnded        Type = "GameEnded"
)

// New wraps payload in an envelope stamped with now.
func New(gameID uuid.UUID, typ Type, payload any, now time.Time) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", typ, err)
	}
	return Event{
		ID:        uuid.NewString(),
		GameID:    gameID.String(),
		Type:      typ,
		Timestamp: now.UTC(),
		Data:      data,
	}, nil
}

// ParsePayload decodes the event data into its payload struct.
func ParsePayload(e Event) (any, error) {
	var target any
	switch e.Type {
	case TypePhaseChanged:
		target = &PhaseChangedPayload{}
	case TypeRoundStarted:
		target = &RoundStartedPayload{}
	case TypeClockStarted:
		target = &ClockStartedPayload{}
	case TypeTimerTick:
		target = &TimerTickPayload{}
	case TypeAttemptSubmitted:
		target = &AttemptSubmittedPayload{}
	case TypeRoundResolved:
		target = &RoundResolvedPayload{}
	case TypeQuizStarted:
		target = &QuizStartedPayload{}
	case TypeQuizResolved:
		target = &QuizResolvedPayload{}
	case TypeScoresUpdated:
		target = &ScoresUpdatedPayload{}
	case TypeGameEnded:
		target = &GameEndedPayload{}
	default:
		return nil, fmt.Errorf("unknown event type %q", e.Type)
	}

	if err := json.Unmarshal(e.Data, target); err != nil {
		return nil, fmt.Errorf("unmarshal %s payload: %w", e.Type, err)
	}
	return target, nil
}
