package events

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
)

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// LogPublisher writes every event to the structured log.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, e Event) error {
	ev := log.Debug()
	if e.Type != TypeTimerTick {
		ev = log.Info()
	}
	ev.Str("event_id", e.ID).
		Str("game_id", e.GameID).
		Str("event_type", string(e.Type)).
		RawJSON("data", e.Data).
		Msg("game event")
	return nil
}

// Fanout publishes to every publisher and joins their errors.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
