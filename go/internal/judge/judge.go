// Package judge decides whether a handwritten word spells its target.
package judge

import (
	"context"
	"errors"
	"image"

	"github.com/rs/zerolog/log"
)

// ErrNoInk is returned when there is nothing to judge.
var ErrNoInk = errors.New("no ink to judge")

// HandwritingJudge reports whether ink spells word. Any error is treated as
// an incorrect verdict by callers.
type HandwritingJudge interface {
	Judge(ctx context.Context, word string, ink image.Image) (bool, error)
}

// Disabled is used when no recognition backend is configured. Every verdict
// is incorrect.
type Disabled struct{}

func (Disabled) Judge(_ context.Context, word string, _ image.Image) (bool, error) {
	log.Warn().Str("word", word).Msg("handwriting judge not configured, marking incorrect")
	return false, nil
}
