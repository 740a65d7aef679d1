// Package content supplies the word, quiz and picture for each round.
package content

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/mcdev12/wordrace/go/internal/models"
	"github.com/rs/zerolog/log"
)

// ErrContentUnavailable is returned when neither the local pool nor the
// generator can produce a round.
var ErrContentUnavailable = errors.New("round content unavailable")

// Generator produces round content on demand, avoiding the excluded words.
type Generator interface {
	Generate(ctx context.Context, exclude []string) (models.RoundContent, error)
}

// Provider hands out rounds from a local pool without repeating a word within
// a session, then falls back to the generator once the pool is exhausted.
type Provider struct {
	pool      []models.RoundContent
	generator Generator
	intN      func(n int) int

	mu   sync.Mutex
	used map[string]bool
	// order keeps used words in the order they were handed out
	order []string
}

// NewProvider creates a provider. generator may be nil.
func NewProvider(pool []models.RoundContent, generator Generator) *Provider {
	return &Provider{
		pool:      pool,
		generator: generator,
		intN:      rand.IntN,
		used:      make(map[string]bool),
	}
}

// ResetSession forgets every word handed out so far.
func (p *Provider) ResetSession() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.used = make(map[string]bool)
	p.order = nil
	log.Debug().Msg("content session reset")
}

// Used returns the words handed out this session.
func (p *Provider) Used() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.order...)
}

// Next returns content for the next round.
func (p *Provider) Next(ctx context.Context) (models.RoundContent, error) {
	if rc, ok := p.nextLocal(); ok {
		log.Info().Str("word", rc.Word).Msg("using local round content")
		return rc, nil
	}

	if p.generator == nil {
		return models.RoundContent{}, fmt.Errorf("%w: local pool exhausted", ErrContentUnavailable)
	}

	log.Info().Msg("local round pool exhausted, generating content")
	rc, err := p.generator.Generate(ctx, p.Used())
	if err != nil {
		return models.RoundContent{}, fmt.Errorf("%w: %w", ErrContentUnavailable, err)
	}

	rc.Word = normalize(rc.Word)
	if err := validateRound(rc); err != nil {
		return models.RoundContent{}, fmt.Errorf("%w: generated round invalid: %w", ErrContentUnavailable, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.used[rc.Word] {
		return models.RoundContent{}, fmt.Errorf("%w: generator repeated %q", ErrContentUnavailable, rc.Word)
	}
	p.markUsedLocked(rc.Word)
	return rc, nil
}

func (p *Provider) nextLocal() (models.RoundContent, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var unused []int
	for i, rc := range p.pool {
		if !p.used[rc.Word] {
			unused = append(unused, i)
		}
	}
	if len(unused) == 0 {
		return models.RoundContent{}, false
	}

	rc := p.pool[unused[p.intN(len(unused))]]
	p.markUsedLocked(rc.Word)
	return rc, true
}

func (p *Provider) markUsedLocked(word string) {
	p.used[word] = true
	p.order = append(p.order, word)
}
