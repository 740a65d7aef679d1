package main

import (
	"fmt"

	gemini "github.com/mcdev12/wordrace/go/clients/gemini_client"
	"github.com/mcdev12/wordrace/go/internal/content"
	"github.com/mcdev12/wordrace/go/internal/game/events"
	"github.com/mcdev12/wordrace/go/internal/game/gateway"
	"github.com/mcdev12/wordrace/go/internal/game/orchestrator"
	"github.com/mcdev12/wordrace/go/internal/game/resolver"
	"github.com/mcdev12/wordrace/go/internal/judge"
	"github.com/mcdev12/wordrace/go/internal/teams"
	"github.com/mcdev12/wordrace/go/internal/tracing"
	"github.com/rs/zerolog/log"
)

type Services struct {
	Gateway      *gateway.Service
	Orchestrator *orchestrator.Orchestrator
	Teams        *teams.App

	nats *events.NATSPublisher
}

func setupServices(config *Config) (*Services, error) {
	// Wire up dependency injection chain
	// Clients → judge/content → resolver → orchestrator → gateway

	scorer, err := tracing.NewScorer()
	if err != nil {
		return nil, fmt.Errorf("failed to create tracing scorer: %w", err)
	}

	var geminiClient *gemini.GeminiClient
	if config.Gemini.APIKey != "" {
		geminiClient = gemini.NewGeminiClient(config.Gemini.APIKey, config.Gemini.BaseURL).
			WithModels(config.Gemini.TextModel, config.Gemini.ImageModel)
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set, handwriting judge and word generation disabled")
	}

	// Judge
	var handwriting judge.HandwritingJudge = judge.Disabled{}
	if geminiClient != nil {
		handwriting = judge.NewGeminiJudge(geminiClient)
	}
	roundResolver := resolver.New(handwriting, config.Game.JudgeTimeout)

	// Content
	pool, err := content.LoadPool(config.Content.PoolPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load word pool: %w", err)
	}
	var generator content.Generator
	if geminiClient != nil {
		generator = content.NewGeminiGenerator(geminiClient)
	}
	provider := content.NewProvider(pool, generator)
	log.Info().Int("words", len(pool)).Str("path", config.Content.PoolPath).Msg("word pool loaded")

	// Teams
	teamsApp := teams.NewApp(config.Teams)

	// Events
	defaultGame := config.defaultGame()
	gatewayConfig := gateway.DefaultConfig()
	gatewayConfig.DefaultGame = &defaultGame
	gw := gateway.NewService(gatewayConfig)

	publishers := events.Fanout{events.LogPublisher{}, gw}
	var natsPublisher *events.NATSPublisher
	if config.NATS.URL != "" {
		natsPublisher, err = events.NewNATSPublisher(config.natsConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		publishers = append(publishers, natsPublisher)
	}

	// Orchestrator
	orch := orchestrator.NewOrchestrator(orchestrator.Deps{
		Content:   provider,
		Resolver:  roundResolver,
		Scorer:    scorer,
		Roster:    teamsApp,
		Publisher: publishers,
	}, config.orchestratorConfig())
	gw.Attach(orch, teamsApp)

	return &Services{
		Gateway:      gw,
		Orchestrator: orch,
		Teams:        teamsApp,
		nats:         natsPublisher,
	}, nil
}

// Close stops the game and drains the NATS connection.
func (s *Services) Close() {
	s.Orchestrator.Close()
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close NATS publisher")
		}
	}
}
