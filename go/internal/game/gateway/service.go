// Package gateway connects the game's surfaces over WebSocket. Game events
// are broadcast to every connection; commands from a connection are
// dispatched to the orchestrator and answered on that connection.
package gateway

import (
	"context"
	"net/http"

	"github.com/mcdev12/wordrace/go/internal/game/events"
	"github.com/mcdev12/wordrace/go/internal/models"
	"github.com/rs/zerolog/log"
)

type Config struct {
	ConnectionConfig ConnectionConfig
	// DefaultGame is used when a start_game command carries no config.
	DefaultGame *models.GameConfig
}

func DefaultConfig() Config {
	return Config{ConnectionConfig: DefaultConnectionConfig()}
}

// Service owns the connection manager and the HTTP handlers around it. It is
// also an events.Publisher.
type Service struct {
	connectionManager *ConnectionManager
	wsHandler         *WebSocketHandler
	stateHandler      *StateHandler
	dispatcher        *Dispatcher
	defaultGame       *models.GameConfig
}

var _ events.Publisher = (*Service)(nil)

// NewService creates the gateway. The game is attached later with Attach,
// because the orchestrator needs the gateway as its publisher first.
func NewService(config Config) *Service {
	s := &Service{defaultGame: config.DefaultGame}
	cm := NewConnectionManager(config.ConnectionConfig, s)
	s.connectionManager = cm
	s.wsHandler = NewWebSocketHandler(cm)
	return s
}

// Attach wires the game that commands and state requests are served from.
func (s *Service) Attach(game Game, shuffler Shuffler) {
	s.stateHandler = NewStateHandler(game)
	s.dispatcher = NewDispatcher(game, shuffler)
	if s.defaultGame != nil {
		s.dispatcher.WithDefaults(*s.defaultGame)
	}
}

// Start processes broadcasts until ctx is cancelled.
func (s *Service) Start(ctx context.Context) error {
	log.Info().Msg("starting game gateway")
	s.connectionManager.Start(ctx)
	log.Info().Msg("game gateway stopped")
	return nil
}

// Publish implements events.Publisher.
func (s *Service) Publish(ctx context.Context, e events.Event) error {
	return s.connectionManager.Publish(ctx, e)
}

// HandleMessage implements MessageHandler by delegating to the attached
// dispatcher.
func (s *Service) HandleMessage(ctx context.Context, message []byte) []byte {
	if s.dispatcher == nil {
		return (&Dispatcher{}).reply(Reply{Error: "game not attached"})
	}
	return s.dispatcher.HandleMessage(ctx, message)
}

func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	s.wsHandler.RegisterRoutes(mux)
	if s.stateHandler != nil {
		s.stateHandler.RegisterStateRoutes(mux)
	}
	log.Info().Msg("game gateway routes registered")
}

func (s *Service) Stats() ConnectionStats {
	return s.connectionManager.Stats()
}
