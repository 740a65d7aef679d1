package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/mcdev12/wordrace/go/internal/game/orchestrator"
	"github.com/rs/zerolog/log"
)

// StateProvider returns the current game state.
type StateProvider interface {
	Snapshot() orchestrator.State
}

// StateHandler serves the game state so that a surface that connects or
// reconnects mid-round can render before the next event arrives.
type StateHandler struct {
	stateProvider StateProvider
}

func NewStateHandler(provider StateProvider) *StateHandler {
	return &StateHandler{stateProvider: provider}
}

// HandleGetState handles GET /api/state
func (h *StateHandler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.stateProvider.Snapshot()); err != nil {
		log.Error().Err(err).Msg("failed to encode game state response")
	}
}

func (h *StateHandler) RegisterStateRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/state", h.HandleGetState)
}
