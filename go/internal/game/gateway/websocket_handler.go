package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// Known surfaces. Anything else connects as a spectator.
const (
	SurfaceDisplay    = "display"
	SurfaceTeamA      = "team_a"
	SurfaceTeamB      = "team_b"
	SurfaceScoreboard = "scoreboard"
	SurfaceSpectator  = "spectator"
)

// WebSocketHandler handles WebSocket upgrade requests
type WebSocketHandler struct {
	connectionManager *ConnectionManager
}

func NewWebSocketHandler(cm *ConnectionManager) *WebSocketHandler {
	return &WebSocketHandler{connectionManager: cm}
}

// HandleConnection handles GET /ws?surface=team_a
func (h *WebSocketHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	surface := r.URL.Query().Get("surface")
	switch surface {
	case SurfaceDisplay, SurfaceTeamA, SurfaceTeamB, SurfaceScoreboard:
	default:
		surface = SurfaceSpectator
	}

	// Upgrade writes its own error response on failure.
	if err := h.connectionManager.UpgradeConnection(w, r, surface); err != nil {
		log.Error().
			Err(err).
			Str("surface", surface).
			Msg("failed to upgrade WebSocket connection")
	}
}

// HandleConnectionStats handles GET /ws/stats
func (h *WebSocketHandler) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.connectionManager.Stats()); err != nil {
		log.Error().Err(err).Msg("failed to encode connection stats")
	}
}

func (h *WebSocketHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", h.HandleConnection)
	mux.HandleFunc("/ws/stats", h.HandleConnectionStats)
}
