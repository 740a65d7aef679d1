package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mcdev12/wordrace/go/internal/game/events"
	"github.com/mcdev12/wordrace/go/internal/game/orchestrator"
	"github.com/mcdev12/wordrace/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startGateway(t *testing.T, game Game) (*Service, *httptest.Server) {
	t.Helper()
	svc := NewService(DefaultConfig())
	svc.Attach(game, nil)

	mux := http.NewServeMux()
	svc.RegisterRoutes(mux)
	srv := httptest.NewServer(mux)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = svc.Start(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		srv.Close()
	})
	return svc, srv
}

func dial(t *testing.T, srv *httptest.Server, surface string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?surface=" + surface
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestService_BroadcastsEvents(t *testing.T) {
	svc, srv := startGateway(t, new(mockGame))
	display := dial(t, srv, SurfaceDisplay)
	teamA := dial(t, srv, SurfaceTeamA)

	require.Eventually(t, func() bool {
		return svc.Stats().TotalConnections == 2
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, svc.Stats().Surfaces[SurfaceTeamA])

	e, err := events.New(uuid.New(), events.TypeScoresUpdated, events.ScoresUpdatedPayload{
		Scores:       models.Scores{A: 2},
		CurrentRound: 1,
		TotalRounds:  3,
	}, time.Now())
	require.NoError(t, err)
	require.NoError(t, svc.Publish(context.Background(), e))

	for _, conn := range []*websocket.Conn{display, teamA} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)

		var got events.Event
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, e.ID, got.ID)
		assert.Equal(t, events.TypeScoresUpdated, got.Type)
	}
}

func TestService_CommandReply(t *testing.T) {
	game := new(mockGame)
	game.On("Advance").Return(orchestrator.ErrInvalidPhase).Once()
	_, srv := startGateway(t, game)
	conn := dial(t, srv, SurfaceDisplay)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"advance","request_id":"x"}`)))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var r Reply
	require.NoError(t, json.Unmarshal(data, &r))
	assert.Equal(t, "x", r.RequestID)
	assert.False(t, r.Accepted)
	assert.Equal(t, orchestrator.ErrInvalidPhase.Error(), r.Error)
	game.AssertExpectations(t)
}

func TestService_State(t *testing.T) {
	game := new(mockGame)
	game.On("Snapshot").Return(orchestrator.State{
		Phase:  models.GamePhaseQuiz,
		Round:  2,
		Scores: models.Scores{A: 1, B: 3},
	})
	_, srv := startGateway(t, game)

	resp, err := http.Get(srv.URL + "/api/state")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var s orchestrator.State
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&s))
	assert.Equal(t, models.GamePhaseQuiz, s.Phase)
	assert.Equal(t, 2, s.Round)
	assert.Equal(t, models.Scores{A: 1, B: 3}, s.Scores)

	post, err := http.Post(srv.URL+"/api/state", "application/json", nil)
	require.NoError(t, err)
	post.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, post.StatusCode)
}
