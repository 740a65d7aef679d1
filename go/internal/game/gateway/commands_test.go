package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/mcdev12/wordrace/go/internal/game/orchestrator"
	"github.com/mcdev12/wordrace/go/internal/models"
	"github.com/mcdev12/wordrace/go/internal/teams"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockGame struct {
	mock.Mock
}

func (m *mockGame) StartGame(cfg models.GameConfig) error {
	return m.Called(cfg).Error(0)
}

func (m *mockGame) ConfirmTeams(roster teams.Roster) error {
	return m.Called(roster).Error(0)
}

func (m *mockGame) Ready() error {
	return m.Called().Error(0)
}

func (m *mockGame) UpdateCanvas(team models.Team, hasDrawn bool, ink image.Image) error {
	return m.Called(team, hasDrawn, ink).Error(0)
}

func (m *mockGame) SubmitAttempt(team models.Team, hasDrawn bool, ink image.Image) (bool, error) {
	args := m.Called(team, hasDrawn, ink)
	return args.Bool(0), args.Error(1)
}

func (m *mockGame) Advance() error {
	return m.Called().Error(0)
}

func (m *mockGame) AnswerQuiz(team models.Team, optionIndex int) (bool, error) {
	args := m.Called(team, optionIndex)
	return args.Bool(0), args.Error(1)
}

func (m *mockGame) PlayAgain() error {
	return m.Called().Error(0)
}

func (m *mockGame) EndGame(reason string) error {
	return m.Called(reason).Error(0)
}

func (m *mockGame) Snapshot() orchestrator.State {
	return m.Called().Get(0).(orchestrator.State)
}

func pngBase64(t *testing.T, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, w, h))))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func handle(t *testing.T, d *Dispatcher, cmd string) *Reply {
	t.Helper()
	raw := d.HandleMessage(context.Background(), []byte(cmd))
	if raw == nil {
		return nil
	}
	var r Reply
	require.NoError(t, json.Unmarshal(raw, &r))
	assert.Equal(t, ReplyType, r.Type)
	return &r
}

func TestDispatcher_Ready(t *testing.T) {
	game := new(mockGame)
	game.On("Ready").Return(nil).Once()

	r := handle(t, NewDispatcher(game, nil), `{"type":"ready","request_id":"r1"}`)

	require.NotNil(t, r)
	assert.True(t, r.Accepted)
	assert.Equal(t, "r1", r.RequestID)
	assert.Equal(t, CommandReady, r.Command)
	game.AssertExpectations(t)
}

func TestDispatcher_SubmitDecodesInk(t *testing.T) {
	game := new(mockGame)
	game.On("SubmitAttempt", models.TeamB, true, mock.MatchedBy(func(img image.Image) bool {
		return img != nil && img.Bounds().Dx() == 12 && img.Bounds().Dy() == 7
	})).Return(true, nil).Once()

	cmd := `{"type":"submit","team":"B","has_drawn":true,"ink":"data:image/png;base64,` + pngBase64(t, 12, 7) + `"}`
	r := handle(t, NewDispatcher(game, nil), cmd)

	require.NotNil(t, r)
	assert.True(t, r.Accepted)
	assert.Empty(t, r.Error)
	game.AssertExpectations(t)
}

func TestDispatcher_DuplicateSubmitNotAccepted(t *testing.T) {
	game := new(mockGame)
	game.On("SubmitAttempt", models.TeamA, false, nil).Return(false, nil)

	r := handle(t, NewDispatcher(game, nil), `{"type":"submit","team":"A"}`)

	require.NotNil(t, r)
	assert.False(t, r.Accepted)
	assert.Empty(t, r.Error)
}

func TestDispatcher_CanvasRepliesOnlyOnFailure(t *testing.T) {
	game := new(mockGame)
	game.On("UpdateCanvas", models.TeamA, false, nil).Return(nil).Once()
	game.On("UpdateCanvas", models.TeamB, false, nil).Return(errors.New("wrong phase")).Once()
	d := NewDispatcher(game, nil)

	assert.Nil(t, handle(t, d, `{"type":"canvas","team":"A"}`))

	r := handle(t, d, `{"type":"canvas","team":"B"}`)
	require.NotNil(t, r)
	assert.False(t, r.Accepted)
	assert.Equal(t, "wrong phase", r.Error)

	r = handle(t, d, `{"type":"canvas","team":"A","has_drawn":true,"ink":"not-base64!"}`)
	require.NotNil(t, r)
	assert.Contains(t, r.Error, ErrInvalidInk.Error())
	game.AssertExpectations(t)
}

func TestDispatcher_Answer(t *testing.T) {
	game := new(mockGame)
	game.On("AnswerQuiz", models.TeamA, 0).Return(true, nil).Once()
	d := NewDispatcher(game, nil)

	r := handle(t, d, `{"type":"answer","team":"A","option_index":0}`)
	assert.True(t, r.Accepted)

	r = handle(t, d, `{"type":"answer","team":"A"}`)
	assert.False(t, r.Accepted)
	assert.Contains(t, r.Error, "option_index")
	game.AssertExpectations(t)
}

type reverseShuffler struct{}

func (reverseShuffler) Shuffle(r teams.Roster) teams.Roster {
	return teams.Roster{A: r.B, B: r.A}
}

func TestDispatcher_ConfirmTeams(t *testing.T) {
	game := new(mockGame)
	game.On("ConfirmTeams", mock.MatchedBy(func(r teams.Roster) bool {
		return len(r.A) == 1 && r.A[0].Name == "Joon" && len(r.B) == 1 && r.B[0].Name == "Mina"
	})).Return(nil).Once()

	r := handle(t, NewDispatcher(game, reverseShuffler{}),
		`{"type":"confirm_teams","shuffle":true,"teams":{"A":["Mina"],"B":["Joon"]}}`)
	assert.True(t, r.Accepted)

	r = handle(t, NewDispatcher(game, nil), `{"type":"confirm_teams","shuffle":true,"teams":{"A":["Mina"],"B":["Joon"]}}`)
	assert.False(t, r.Accepted)
	game.AssertExpectations(t)
}

func TestDispatcher_StartGameAndState(t *testing.T) {
	game := new(mockGame)
	game.On("StartGame", models.GameConfig{TotalRounds: 3, Mode: models.GameModeDraw, QuizEnabled: true}).Return(nil).Twice()
	game.On("Snapshot").Return(orchestrator.State{Phase: models.GamePhaseTeamSetup, TotalRounds: 3})
	d := NewDispatcher(game, nil)

	r := handle(t, d, `{"type":"start_game","config":{"total_rounds":3,"mode":"DRAW","quiz_enabled":true}}`)
	assert.True(t, r.Accepted)

	r = handle(t, d, `{"type":"start_game"}`)
	assert.Contains(t, r.Error, ErrMissingField.Error())

	d.WithDefaults(models.GameConfig{TotalRounds: 3, Mode: models.GameModeDraw, QuizEnabled: true})
	r = handle(t, d, `{"type":"start_game"}`)
	assert.True(t, r.Accepted)

	r = handle(t, d, `{"type":"state"}`)
	require.NotNil(t, r.State)
	assert.Equal(t, models.GamePhaseTeamSetup, r.State.Phase)
	game.AssertExpectations(t)
}

func TestDispatcher_Rejections(t *testing.T) {
	d := NewDispatcher(new(mockGame), nil)

	r := handle(t, d, `{"type":"dance"}`)
	assert.False(t, r.Accepted)
	assert.Contains(t, r.Error, ErrUnknownCommand.Error())

	r = handle(t, d, `{not json`)
	assert.Contains(t, r.Error, "malformed command")
}

func TestDecodeInk(t *testing.T) {
	img, err := decodeInk("")
	assert.NoError(t, err)
	assert.Nil(t, img)

	img, err = decodeInk(pngBase64(t, 3, 4))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3, 4), img.Bounds())

	_, err = decodeInk("data:image/png;base64")
	assert.ErrorIs(t, err, ErrInvalidInk)

	_, err = decodeInk(base64.StdEncoding.EncodeToString([]byte("not a png")))
	assert.ErrorIs(t, err, ErrInvalidInk)
}
