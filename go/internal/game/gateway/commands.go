package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/mcdev12/wordrace/go/internal/game/orchestrator"
	"github.com/mcdev12/wordrace/go/internal/models"
	"github.com/mcdev12/wordrace/go/internal/teams"
	"github.com/rs/zerolog/log"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrMissingField   = errors.New("missing field")
	ErrInvalidInk     = errors.New("invalid ink image")
)

// Game is the command surface of the orchestrator.
type Game interface {
	StartGame(cfg models.GameConfig) error
	ConfirmTeams(roster teams.Roster) error
	Ready() error
	UpdateCanvas(team models.Team, hasDrawn bool, ink image.Image) error
	SubmitAttempt(team models.Team, hasDrawn bool, ink image.Image) (bool, error)
	Advance() error
	AnswerQuiz(team models.Team, optionIndex int) (bool, error)
	PlayAgain() error
	EndGame(reason string) error
	Snapshot() orchestrator.State
}

// Shuffler redistributes players before teams are confirmed.
type Shuffler interface {
	Shuffle(r teams.Roster) teams.Roster
}

type CommandType string

const (
	CommandStartGame    CommandType = "start_game"
	CommandConfirmTeams CommandType = "confirm_teams"
	CommandReady        CommandType = "ready"
	CommandCanvas       CommandType = "canvas"
	CommandSubmit       CommandType = "submit"
	CommandAdvance      CommandType = "advance"
	CommandAnswer       CommandType = "answer"
	CommandPlayAgain    CommandType = "play_again"
	CommandEndGame      CommandType = "end_game"
	CommandState        CommandType = "state"
)

// Command is a message sent by a surface over its WebSocket.
type Command struct {
	RequestID string      `json:"request_id,omitempty"`
	Type      CommandType `json:"type"`
	Team      models.Team `json:"team,omitempty"`

	Config  *models.GameConfig `json:"config,omitempty"`
	Teams   *TeamNames         `json:"teams,omitempty"`
	Shuffle bool               `json:"shuffle,omitempty"`

	HasDrawn bool `json:"has_drawn,omitempty"`
	// Ink is a base64 PNG, optionally as a data URL.
	Ink string `json:"ink,omitempty"`

	OptionIndex *int   `json:"option_index,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

type TeamNames struct {
	A []string `json:"A"`
	B []string `json:"B"`
}

// ReplyType tags command replies so clients can tell them from game events.
const ReplyType = "CommandResult"

type Reply struct {
	Type      string              `json:"type"`
	RequestID string              `json:"request_id,omitempty"`
	Command   CommandType         `json:"command"`
	Accepted  bool                `json:"accepted"`
	Error     string              `json:"error,omitempty"`
	State     *orchestrator.State `json:"state,omitempty"`
}

// Dispatcher turns client commands into orchestrator calls.
type Dispatcher struct {
	game     Game
	shuffler Shuffler
	defaults *models.GameConfig
}

// NewDispatcher creates a dispatcher. shuffler may be nil, in which case
// shuffle requests are rejected.
func NewDispatcher(game Game, shuffler Shuffler) *Dispatcher {
	return &Dispatcher{game: game, shuffler: shuffler}
}

// WithDefaults sets the configuration used by a start_game command that
// carries none.
func (d *Dispatcher) WithDefaults(cfg models.GameConfig) *Dispatcher {
	d.defaults = &cfg
	return d
}

// HandleMessage implements MessageHandler. Canvas updates are answered only
// when they fail.
func (d *Dispatcher) HandleMessage(_ context.Context, message []byte) []byte {
	var cmd Command
	if err := json.Unmarshal(message, &cmd); err != nil {
		return d.reply(Reply{Error: fmt.Sprintf("malformed command: %v", err)})
	}

	accepted, err := d.dispatch(cmd)
	r := Reply{RequestID: cmd.RequestID, Command: cmd.Type, Accepted: accepted && err == nil}
	if err != nil {
		r.Error = err.Error()
		log.Warn().
			Err(err).
			Str("command", string(cmd.Type)).
			Str("team", string(cmd.Team)).
			Msg("command rejected")
	} else if cmd.Type == CommandCanvas {
		return nil
	}
	if cmd.Type == CommandState {
		s := d.game.Snapshot()
		r.State = &s
	}
	return d.reply(r)
}

func (d *Dispatcher) dispatch(cmd Command) (bool, error) {
	switch cmd.Type {
	case CommandStartGame:
		cfg := cmd.Config
		if cfg == nil {
			cfg = d.defaults
		}
		if cfg == nil {
			return false, fmt.Errorf("%w: config", ErrMissingField)
		}
		return true, d.game.StartGame(*cfg)

	case CommandConfirmTeams:
		if cmd.Teams == nil {
			return false, fmt.Errorf("%w: teams", ErrMissingField)
		}
		roster := teams.Roster{A: teams.NewPlayers(cmd.Teams.A...), B: teams.NewPlayers(cmd.Teams.B...)}
		if cmd.Shuffle {
			if d.shuffler == nil {
				return false, errors.New("shuffle not supported")
			}
			roster = d.shuffler.Shuffle(roster)
		}
		return true, d.game.ConfirmTeams(roster)

	case CommandReady:
		return true, d.game.Ready()

	case CommandCanvas:
		ink, err := decodeInk(cmd.Ink)
		if err != nil {
			return false, err
		}
		return true, d.game.UpdateCanvas(cmd.Team, cmd.HasDrawn, ink)

	case CommandSubmit:
		ink, err := decodeInk(cmd.Ink)
		if err != nil {
			return false, err
		}
		return d.game.SubmitAttempt(cmd.Team, cmd.HasDrawn, ink)

	case CommandAdvance:
		return true, d.game.Advance()

	case CommandAnswer:
		if cmd.OptionIndex == nil {
			return false, fmt.Errorf("%w: option_index", ErrMissingField)
		}
		return d.game.AnswerQuiz(cmd.Team, *cmd.OptionIndex)

	case CommandPlayAgain:
		return true, d.game.PlayAgain()

	case CommandEndGame:
		return true, d.game.EndGame(cmd.Reason)

	case CommandState:
		return true, nil

	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
	}
}

func (d *Dispatcher) reply(r Reply) []byte {
	r.Type = ReplyType
	data, err := json.Marshal(r)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal command reply")
		return nil
	}
	return data
}

// decodeInk parses a base64 PNG. An empty string is a blank canvas.
func decodeInk(s string) (image.Image, error) {
	if s == "" {
		return nil, nil
	}
	if strings.HasPrefix(s, "data:") {
		i := strings.IndexByte(s, ',')
		if i < 0 {
			return nil, fmt.Errorf("%w: malformed data URL", ErrInvalidInk)
		}
		s = s[i+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInk, err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInk, err)
	}
	return img, nil
}
