// Package orchestrator owns the game state machine: phases, round counter,
// scores, and every timer that can move the game forward.
package orchestrator

import (
	"context"
	"errors"
	"image"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/wordrace/go/internal/game/attempt"
	"github.com/mcdev12/wordrace/go/internal/game/clock"
	"github.com/mcdev12/wordrace/go/internal/game/events"
	"github.com/mcdev12/wordrace/go/internal/game/quiz"
	"github.com/mcdev12/wordrace/go/internal/game/scoring"
	"github.com/mcdev12/wordrace/go/internal/models"
	"github.com/mcdev12/wordrace/go/internal/teams"
	"github.com/rs/zerolog/log"
)

var (
	// ErrInvalidPhase is returned for a command that the current phase does not accept.
	ErrInvalidPhase    = errors.New("command not allowed in current phase")
	// ErrContentNotReady is returned by Ready while round content is loading.
	ErrContentNotReady = errors.New("round content not ready")
	ErrUnknownTeam     = errors.New("unknown team")
)

// ContentProvider supplies one round of content at a time.
type ContentProvider interface {
	Next(ctx context.Context) (models.RoundContent, error)
	ResetSession()
}

// RoundResolver turns both attempts into a result. It must not fail.
type RoundResolver interface {
	Resolve(ctx context.Context, round int, mode models.GameMode, word string, a, b models.RawAttempt) models.RoundResult
}

// AccuracyScorer measures traced ink against the word's template.
type AccuracyScorer interface {
	Score(ink image.Image, word string) int
}

// RosterValidator checks the team split before the first round.
type RosterValidator interface {
	Validate(r teams.Roster) error
}

// Config holds timing and scoring settings.
type Config struct {
	RoundDuration  time.Duration
	QuizDuration   time.Duration
	PollInterval   time.Duration
	ContentTimeout time.Duration
	// ResultDisplay is how long ROUND_END is shown before advancing on its
	// own. Zero waits for Advance.
	ResultDisplay time.Duration
	Rewards       scoring.RewardTable
	DirectPoints  int
	Bonus         scoring.BonusPolicy
}

func DefaultConfig() Config {
	return Config{
		RoundDuration:  clock.DefaultRoundDuration,
		QuizDuration:   clock.DefaultQuizDuration,
		PollInterval:   clock.DefaultPollInterval,
		ContentTimeout: 30 * time.Second,
		ResultDisplay:  2 * time.Second,
		Rewards:        scoring.DefaultRewardTable(),
		DirectPoints:   scoring.DefaultDirectPoints,
		Bonus:          scoring.DefaultBonusPolicy(),
	}
}

// Deps are the collaborators of the orchestrator. Scorer, Roster and
// Publisher may be nil. Clock defaults to the real clock.
type Deps struct {
	Content   ContentProvider
	Resolver  RoundResolver
	Scorer    AccuracyScorer
	Roster    RosterValidator
	Publisher events.Publisher
	Clock     clockwork.Clock
}

type Orchestrator struct {
	content   ContentProvider
	resolver  RoundResolver
	scorer    AccuracyScorer
	roster    RosterValidator
	publisher events.Publisher
	clock     clockwork.Clock
	cfg       Config

	ctx    context.Context
	cancel context.CancelFunc
	tasks  sync.WaitGroup

	mu sync.Mutex
	// seq identifies the current phase instance. Every timer, watcher and
	// async task carries the seq it was started under and is discarded if
	// the game has moved on.
	seq         uint64
	phaseCtx    context.Context
	phaseCancel context.CancelFunc

	gameID  uuid.UUID
	phase   models.GamePhase
	game    models.GameConfig
	players teams.Roster
	scores  models.Scores
	round   int

	loading      bool
	roundContent *models.RoundContent
	bonus        bool
	roundClock   *clock.RoundClock
	attempts     *attempt.Round
	resolving    bool
	result       *models.RoundResult
	quiz         *quiz.Session
	quizOutcome  *models.QuizOutcome
	endReason    string
	watchers     []*clock.Watcher

	activeTimers   map[string]clockwork.Timer
	activeTimersMu sync.Mutex

	pending []events.Event
	flushMu sync.Mutex
}

// NewOrchestrator creates an orchestrator in SETUP.
func NewOrchestrator(deps Deps, cfg Config) *Orchestrator {
	c := deps.Clock
	if c == nil {
		c = clockwork.NewRealClock()
	}
	pub := deps.Publisher
	if pub == nil {
		pub = events.LogPublisher{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	o := &Orchestrator{
		content:      deps.Content,
		resolver:     deps.Resolver,
		scorer:       deps.Scorer,
		roster:       deps.Roster,
		publisher:    pub,
		clock:        c,
		cfg:          cfg,
		ctx:          ctx,
		cancel:       cancel,
		phase:        models.GamePhaseSetup,
		activeTimers: make(map[string]clockwork.Timer),
	}
	o.phaseCtx, o.phaseCancel = context.WithCancel(ctx)
	return o
}

// Wait blocks until in-flight content loads and round resolutions finish.
func (o *Orchestrator) Wait() {
	o.tasks.Wait()
}

// Close stops every timer and watcher and waits for in-flight work.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	o.seq++
	o.phaseCancel()
	o.stopWatchersLocked()
	o.mu.Unlock()

	o.cancelAllTimers()
	o.cancel()
	o.tasks.Wait()
	log.Info().Msg("orchestrator closed")
}

// unlock releases the state lock and publishes the events queued while it
// was held, in order. Publishers must not call back into the orchestrator
// synchronously.
func (o *Orchestrator) unlock() {
	pending := o.pending
	o.pending = nil
	o.flushMu.Lock()
	o.mu.Unlock()
	defer o.flushMu.Unlock()

	for _, e := range pending {
		if err := o.publisher.Publish(o.ctx, e); err != nil {
			log.Warn().Err(err).Str("event_type", string(e.Type)).Msg("failed to publish event")
		}
	}
}

func (o *Orchestrator) emitLocked(typ events.Type, payload any) {
	e, err := events.New(o.gameID, typ, payload, o.clock.Now())
	if err != nil {
		log.Error().Err(err).Str("event_type", string(typ)).Msg("failed to build event")
		return
	}
	o.pending = append(o.pending, e)
}

// setPhaseLocked moves to a new phase. It invalidates everything tagged with
// the previous seq and cancels that phase's context, timers and watchers.
func (o *Orchestrator) setPhaseLocked(to models.GamePhase) {
	from := o.phase
	o.phase = to
	o.seq++

	o.phaseCancel()
	o.phaseCtx, o.phaseCancel = context.WithCancel(o.ctx)
	o.stopWatchersLocked()
	o.cancelAllTimers()

	log.Info().
		Str("game_id", o.gameID.String()).
		Str("from", string(from)).
		Str("to", string(to)).
		Int("round", o.round).
		Msg("phase changed")

	o.emitLocked(events.TypePhaseChanged, events.PhaseChangedPayload{From: from, To: to, Round: o.round})
}

// goTask runs fn as a tracked task.
func (o *Orchestrator) goTask(fn func()) {
	o.tasks.Add(1)
	go func() {
		defer o.tasks.Done()
		fn()
	}()
}

func (o *Orchestrator) stopWatchersLocked() {
	for _, w := range o.watchers {
		w.Stop()
	}
	o.watchers = nil
}

// watchLocked polls rc for the current phase. Ticks and expiry are delivered
// under the state lock and dropped once the phase has moved on.
func (o *Orchestrator) watchLocked(rc *clock.RoundClock, team models.Team, onExpire func()) {
	seq, phase, round := o.seq, o.phase, o.round
	w := clock.Watch(o.phaseCtx, o.clock, rc, o.cfg.PollInterval,
		func(remaining int) {
			o.mu.Lock()
			defer o.unlock()
			if o.seq != seq {
				return
			}
			o.emitLocked(events.TypeTimerTick, events.TimerTickPayload{
				Round:            round,
				Phase:            phase,
				Team:             team,
				TimeRemainingSec: remaining,
			})
		},
		func() {
			o.mu.Lock()
			defer o.unlock()
			if o.seq != seq {
				log.Debug().Uint64("seq", seq).Str("phase", string(phase)).Msg("discarding stale clock expiry")
				return
			}
			onExpire()
		},
	)
	o.watchers = append(o.watchers, w)
}
