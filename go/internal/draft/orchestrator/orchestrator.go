package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/draftroom/go/internal/draft/autopick"
	"github.com/mcdev12/draftroom/go/internal/draft/broadcast"
	"github.com/mcdev12/draftroom/go/internal/draft/clock"
	"github.com/mcdev12/draftroom/go/internal/draft/events"
	"github.com/mcdev12/draftroom/go/internal/draft/validator"
	"github.com/mcdev12/draftroom/go/internal/models"
	"github.com/rs/zerolog/log"
)

var (
	ErrDraftNotFound     = errors.New("draft not found")
	ErrInvalidTransition = errors.New("invalid draft state transition")
	ErrPersistence       = errors.New("failed to persist draft event")
	ErrNotOwner          = errors.New("draft is owned by another instance")
	ErrInvalidDraft      = errors.New("invalid draft configuration")
)

// Store defines what the orchestrator needs from the event store
type Store interface {
	AppendEvent(ctx context.Context, ev events.Event, draft models.Draft) error
	LoadEvents(ctx context.Context, draftID uuid.UUID) ([]events.Event, error)
	ListActive(ctx context.Context) ([]uuid.UUID, error)
}

// PoolSource defines what the orchestrator needs to seed a draft's player pool
type PoolSource interface {
	Pool(ctx context.Context, leagueID uuid.UUID) ([]models.PoolEntry, error)
}

// Snapshotter receives a copy of the state after every commit. Snapshots are derived data.
type Snapshotter interface {
	SaveSnapshot(ctx context.Context, state models.DraftState) error
}

// Archiver receives the full log of a draft once it is terminal.
type Archiver interface {
	Archive(ctx context.Context, draftID uuid.UUID, log []events.Event) error
}

// Leaser guards a draft against being driven by two instances at once.
type Leaser interface {
	Acquire(ctx context.Context, draftID uuid.UUID, owner string) (bool, error)
	Renew(ctx context.Context, draftID uuid.UUID, owner string) (bool, error)
	Release(ctx context.Context, draftID uuid.UUID, owner string) error
}

// Config tunes the orchestrator.
type Config struct {
	Workers int `yaml:"workers"`
	// BotPickDelay is how long a bot seat waits before picking.
	BotPickDelay time.Duration `yaml:"bot_pick_delay"`
	// LateGrace extends a human seat's deadline before the autopick takes over.
	LateGrace       time.Duration `yaml:"late_grace"`
	RetryBackoff    time.Duration `yaml:"retry_backoff"`
	MaxRetryBackoff time.Duration `yaml:"max_retry_backoff"`
	LeaseRenewEvery time.Duration `yaml:"lease_renew_every"`
	SideEffectWait  time.Duration `yaml:"side_effect_wait"`
}

func DefaultConfig() Config {
	return Config{
		Workers:         10,
		BotPickDelay:    2 * time.Second,
		RetryBackoff:    500 * time.Millisecond,
		MaxRetryBackoff: 10 * time.Second,
		LeaseRenewEvery: 10 * time.Second,
		SideEffectWait:  5 * time.Second,
	}
}

// Deps are the collaborators of the orchestrator. Store is required.
type Deps struct {
	Store     Store
	Pool      PoolSource
	Roster    validator.RosterChecker
	Strategy  autopick.Strategy
	Bots      autopick.Strategy
	Snapshots Snapshotter
	Archiver  Archiver
	Leaser    Leaser
	Clock     clock.Clock
}

// instance is one live draft. mu serializes every mutation of it.
type instance struct {
	mu    sync.Mutex
	state *draftState

	timer        clockwork.Timer
	timerCancel  chan struct{}
	timerOverall int
	timerGen     uint64
	retries      int
}

type timeout struct {
	draftID uuid.UUID
	overall int
	gen     uint64
}

// Orchestrator is the draft state machine. Each draft is serialized by its own lock;
// drafts run independently. Deadline timers feed a worker pool.
type Orchestrator struct {
	store     Store
	pool      PoolSource
	validator *validator.Validator
	strat     autopick.Strategy
	botStrat  autopick.Strategy
	snapshots Snapshotter
	archiver  Archiver
	leaser    Leaser
	hub       *broadcast.Hub
	clock     clock.Clock
	cfg       Config

	instanceID string

	mu     sync.RWMutex
	drafts map[uuid.UUID]*instance

	// Worker pool configuration
	numWorkers int
	workCh     chan timeout
	stopped    chan struct{}
	stopOnce   sync.Once
	bgMu       sync.Mutex
	bg         sync.WaitGroup
}

// NewOrchestrator creates a new draft orchestrator with worker pool
func NewOrchestrator(deps Deps, cfg Config) *Orchestrator {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultConfig().Workers
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = DefaultConfig().RetryBackoff
	}
	if cfg.MaxRetryBackoff < cfg.RetryBackoff {
		cfg.MaxRetryBackoff = cfg.RetryBackoff
	}
	if cfg.LeaseRenewEvery <= 0 {
		cfg.LeaseRenewEvery = DefaultConfig().LeaseRenewEvery
	}
	if cfg.SideEffectWait <= 0 {
		cfg.SideEffectWait = DefaultConfig().SideEffectWait
	}
	if deps.Clock == nil {
		deps.Clock = clock.NewReal()
	}
	if deps.Strategy == nil {
		deps.Strategy = autopick.PoolOrder{}
	}
	if deps.Bots == nil {
		deps.Bots = deps.Strategy
	}

	return &Orchestrator{
		store:      deps.Store,
		pool:       deps.Pool,
		validator:  validator.New(deps.Roster),
		strat:      deps.Strategy,
		botStrat:   deps.Bots,
		snapshots:  deps.Snapshots,
		archiver:   deps.Archiver,
		leaser:     deps.Leaser,
		hub:        broadcast.NewHub(),
		clock:      deps.Clock,
		cfg:        cfg,
		instanceID: uuid.New().String()[:8], // short ID for logging
		drafts:     make(map[uuid.UUID]*instance),
		numWorkers: cfg.Workers,
		workCh:     make(chan timeout, cfg.Workers*2),
		stopped:    make(chan struct{}),
	}
}

// InstanceID identifies this process in logs and leases.
func (o *Orchestrator) InstanceID() string {
	return o.instanceID
}

// CreateDraftRequest configures a new draft.
type CreateDraftRequest struct {
	ID               uuid.UUID
	LeagueID         uuid.UUID
	Mode             models.DraftMode
	Rounds           int
	PickTimeLimitSec int
	Participants     []models.Participant
	// BotCount fills every seat with a bot when Participants is empty.
	BotCount int
	// Pool overrides the pool source when set.
	Pool []models.PoolEntry
}

// CreateDraft records a pending draft with its participants and a snapshot of the player pool.
func (o *Orchestrator) CreateDraft(ctx context.Context, req CreateDraftRequest) (models.DraftState, error) {
	if !req.Mode.Valid() {
		return models.DraftState{}, fmt.Errorf("%w: unknown mode %q", ErrInvalidDraft, req.Mode)
	}
	if req.Rounds < 1 || req.PickTimeLimitSec < 1 {
		return models.DraftState{}, fmt.Errorf("%w: rounds and pick time limit must be positive", ErrInvalidDraft)
	}
	participants := req.Participants
	if len(participants) == 0 && req.BotCount > 0 {
		participants = botSeats(req.BotCount)
	}

	pool := req.Pool
	if pool == nil && o.pool != nil {
		var err error
		pool, err = o.pool.Pool(ctx, req.LeagueID)
		if err != nil {
			return models.DraftState{}, fmt.Errorf("failed to load player pool: %w", err)
		}
	}
	pool = dedupePool(pool)

	id := req.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	o.mu.RLock()
	_, exists := o.drafts[id]
	o.mu.RUnlock()
	if exists {
		return models.DraftState{}, fmt.Errorf("%w: draft %s already exists", ErrInvalidDraft, id)
	}

	inst := &instance{state: &draftState{draft: models.Draft{ID: id}}}
	inst.mu.Lock()
	defer inst.mu.Unlock()

	payload := events.DraftCreatedPayload{
		LeagueID:         req.LeagueID,
		Mode:             req.Mode,
		Rounds:           req.Rounds,
		PickTimeLimitSec: req.PickTimeLimitSec,
		Participants:     participants,
		Pool:             pool,
		CreatedAt:        o.clock.Now(),
	}
	if err := validateParticipants(participants); err != nil {
		return models.DraftState{}, fmt.Errorf("%w: %v", ErrInvalidDraft, err)
	}
	if _, err := o.commitLocked(ctx, inst, events.DraftCreated, payload); err != nil {
		return models.DraftState{}, err
	}

	o.mu.Lock()
	o.drafts[id] = inst
	o.mu.Unlock()

	if total := req.Rounds * len(participants); len(pool) < total {
		log.Warn().
			Str("draft_id", id.String()).
			Int("pool_size", len(pool)).
			Int("total_picks", total).
			Msg("player pool is smaller than the number of picks")
	}
	log.Info().
		Str("draft_id", id.String()).
		Str("mode", string(req.Mode)).
		Int("participants", len(participants)).
		Int("rounds", req.Rounds).
		Msg("draft created")

	return inst.state.snapshot(), nil
}

// StartDraft moves a pending draft to active and puts pick 1 on the clock.
func (o *Orchestrator) StartDraft(ctx context.Context, draftID uuid.UUID) (models.DraftState, error) {
	inst, err := o.instance(ctx, draftID)
	if err != nil {
		return models.DraftState{}, err
	}
	inst.mu.Lock()
	defer inst.mu.Unlock()

	d := inst.state.draft
	if d.Status != models.DraftStatusPending {
		return models.DraftState{}, fmt.Errorf("%w: cannot start a %s draft", ErrInvalidTransition, d.Status)
	}

	now := o.clock.Now()
	payload := events.DraftStartedPayload{
		Mode:        d.Mode,
		StartedAt:   now,
		Deadline:    pickDeadline(d, now),
		SeatOnClock: seatForOverall(d, 1),
		TotalRounds: d.Settings.Rounds,
		TotalPicks:  d.TotalPicks(),
	}
	if _, err := o.commitLocked(ctx, inst, events.DraftStarted, payload); err != nil {
		return models.DraftState{}, err
	}
	o.armClockLocked(inst)

	log.Info().
		Str("draft_id", draftID.String()).
		Int("total_picks", payload.TotalPicks).
		Time("deadline", payload.Deadline).
		Msg("draft started")
	return inst.state.snapshot(), nil
}

// SubmitPick is a seat asking for a player. Rejections are validator.Rejection values and
// change nothing. A retry carrying the idempotency key of an accepted pick returns that pick.
func (o *Orchestrator) SubmitPick(ctx context.Context, draftID uuid.UUID, seat int, playerID, idempotencyKey string) (models.Pick, error) {
	inst, err := o.instance(ctx, draftID)
	if err != nil {
		return models.Pick{}, err
	}
	inst.mu.Lock()
	defer inst.mu.Unlock()

	st := inst.state
	if idempotencyKey != "" {
		if prev, ok := st.keys[idempotencyKey]; ok && prev.Seat == seat && prev.PlayerID == playerID {
			return prev, nil
		}
	}

	d := st.draft
	if d.Status == models.DraftStatusActive && d.Deadline != nil &&
		clock.Expired(*d.Deadline, o.clock.Now(), o.graceFor(st, d.SeatOnClock)) {
		// the deadline passed before the timer was serviced
		log.Info().
			Str("draft_id", draftID.String()).
			Int("seat", seat).
			Int("overall_pick", d.CurrentOverall).
			Msg("late pick, running takeover")
		o.cancelTimerLocked(inst)
		o.onClockExpiredLocked(ctx, inst)

		after := st.draft
		switch {
		case after.Status == models.DraftStatusActive && after.CurrentOverall == d.CurrentOverall:
			// the takeover did not commit and a retry is scheduled; the slot is still open
			return models.Pick{}, fmt.Errorf("%w: takeover for pick %d", ErrPersistence, d.CurrentOverall)
		case after.Status != models.DraftStatusActive:
			return models.Pick{}, validator.ErrNotActive
		}
		return models.Pick{}, validator.ErrOutOfTurn
	}

	return o.acceptPickLocked(ctx, inst, seat, playerID, false, idempotencyKey)
}

// Pause freezes the clock of an active draft, keeping the time left on the current pick.
func (o *Orchestrator) Pause(ctx context.Context, draftID uuid.UUID, reason string) (models.DraftState, error) {
	inst, err := o.instance(ctx, draftID)
	if err != nil {
		return models.DraftState{}, err
	}
	inst.mu.Lock()
	defer inst.mu.Unlock()

	d := inst.state.draft
	if d.Status != models.DraftStatusActive {
		return models.DraftState{}, fmt.Errorf("%w: cannot pause a %s draft", ErrInvalidTransition, d.Status)
	}

	now := o.clock.Now()
	var remaining time.Duration
	if d.Deadline != nil {
		remaining = clock.Remaining(*d.Deadline, now)
	}
	if _, err := o.commitLocked(ctx, inst, events.DraftPaused, events.DraftPausedPayload{
		PausedAt:  now,
		Remaining: remaining,
		Reason:    reason,
	}); err != nil {
		return models.DraftState{}, err
	}
	o.cancelTimerLocked(inst)

	log.Info().Str("draft_id", draftID.String()).Dur("remaining", remaining).Msg("draft paused")
	return inst.state.snapshot(), nil
}

// Resume restarts a paused draft with the time that was left when it was paused.
func (o *Orchestrator) Resume(ctx context.Context, draftID uuid.UUID) (models.DraftState, error) {
	inst, err := o.instance(ctx, draftID)
	if err != nil {
		return models.DraftState{}, err
	}
	inst.mu.Lock()
	defer inst.mu.Unlock()

	d := inst.state.draft
	if d.Status != models.DraftStatusPaused {
		return models.DraftState{}, fmt.Errorf("%w: cannot resume a %s draft", ErrInvalidTransition, d.Status)
	}

	now := o.clock.Now()
	deadline := now.Add(d.Remaining)
	if _, err := o.commitLocked(ctx, inst, events.DraftResumed, events.DraftResumedPayload{
		ResumedAt: now,
		Deadline:  deadline,
	}); err != nil {
		return models.DraftState{}, err
	}
	o.armClockLocked(inst)

	log.Info().Str("draft_id", draftID.String()).Time("deadline", deadline).Msg("draft resumed")
	return inst.state.snapshot(), nil
}

// Cancel ends any non-terminal draft. The log is kept.
func (o *Orchestrator) Cancel(ctx context.Context, draftID uuid.UUID, reason string) (models.DraftState, error) {
	inst, err := o.instance(ctx, draftID)
	if err != nil {
		return models.DraftState{}, err
	}
	inst.mu.Lock()
	defer inst.mu.Unlock()

	d := inst.state.draft
	if d.Status.Terminal() {
		return models.DraftState{}, fmt.Errorf("%w: draft is already %s", ErrInvalidTransition, d.Status)
	}
	if _, err := o.commitLocked(ctx, inst, events.DraftCancelled, events.DraftCancelledPayload{
		CancelledAt: o.clock.Now(),
		Reason:      reason,
	}); err != nil {
		return models.DraftState{}, err
	}
	o.cancelTimerLocked(inst)
	o.onTerminalLocked(inst)

	log.Info().Str("draft_id", draftID.String()).Str("reason", reason).Msg("draft cancelled")
	return inst.state.snapshot(), nil
}

// GetState returns a snapshot copy of the draft.
func (o *Orchestrator) GetState(ctx context.Context, draftID uuid.UUID) (models.DraftState, error) {
	inst, err := o.instance(ctx, draftID)
	if err != nil {
		return models.DraftState{}, err
	}
	inst.mu.Lock()
	defer inst.mu.Unlock()
	return inst.state.snapshot(), nil
}

// SetPresence records whether a seat's client is connected. It never affects turn handling.
func (o *Orchestrator) SetPresence(ctx context.Context, draftID uuid.UUID, seat int, connected bool) error {
	inst, err := o.instance(ctx, draftID)
	if err != nil {
		return err
	}
	inst.mu.Lock()
	defer inst.mu.Unlock()
	if !inst.state.roster.SetPresence(seat, connected) {
		return fmt.Errorf("seat %d is not in draft %s", seat, draftID)
	}
	return nil
}

// OnTransition returns a feed of every committed event for a draft, or all drafts for uuid.Nil.
// The feed is best effort; callers resync with GetState.
func (o *Orchestrator) OnTransition(draftID uuid.UUID, buffer int) *broadcast.Subscription {
	return o.hub.Subscribe(draftID, buffer)
}

// Hub exposes the in-process broadcast hub.
func (o *Orchestrator) Hub() *broadcast.Hub {
	return o.hub
}
