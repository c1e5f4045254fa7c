package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/draft/events"
	"github.com/mcdev12/draftroom/go/internal/models"
)

// Memory is an in-process event store with the same constraints as the Postgres schema.
// It backs tests and single-node development runs.
type Memory struct {
	mu      sync.RWMutex
	logs    map[uuid.UUID][]events.Event
	headers map[uuid.UUID]models.Draft
	slots   map[uuid.UUID]map[int]bool
	players map[uuid.UUID]map[string]bool
	teams   map[teamKey][]models.Pick
}

type teamKey struct {
	draftID uuid.UUID
	teamID  uuid.UUID
}

func NewMemory() *Memory {
	return &Memory{
		logs:    make(map[uuid.UUID][]events.Event),
		headers: make(map[uuid.UUID]models.Draft),
		slots:   make(map[uuid.UUID]map[int]bool),
		players: make(map[uuid.UUID]map[string]bool),
		teams:   make(map[teamKey][]models.Pick),
	}
}

// AppendEvent implements the engine's store.
func (m *Memory) AppendEvent(_ context.Context, ev events.Event, draft models.Draft) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	log := m.logs[ev.DraftID]
	if want := int64(len(log)) + 1; ev.Sequence != want {
		return fmt.Errorf("%w: sequence %d, expected %d", ErrConflict, ev.Sequence, want)
	}

	var pick *events.PickMadePayload
	if ev.Type == events.PickMade {
		var p events.PickMadePayload
		if err := ev.Decode(&p); err != nil {
			return err
		}
		if m.slots[ev.DraftID][p.OverallPick] {
			return fmt.Errorf("%w: overall %d already picked", ErrConflict, p.OverallPick)
		}
		if m.players[ev.DraftID][p.PlayerID] {
			return fmt.Errorf("%w: player %s already picked", ErrConflict, p.PlayerID)
		}
		pick = &p
	}

	m.logs[ev.DraftID] = append(log, ev)
	if cur, ok := m.headers[draft.ID]; !ok || cur.Version < draft.Version {
		m.headers[draft.ID] = draft
	}
	if pick != nil {
		if m.slots[ev.DraftID] == nil {
			m.slots[ev.DraftID] = make(map[int]bool)
			m.players[ev.DraftID] = make(map[string]bool)
		}
		m.slots[ev.DraftID][pick.OverallPick] = true
		m.players[ev.DraftID][pick.PlayerID] = true
		key := teamKey{ev.DraftID, pick.TeamID}
		m.teams[key] = append(m.teams[key], pick.ToPick(ev.DraftID))
	}
	return nil
}

// LoadEvents returns a copy of the draft's log.
func (m *Memory) LoadEvents(_ context.Context, draftID uuid.UUID) ([]events.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]events.Event, len(m.logs[draftID]))
	copy(out, m.logs[draftID])
	return out, nil
}

// LoadState returns the last written header.
func (m *Memory) LoadState(_ context.Context, draftID uuid.UUID) (*models.Draft, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.headers[draftID]
	if !ok {
		return nil, ErrNotFound
	}
	return &d, nil
}

// ListActive returns drafts that are not terminal.
func (m *Memory) ListActive(_ context.Context) ([]uuid.UUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ids []uuid.UUID
	for id, d := range m.headers {
		if !d.Status.Terminal() {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// TeamPicks returns the team's picks in one draft, in commit order.
func (m *Memory) TeamPicks(_ context.Context, draftID, teamID uuid.UUID) ([]models.Pick, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	picks := m.teams[teamKey{draftID, teamID}]
	out := make([]models.Pick, len(picks))
	copy(out, picks)
	return out, nil
}
