package orchestrator

import (
	"fmt"
	"time"

	"github.com/mcdev12/draftroom/go/internal/draft/events"
	"github.com/mcdev12/draftroom/go/internal/draft/turnorder"
	"github.com/mcdev12/draftroom/go/internal/models"
	"github.com/mcdev12/draftroom/go/internal/roster"
)

// draftState is everything derived from one draft's log. It is only touched under the instance lock.
type draftState struct {
	draft     models.Draft
	roster    *roster.Roster
	pool      []models.PoolEntry
	poolIndex map[string]models.PoolEntry
	available map[string]bool
	picks     []models.Pick
	keys      map[string]models.Pick
}

// IsAvailable implements validator.Pool.
func (s *draftState) IsAvailable(playerID string) bool {
	return s.available[playerID]
}

func (s *draftState) availableList() []models.PoolEntry {
	out := make([]models.PoolEntry, 0, len(s.available))
	for _, p := range s.pool {
		if s.available[p.PlayerID] {
			out = append(out, p)
		}
	}
	return out
}

// snapshot returns a copy that shares nothing with the live state.
func (s *draftState) snapshot() models.DraftState {
	d := s.draft
	if d.Deadline != nil {
		t := *d.Deadline
		d.Deadline = &t
	}
	picks := make([]models.Pick, len(s.picks))
	copy(picks, s.picks)

	var participants []models.Participant
	if s.roster != nil {
		participants = s.roster.Participants()
	}
	return models.DraftState{
		Draft:        d,
		Participants: participants,
		Picks:        picks,
		Available:    s.availableList(),
	}
}

// applyHeader folds an event into the draft header only. It is pure so the
// header a commit will produce can be computed before the event is stored.
func applyHeader(d *models.Draft, ev events.Event) error {
	switch ev.Type {
	case events.DraftCreated:
		var p events.DraftCreatedPayload
		if err := ev.Decode(&p); err != nil {
			return err
		}
		*d = models.Draft{
			ID:               ev.DraftID,
			LeagueID:         p.LeagueID,
			Mode:             p.Mode,
			Status:           models.DraftStatusPending,
			Settings:         models.DraftSettings{Rounds: p.Rounds, PickTimeLimitSec: p.PickTimeLimitSec},
			ParticipantCount: len(p.Participants),
			CreatedAt:        p.CreatedAt,
		}

	case events.DraftStarted:
		var p events.DraftStartedPayload
		if err := ev.Decode(&p); err != nil {
			return err
		}
		started := p.StartedAt
		deadline := p.Deadline
		d.Status = models.DraftStatusActive
		d.StartedAt = &started
		d.Deadline = &deadline
		setOnClock(d, 1)

	case events.PickMade:
		var p events.PickMadePayload
		if err := ev.Decode(&p); err != nil {
			return err
		}
		if p.OverallPick != d.CurrentOverall {
			return fmt.Errorf("pick %d recorded while pick %d was on the clock", p.OverallPick, d.CurrentOverall)
		}
		if p.Autopick {
			d.AutopickCount++
		}
		setOnClock(d, p.OverallPick+1)
		if p.NextDeadline != nil && p.OverallPick < d.TotalPicks() {
			next := *p.NextDeadline
			d.Deadline = &next
		} else {
			d.Deadline = nil
		}

	case events.DraftPaused:
		var p events.DraftPausedPayload
		if err := ev.Decode(&p); err != nil {
			return err
		}
		d.Status = models.DraftStatusPaused
		d.Remaining = p.Remaining
		d.Deadline = nil

	case events.DraftResumed:
		var p events.DraftResumedPayload
		if err := ev.Decode(&p); err != nil {
			return err
		}
		deadline := p.Deadline
		d.Status = models.DraftStatusActive
		d.Deadline = &deadline
		d.Remaining = 0

	case events.DraftCompleted:
		var p events.DraftCompletedPayload
		if err := ev.Decode(&p); err != nil {
			return err
		}
		completed := p.CompletedAt
		d.Status = models.DraftStatusComplete
		d.CompletedAt = &completed
		clearClock(d)

	case events.DraftCancelled:
		var p events.DraftCancelledPayload
		if err := ev.Decode(&p); err != nil {
			return err
		}
		cancelled := p.CancelledAt
		d.Status = models.DraftStatusCancelled
		d.CompletedAt = &cancelled
		clearClock(d)

	case events.DraftFailed:
		var p events.DraftFailedPayload
		if err := ev.Decode(&p); err != nil {
			return err
		}
		failed := p.FailedAt
		d.Status = models.DraftStatusFailed
		d.LastError = p.Error
		d.CompletedAt = &failed
		clearClock(d)

	default:
		return fmt.Errorf("unknown event type %q", ev.Type)
	}

	d.Version = ev.Sequence
	return nil
}

// setOnClock moves the draft to an overall pick. Past the last pick no seat is on the clock.
func setOnClock(d *models.Draft, overall int) {
	d.CurrentOverall = overall
	if overall > d.TotalPicks() {
		d.CurrentRound = d.Settings.Rounds
		d.SeatOnClock = 0
		return
	}
	d.CurrentRound = turnorder.RoundForPick(overall, d.ParticipantCount)
	d.SeatOnClock = turnorder.SeatForPick(overall, d.ParticipantCount, d.Mode)
}

// pastLastPick reports an active draft whose every slot is filled.
func pastLastPick(d models.Draft) bool {
	return d.Status == models.DraftStatusActive && d.CurrentOverall > d.TotalPicks()
}

func clearClock(d *models.Draft) {
	d.SeatOnClock = 0
	d.Deadline = nil
	d.Remaining = 0
}

// apply folds an event into the whole state. Live commits and replay both go through here.
func (s *draftState) apply(ev events.Event) error {
	if ev.Sequence != s.draft.Version+1 {
		return fmt.Errorf("event sequence %d does not follow %d", ev.Sequence, s.draft.Version)
	}
	if ev.Type != events.DraftCreated && s.roster == nil {
		return fmt.Errorf("%s before DraftCreated", ev.Type)
	}

	var pick *events.PickMadePayload
	switch ev.Type {
	case events.DraftCreated:
		var p events.DraftCreatedPayload
		if err := ev.Decode(&p); err != nil {
			return err
		}
		r, err := roster.New(p.Participants)
		if err != nil {
			return fmt.Errorf("invalid participants in log: %w", err)
		}
		s.roster = r
		s.pool = p.Pool
		s.poolIndex = make(map[string]models.PoolEntry, len(p.Pool))
		s.available = make(map[string]bool, len(p.Pool))
		for _, entry := range p.Pool {
			s.poolIndex[entry.PlayerID] = entry
			s.available[entry.PlayerID] = true
		}
		s.picks = nil
		s.keys = make(map[string]models.Pick)

	case events.PickMade:
		var p events.PickMadePayload
		if err := ev.Decode(&p); err != nil {
			return err
		}
		if !s.available[p.PlayerID] {
			return fmt.Errorf("player %s picked twice", p.PlayerID)
		}
		if want := turnorder.SeatForPick(p.OverallPick, s.draft.ParticipantCount, s.draft.Mode); p.Seat != want {
			return fmt.Errorf("pick %d recorded for seat %d, expected seat %d", p.OverallPick, p.Seat, want)
		}
		pick = &p
	}

	if err := applyHeader(&s.draft, ev); err != nil {
		return err
	}
	if pick != nil {
		rec := pick.ToPick(ev.DraftID)
		s.available[pick.PlayerID] = false
		s.picks = append(s.picks, rec)
		if pick.IdempotencyKey != "" {
			s.keys[pick.IdempotencyKey] = rec
		}
	}
	return nil
}

// replay rebuilds a state from a full log.
func replay(evs []events.Event) (*draftState, error) {
	s := &draftState{}
	for _, ev := range evs {
		if err := s.apply(ev); err != nil {
			return nil, fmt.Errorf("failed to replay event %d (%s): %w", ev.Sequence, ev.Type, err)
		}
	}
	if s.roster == nil {
		return nil, ErrDraftNotFound
	}
	return s, nil
}

// pickDeadline is the deadline for a pick that comes on the clock at now.
func pickDeadline(d models.Draft, now time.Time) time.Time {
	return now.Add(d.Settings.PickTimeLimit())
}
