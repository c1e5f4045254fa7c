// Package broadcast fans committed draft events out to in-process observers.
// Delivery is best effort: a subscriber that falls behind loses events and
// is expected to resync from GetState.
package broadcast

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/draft/events"
	"github.com/rs/zerolog/log"
)

const defaultBuffer = 64

// Subscription is one observer's feed.
type Subscription struct {
	C <-chan events.Event

	ch      chan events.Event
	draftID uuid.UUID
	hub     *Hub
	once    sync.Once
	dropped atomic.Int64
}

// Dropped returns how many events this subscriber missed.
func (s *Subscription) Dropped() int64 {
	return s.dropped.Load()
}

// Close unsubscribes and closes C.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.remove(s)
	})
}

// Hub keeps subscriptions per draft. uuid.Nil subscribes to every draft.
type Hub struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]map[*Subscription]bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[uuid.UUID]map[*Subscription]bool)}
}

// Subscribe returns a feed of the draft's events. Pass uuid.Nil for all drafts.
func (h *Hub) Subscribe(draftID uuid.UUID, buffer int) *Subscription {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	ch := make(chan events.Event, buffer)
	sub := &Subscription{C: ch, ch: ch, draftID: draftID, hub: h}

	h.mu.Lock()
	if h.subs[draftID] == nil {
		h.subs[draftID] = make(map[*Subscription]bool)
	}
	h.subs[draftID][sub] = true
	h.mu.Unlock()

	log.Debug().Str("draft_id", draftID.String()).Msg("broadcast subscriber added")
	return sub
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs, ok := h.subs[sub.draftID]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.subs, sub.draftID)
		}
	}
	close(sub.ch)
}

// Publish delivers ev to the draft's subscribers and the all-draft subscribers without blocking.
func (h *Hub) Publish(ev events.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	h.deliver(h.subs[ev.DraftID], ev)
	if ev.DraftID != uuid.Nil {
		h.deliver(h.subs[uuid.Nil], ev)
	}
}

func (h *Hub) deliver(subs map[*Subscription]bool, ev events.Event) {
	for sub := range subs {
		select {
		case sub.ch <- ev:
		default:
			sub.dropped.Add(1)
			log.Warn().
				Str("draft_id", ev.DraftID.String()).
				Str("event_type", string(ev.Type)).
				Int64("sequence", ev.Sequence).
				Msg("broadcast subscriber is slow, dropping event")
		}
	}
}

// Count returns the number of subscribers for a draft.
func (h *Hub) Count(draftID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[draftID])
}
