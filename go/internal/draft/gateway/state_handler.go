package gateway

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/draft/orchestrator"
	"github.com/mcdev12/draftroom/go/internal/models"
	"github.com/rs/zerolog/log"
)

// DraftSummary represents a summary of an active draft
type DraftSummary struct {
	DraftID      string     `json:"draft_id"`
	LeagueID     string     `json:"league_id,omitempty"`
	Status       string     `json:"status"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CurrentRound int        `json:"current_round"`
	CurrentPick  int        `json:"current_pick"`
	TotalTeams   int        `json:"total_teams"`
	TotalRounds  int        `json:"total_rounds"`
}

// StateHandler handles HTTP requests for draft state
type StateHandler struct {
	stateProvider StateProvider
	active        ActiveLister
	now           func() time.Time
	recentPicks   int
}

// NewStateHandler creates a new state handler. active may be nil.
func NewStateHandler(provider StateProvider, active ActiveLister) *StateHandler {
	return &StateHandler{
		stateProvider: provider,
		active:        active,
		now:           time.Now,
		recentPicks:   defaultRecentPicks,
	}
}

// HandleGetDraftState handles GET /api/drafts/{id}/state
func (h *StateHandler) HandleGetDraftState(w http.ResponseWriter, r *http.Request) {
	state, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, NewDraftStateResponse(state, h.now(), h.recentPicks))
}

// HandleGetResults handles GET /api/drafts/{id}/results
func (h *StateHandler) HandleGetResults(w http.ResponseWriter, r *http.Request) {
	state, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, orchestrator.Summarize(state))
}

func (h *StateHandler) load(w http.ResponseWriter, r *http.Request) (models.DraftState, bool) {
	draftID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid draft ID format", http.StatusBadRequest)
		return models.DraftState{}, false
	}

	state, err := h.stateProvider.GetState(r.Context(), draftID)
	if err != nil {
		if errors.Is(err, orchestrator.ErrDraftNotFound) {
			http.Error(w, "Draft not found", http.StatusNotFound)
			return models.DraftState{}, false
		}
		log.Error().Err(err).Str("draft_id", draftID.String()).Msg("failed to get draft state")
		http.Error(w, "Failed to get draft state", http.StatusInternalServerError)
		return models.DraftState{}, false
	}
	return state, true
}

// HandleGetActiveDrafts handles GET /api/drafts/active
func (h *StateHandler) HandleGetActiveDrafts(w http.ResponseWriter, r *http.Request) {
	if h.active == nil {
		writeJSON(w, http.StatusOK, []DraftSummary{})
		return
	}

	ids, err := h.active.ListActive(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to get active drafts")
		http.Error(w, "Failed to get active drafts", http.StatusInternalServerError)
		return
	}

	summaries := make([]DraftSummary, 0, len(ids))
	for _, id := range ids {
		state, err := h.stateProvider.GetState(r.Context(), id)
		if err != nil {
			log.Warn().Err(err).Str("draft_id", id.String()).Msg("skipping unreadable draft")
			continue
		}
		d := state.Draft
		summary := DraftSummary{
			DraftID:      d.ID.String(),
			Status:       string(d.Status),
			StartedAt:    d.StartedAt,
			CurrentRound: d.CurrentRound,
			CurrentPick:  d.CurrentOverall,
			TotalTeams:   d.ParticipantCount,
			TotalRounds:  d.Settings.Rounds,
		}
		if d.LeagueID != uuid.Nil {
			summary.LeagueID = d.LeagueID.String()
		}
		summaries = append(summaries, summary)
	}
	writeJSON(w, http.StatusOK, summaries)
}

// RegisterStateRoutes registers state-related HTTP routes
func (h *StateHandler) RegisterStateRoutes(r chi.Router) {
	r.Get("/api/drafts/active", h.HandleGetActiveDrafts)
	r.Get("/api/drafts/{id}/state", h.HandleGetDraftState)
	r.Get("/api/drafts/{id}/results", h.HandleGetResults)
}
