package gateway

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler handles WebSocket upgrade requests for draft connections
type WebSocketHandler struct {
	connectionManager *ConnectionManager
	auth              *Authenticator
}

// NewWebSocketHandler creates a new WebSocket handler. With a nil authenticator the seat
// is taken from the ?seat= query parameter.
func NewWebSocketHandler(cm *ConnectionManager, auth *Authenticator) *WebSocketHandler {
	return &WebSocketHandler{
		connectionManager: cm,
		auth:              auth,
	}
}

// HandleDraftConnection handles WebSocket connections for a specific draft
func (h *WebSocketHandler) HandleDraftConnection(w http.ResponseWriter, r *http.Request) {
	draftID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid draft id format", http.StatusBadRequest)
		return
	}

	seat, err := h.seat(r, draftID)
	if err != nil {
		http.Error(w, "invalid seat", http.StatusBadRequest)
		return
	}

	// Upgrade writes its own error response on failure
	if err := h.connectionManager.UpgradeConnection(w, r, draftID, seat); err != nil {
		log.Error().
			Err(err).
			Str("draft_id", draftID.String()).
			Int("seat", seat).
			Msg("failed to upgrade WebSocket connection")
		return
	}
}

// seat resolves which seat the socket speaks for; 0 means spectator.
func (h *WebSocketHandler) seat(r *http.Request, draftID uuid.UUID) (int, error) {
	if h.auth != nil {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok || !claims.coversDraft(draftID) || claims.Seat < 1 {
			return 0, nil
		}
		return claims.Seat, nil
	}

	raw := r.URL.Query().Get("seat")
	if raw == "" {
		return 0, nil
	}
	seat, err := strconv.Atoi(raw)
	if err != nil || seat < 0 {
		return 0, strconv.ErrSyntax
	}
	return seat, nil
}

// HandleConnectionStats returns statistics about active connections
func (h *WebSocketHandler) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.connectionManager.GetConnectionStats())
}

// RegisterRoutes registers WebSocket routes on a chi router
func (h *WebSocketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/drafts/{id}", h.HandleDraftConnection)
	r.Get("/ws/stats", h.HandleConnectionStats)
}
