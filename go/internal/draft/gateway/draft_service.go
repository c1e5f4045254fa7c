package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/draft/orchestrator"
	"github.com/mcdev12/draftroom/go/internal/models"
	"github.com/rs/zerolog/log"
)

const DraftServiceName = "draft.v1.DraftService"

const (
	DraftServiceCreateDraftProcedure = "/draft.v1.DraftService/CreateDraft"
	DraftServiceStartDraftProcedure  = "/draft.v1.DraftService/StartDraft"
	DraftServiceSubmitPickProcedure  = "/draft.v1.DraftService/SubmitPick"
	DraftServicePauseDraftProcedure  = "/draft.v1.DraftService/PauseDraft"
	DraftServiceResumeDraftProcedure = "/draft.v1.DraftService/ResumeDraft"
	DraftServiceCancelDraftProcedure = "/draft.v1.DraftService/CancelDraft"
	DraftServiceGetStateProcedure    = "/draft.v1.DraftService/GetDraftState"
	DraftServiceGetResultsProcedure  = "/draft.v1.DraftService/GetResults"
)

//go:generate mockgen -destination=mocks/mock_engine.go -package=mocks github.com/mcdev12/draftroom/go/internal/draft/gateway Engine

// Engine defines what the service layer needs from the draft orchestrator
type Engine interface {
	CreateDraft(ctx context.Context, req orchestrator.CreateDraftRequest) (models.DraftState, error)
	StartDraft(ctx context.Context, draftID uuid.UUID) (models.DraftState, error)
	SubmitPick(ctx context.Context, draftID uuid.UUID, seat int, playerID, idempotencyKey string) (models.Pick, error)
	Pause(ctx context.Context, draftID uuid.UUID, reason string) (models.DraftState, error)
	Resume(ctx context.Context, draftID uuid.UUID) (models.DraftState, error)
	Cancel(ctx context.Context, draftID uuid.UUID, reason string) (models.DraftState, error)
	GetState(ctx context.Context, draftID uuid.UUID) (models.DraftState, error)
}

// DraftService implements the draft command API over connect
type DraftService struct {
	engine      Engine
	policy      policy
	now         func() time.Time
	recentPicks int
}

// NewDraftService creates a new draft service. A nil authenticator leaves every call open.
func NewDraftService(engine Engine, auth *Authenticator) *DraftService {
	return &DraftService{
		engine:      engine,
		policy:      policy{auth: auth},
		now:         time.Now,
		recentPicks: defaultRecentPicks,
	}
}

// NewDraftServiceHandler builds an HTTP handler serving every procedure of the service.
func NewDraftServiceHandler(svc *DraftService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append(opts, connect.WithCodec(JSONCodec{}))
	mux := http.NewServeMux()
	mux.Handle(DraftServiceCreateDraftProcedure, connect.NewUnaryHandler(DraftServiceCreateDraftProcedure, svc.CreateDraft, opts...))
	mux.Handle(DraftServiceStartDraftProcedure, connect.NewUnaryHandler(DraftServiceStartDraftProcedure, svc.StartDraft, opts...))
	mux.Handle(DraftServiceSubmitPickProcedure, connect.NewUnaryHandler(DraftServiceSubmitPickProcedure, svc.SubmitPick, opts...))
	mux.Handle(DraftServicePauseDraftProcedure, connect.NewUnaryHandler(DraftServicePauseDraftProcedure, svc.PauseDraft, opts...))
	mux.Handle(DraftServiceResumeDraftProcedure, connect.NewUnaryHandler(DraftServiceResumeDraftProcedure, svc.ResumeDraft, opts...))
	mux.Handle(DraftServiceCancelDraftProcedure, connect.NewUnaryHandler(DraftServiceCancelDraftProcedure, svc.CancelDraft, opts...))
	mux.Handle(DraftServiceGetStateProcedure, connect.NewUnaryHandler(DraftServiceGetStateProcedure, svc.GetDraftState, opts...))
	mux.Handle(DraftServiceGetResultsProcedure, connect.NewUnaryHandler(DraftServiceGetResultsProcedure, svc.GetResults, opts...))
	return "/" + DraftServiceName + "/", mux
}

// CreateDraft creates a new pending draft
func (s *DraftService) CreateDraft(ctx context.Context, req *connect.Request[CreateDraftRequest]) (*connect.Response[DraftStateResponse], error) {
	if err := s.policy.commissioner(ctx, uuid.Nil); err != nil {
		return nil, authError(err)
	}
	engineReq, err := req.Msg.toEngine()
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	state, err := s.engine.CreateDraft(ctx, engineReq)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(s.view(state)), nil
}

// StartDraft puts pick 1 on the clock
func (s *DraftService) StartDraft(ctx context.Context, req *connect.Request[DraftRequest]) (*connect.Response[DraftStateResponse], error) {
	return s.admin(ctx, req.Msg.DraftID, func(id uuid.UUID) (models.DraftState, error) {
		return s.engine.StartDraft(ctx, id)
	})
}

// PauseDraft freezes the clock
func (s *DraftService) PauseDraft(ctx context.Context, req *connect.Request[DraftRequest]) (*connect.Response[DraftStateResponse], error) {
	return s.admin(ctx, req.Msg.DraftID, func(id uuid.UUID) (models.DraftState, error) {
		return s.engine.Pause(ctx, id, req.Msg.Reason)
	})
}

// ResumeDraft restarts the clock with the time that was left
func (s *DraftService) ResumeDraft(ctx context.Context, req *connect.Request[DraftRequest]) (*connect.Response[DraftStateResponse], error) {
	return s.admin(ctx, req.Msg.DraftID, func(id uuid.UUID) (models.DraftState, error) {
		return s.engine.Resume(ctx, id)
	})
}

// CancelDraft ends a draft
func (s *DraftService) CancelDraft(ctx context.Context, req *connect.Request[DraftRequest]) (*connect.Response[DraftStateResponse], error) {
	return s.admin(ctx, req.Msg.DraftID, func(id uuid.UUID) (models.DraftState, error) {
		return s.engine.Cancel(ctx, id, req.Msg.Reason)
	})
}

func (s *DraftService) admin(ctx context.Context, rawID string, fn func(id uuid.UUID) (models.DraftState, error)) (*connect.Response[DraftStateResponse], error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	if err := s.policy.commissioner(ctx, id); err != nil {
		return nil, authError(err)
	}
	state, err := fn(id)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(s.view(state)), nil
}

// SubmitPick proposes a player for the caller's seat
func (s *DraftService) SubmitPick(ctx context.Context, req *connect.Request[SubmitPickRequest]) (*connect.Response[SubmitPickResponse], error) {
	id, err := uuid.Parse(req.Msg.DraftID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	if req.Msg.PlayerID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("player_id is required"))
	}
	seat, err := s.policy.seatFor(ctx, id, req.Msg.Seat)
	if err != nil {
		return nil, authError(err)
	}

	pick, err := s.engine.SubmitPick(ctx, id, seat, req.Msg.PlayerID, req.Msg.IdempotencyKey)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&SubmitPickResponse{Pick: pick}), nil
}

// GetDraftState returns a snapshot of the draft
func (s *DraftService) GetDraftState(ctx context.Context, req *connect.Request[DraftRequest]) (*connect.Response[DraftStateResponse], error) {
	id, err := uuid.Parse(req.Msg.DraftID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	state, err := s.engine.GetState(ctx, id)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(s.view(state)), nil
}

// GetResults groups the picks so far by seat
func (s *DraftService) GetResults(ctx context.Context, req *connect.Request[DraftRequest]) (*connect.Response[ResultsResponse], error) {
	id, err := uuid.Parse(req.Msg.DraftID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	state, err := s.engine.GetState(ctx, id)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ResultsResponse{Results: orchestrator.Summarize(state)}), nil
}

func (s *DraftService) view(state models.DraftState) *DraftStateResponse {
	return NewDraftStateResponse(state, s.now(), s.recentPicks)
}

func authError(err error) error {
	if errors.Is(err, errUnauthenticated) {
		return connect.NewError(connect.CodeUnauthenticated, err)
	}
	return connect.NewError(connect.CodePermissionDenied, err)
}

type restPickRequest struct {
	Seat           int    `json:"seat,omitempty"`
	PlayerID       string `json:"player_id"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

// HandleSubmitPick handles POST /api/drafts/{id}/picks
func (s *DraftService) HandleSubmitPick(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid draft ID format", http.StatusBadRequest)
		return
	}
	var body restPickRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.PlayerID == "" {
		http.Error(w, "player_id is required", http.StatusBadRequest)
		return
	}

	seat, err := s.policy.seatFor(r.Context(), id, body.Seat)
	if err != nil {
		writeError(w, err)
		return
	}
	pick, err := s.engine.SubmitPick(r.Context(), id, seat, body.PlayerID, body.IdempotencyKey)
	if err != nil {
		log.Debug().Err(err).Str("draft_id", id.String()).Int("seat", seat).Msg("pick refused")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, SubmitPickResponse{Pick: pick})
}

type errorBody struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	body := errorBody{Error: err.Error()}
	if cerr := new(connect.Error); errors.As(toConnectError(err), &cerr) {
		if reason := cerr.Meta().Get(RejectReasonHeader); reason != "" {
			body.Reason = reason
			w.Header().Set(RejectReasonHeader, reason)
		}
	}
	writeJSON(w, httpStatus(err), body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
