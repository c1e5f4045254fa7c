package gateway

import (
	"errors"
	"net/http"

	"connectrpc.com/connect"
	"github.com/mcdev12/draftroom/go/internal/draft/orchestrator"
	"github.com/mcdev12/draftroom/go/internal/draft/validator"
)

// RejectReasonHeader carries the machine-readable rejection on connect and REST responses.
const RejectReasonHeader = "Draft-Reject-Reason"

func rejectionCode(r validator.Rejection) connect.Code {
	switch r {
	case validator.ErrPlayerTaken:
		return connect.CodeAlreadyExists
	case validator.ErrOutOfTurn:
		return connect.CodeAborted
	default:
		return connect.CodeFailedPrecondition
	}
}

// toConnectError maps engine errors onto connect codes.
func toConnectError(err error) error {
	if r, ok := validator.IsRejection(err); ok {
		cerr := connect.NewError(rejectionCode(r), err)
		cerr.Meta().Set(RejectReasonHeader, string(r))
		return cerr
	}

	switch {
	case errors.Is(err, orchestrator.ErrDraftNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, orchestrator.ErrInvalidDraft):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, orchestrator.ErrInvalidTransition):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, orchestrator.ErrPersistence), errors.Is(err, orchestrator.ErrNotOwner):
		return connect.NewError(connect.CodeUnavailable, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// httpStatus is the REST counterpart of toConnectError.
func httpStatus(err error) int {
	if r, ok := validator.IsRejection(err); ok {
		if r == validator.ErrRosterInvalid {
			return http.StatusUnprocessableEntity
		}
		return http.StatusConflict
	}

	switch {
	case errors.Is(err, orchestrator.ErrDraftNotFound):
		return http.StatusNotFound
	case errors.Is(err, orchestrator.ErrInvalidDraft):
		return http.StatusBadRequest
	case errors.Is(err, orchestrator.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, orchestrator.ErrPersistence), errors.Is(err, orchestrator.ErrNotOwner):
		return http.StatusServiceUnavailable
	case errors.Is(err, errUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, errForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
