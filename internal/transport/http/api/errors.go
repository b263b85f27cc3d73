package api

import (
	"errors"
	"log/slog"
	"net/http"

	"intranet/internal/domain/activity"
	"intranet/internal/domain/announce"
	"intranet/internal/domain/directory"
	"intranet/internal/domain/document"
	"intranet/internal/domain/ledger"
	"intranet/internal/domain/medleave"
	"intranet/internal/domain/notify"
	"intranet/internal/domain/request"
)

// FromError translates domain errors to the response envelope. Unknown
// errors are logged and answered with a generic 500 so internals never leak.
func FromError(w http.ResponseWriter, err error, requestID string) {
	var insufficient *ledger.InsufficientBalanceError
	switch {
	case errors.As(err, &insufficient):
		Fail(w, http.StatusUnprocessableEntity, "insufficient_balance", insufficient.Error(), requestID)
	case errors.Is(err, ledger.ErrUnknownLeaveType),
		errors.Is(err, request.ErrValidation),
		errors.Is(err, medleave.ErrValidation),
		errors.Is(err, announce.ErrValidation),
		errors.Is(err, activity.ErrValidation),
		errors.Is(err, document.ErrValidation),
		errors.Is(err, directory.ErrValidation),
		errors.Is(err, directory.ErrInvalidRUT):
		Fail(w, http.StatusUnprocessableEntity, "validation_failed", err.Error(), requestID)
	case errors.Is(err, request.ErrForbidden),
		errors.Is(err, medleave.ErrForbidden),
		errors.Is(err, announce.ErrForbidden),
		errors.Is(err, document.ErrForbidden),
		errors.Is(err, directory.ErrForbidden):
		Fail(w, http.StatusForbidden, "forbidden", err.Error(), requestID)
	case errors.Is(err, request.ErrNotFound),
		errors.Is(err, medleave.ErrNotFound),
		errors.Is(err, announce.ErrNotFound),
		errors.Is(err, activity.ErrNotFound),
		errors.Is(err, activity.ErrNotEnrolled),
		errors.Is(err, document.ErrNotFound),
		errors.Is(err, directory.ErrNotFound),
		errors.Is(err, notify.ErrNotFound):
		Fail(w, http.StatusNotFound, "not_found", err.Error(), requestID)
	case errors.Is(err, request.ErrInvalidState),
		errors.Is(err, medleave.ErrInvalidState):
		Fail(w, http.StatusConflict, "invalid_state", err.Error(), requestID)
	case errors.Is(err, request.ErrConflict):
		Fail(w, http.StatusConflict, "conflict", err.Error(), requestID)
	case errors.Is(err, activity.ErrFull),
		errors.Is(err, activity.ErrAlreadyEnrolled):
		Fail(w, http.StatusConflict, "enrollment_conflict", err.Error(), requestID)
	default:
		slog.Error("unhandled error", "err", err, "requestId", requestID)
		Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", requestID)
	}
}
