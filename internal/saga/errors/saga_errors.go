package sagaerrors

import (
	"net/http"

	"go-leaveflow/internal/shared/apperror"
)

var (
	// ErrInvalidEvent and ErrMissingToken indicate a broken event
	// contract between the engine and this service, not bad user input.
	ErrInvalidEvent = apperror.New(
		apperror.CodeInternalError,
		"malformed approval event",
		http.StatusInternalServerError,
	)
	ErrMissingToken = apperror.New(
		apperror.CodeInternalError,
		"approval event is missing its continuation token",
		http.StatusInternalServerError,
	)
	ErrNoRecipients = apperror.New(
		apperror.CodeInternalError,
		"no administrator recipients available for approval request",
		http.StatusInternalServerError,
	)
	ErrStaleTransition = apperror.New(
		apperror.CodeInvalidState,
		"approval event arrived after the request was already resolved",
		http.StatusConflict,
	)
)

// NotificationFailed wraps a dispatch or persistence failure during event
// handling. The caller treats it as retryable; no compensation happens here.
func NotificationFailed(err error) *apperror.AppError {
	return apperror.Wrap(
		err,
		apperror.CodeServiceUnavailable,
		"notification handling failed",
		http.StatusServiceUnavailable,
	)
}
