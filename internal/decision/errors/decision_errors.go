package decisionerrors

import (
	"fmt"
	"net/http"

	"go-leaveflow/internal/shared/apperror"
)

var (
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrInvalidAction = apperror.New(
		apperror.CodeInvalidInput,
		"action must be accept or reject",
		http.StatusBadRequest,
	)
	ErrMissingToken = apperror.New(
		apperror.CodeInternalError,
		"pending request has no continuation token",
		http.StatusInternalServerError,
	)
	ErrDecisionWindowExpired = apperror.New(
		apperror.CodeInvalidState,
		"the decision window for this request has expired",
		http.StatusGone,
	)
)

// AlreadyProcessed reports a decision attempt on a request that already
// reached the given terminal status.
func AlreadyProcessed(status string) *apperror.AppError {
	return apperror.New(
		apperror.CodeInvalidState,
		fmt.Sprintf("leave request was already processed, current status is %s", status),
		http.StatusConflict,
	)
}
