package leaverequesterrors

import (
	"net/http"

	"go-leaveflow/internal/shared/apperror"
)

var (
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidTimeFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid time format, expected 24-hour HH:MM",
		http.StatusBadRequest,
	)

	// The three inverted-range sentinels share one error code; the messages
	// differ so callers can see which input produced the inversion.
	ErrRangeInvertedDates = apperror.New(
		apperror.CodeInvalidInput,
		"from date cannot be later than to date",
		http.StatusBadRequest,
	)
	ErrRangeInvertedFromTime = apperror.New(
		apperror.CodeInvalidInput,
		"from time places the start of the range after its end",
		http.StatusBadRequest,
	)
	ErrRangeInvertedToTime = apperror.New(
		apperror.CodeInvalidInput,
		"to time places the end of the range before its start",
		http.StatusBadRequest,
	)

	ErrPastDate = apperror.New(
		apperror.CodeInvalidInput,
		"leave cannot start in the past",
		http.StatusBadRequest,
	)
	ErrDuplicatePending = apperror.New(
		apperror.CodeConflict,
		"duplicate pending request for the same period",
		http.StatusConflict,
	)
	ErrPeriodAlreadyDecided = apperror.New(
		apperror.CodeConflict,
		"a request for this exact period was already decided",
		http.StatusConflict,
	)
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
)
