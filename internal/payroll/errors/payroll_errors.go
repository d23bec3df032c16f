package payrollerrors

import (
	"net/http"

	"payclaim/internal/shared/apperror"
)

var (
	ErrDivisionByZero = apperror.New(
		apperror.CodeDivisionByZero,
		"legal workdays is zero, base pay cannot be prorated",
		http.StatusUnprocessableEntity,
	)
	ErrNegativeInput = apperror.New(
		apperror.CodeInvalidInput,
		"pay inputs cannot be negative",
		http.StatusUnprocessableEntity,
	)
	ErrCalendarOverflow = apperror.New(
		apperror.CodeInvalidInput,
		"day counts exceed the calendar days of the period",
		http.StatusUnprocessableEntity,
	)
	ErrClaimNotConfirmed = apperror.New(
		apperror.CodeInvalidTransition,
		"claim is not confirmed yet",
		http.StatusConflict,
	)
)
