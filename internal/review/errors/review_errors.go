package reviewerrors

import (
	"net/http"

	"payclaim/internal/shared/apperror"
)

var (
	ErrClaimNotSubmitted = apperror.New(
		apperror.CodeInvalidTransition,
		"claim has not been submitted for review",
		http.StatusBadRequest,
	)
	ErrAdjustmentFrozen = apperror.New(
		apperror.CodeImmutable,
		"adjustments are frozen once the claim is confirmed",
		http.StatusConflict,
	)
	ErrUnknownLineItem = apperror.New(
		apperror.CodeInvalidInput,
		"unit price references a line item that is not on the claim",
		http.StatusBadRequest,
	)
	ErrNegativeCoefficient = apperror.New(
		apperror.CodeInvalidInput,
		"pricing coefficients cannot be negative",
		http.StatusBadRequest,
	)
)
