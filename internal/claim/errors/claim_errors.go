package claimerrors

import (
	"net/http"

	"payclaim/internal/shared/apperror"
)

var (
	ErrClaimNotFound = apperror.New(
		apperror.CodeNotFound,
		"salary claim not found",
		http.StatusNotFound,
	)
	ErrInvalidPeriodFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid period format, expected YYYY-MM",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeNumber = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee number",
		http.StatusBadRequest,
	)
	ErrInvalidTransition = apperror.New(
		apperror.CodeInvalidTransition,
		"claim status does not allow this transition",
		http.StatusBadRequest,
	)
	ErrClaimNotEditable = apperror.New(
		apperror.CodeInvalidTransition,
		"submitted claim must be revoked before editing",
		http.StatusBadRequest,
	)
	ErrClaimImmutable = apperror.New(
		apperror.CodeImmutable,
		"confirmed claim can no longer be modified",
		http.StatusConflict,
	)
)
