package autherrors

import (
	"net/http"

	"payclaim/internal/shared/apperror"
)

var (
	ErrInvalidCredentials = apperror.New(
		apperror.CodeUnauthorized,
		"invalid login credentials",
		http.StatusUnauthorized,
	)
	ErrAccountDisabled = apperror.New(
		apperror.CodeForbidden,
		"account is disabled",
		http.StatusForbidden,
	)
	ErrInvalidToken = apperror.New(
		"INVALID_TOKEN",
		"invalid access token",
		http.StatusUnauthorized,
	)
	ErrTokenExpired = apperror.New(
		"TOKEN_EXPIRED",
		"access token has expired",
		http.StatusUnauthorized,
	)
	ErrForbidden = apperror.New(
		apperror.CodeForbidden,
		"insufficient permissions for this resource",
		http.StatusForbidden,
	)
	ErrTokenGeneration = apperror.New(
		apperror.CodeInternalError,
		"could not issue access token",
		http.StatusInternalServerError,
	)
)
