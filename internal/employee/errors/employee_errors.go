package employeeerrors

import (
	"net/http"

	"payclaim/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrEmployeeNumberAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"employee number is already registered",
		http.StatusConflict,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrWeakCredential = apperror.New(
		apperror.CodeInvalidInput,
		"credential must be at least 6 characters",
		http.StatusBadRequest,
	)
)
