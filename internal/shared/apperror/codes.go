package apperror

const (
	// Client errors (4xx)
	CodeInvalidInput      = "VALIDATION_ERROR"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeImmutable         = "IMMUTABLE"
	CodeDivisionByZero    = "DIVISION_BY_ZERO"

	// Server errors (5xx)
	CodeInternalError = "INTERNAL_ERROR"
	CodeStoreIO       = "STORE_IO"
)
