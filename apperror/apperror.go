// Package apperror defines a centralized system for application-specific errors.
// Every failure the core can produce is classified here, and each class carries
// its HTTP status mapping, so handlers never hand-pick status codes: one place
// decides how an error category is presented to the client.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType enumerates the categories of application errors.
type ErrorType int

const (
	// UnknownError is for unspecified errors
	UnknownError ErrorType = iota
	// DatabaseError represents a transient storage fault. It is surfaced as
	// retryable; the core itself never retries.
	DatabaseError
	// ConfigError represents an error related to application configuration
	ConfigError
	// AuthError represents an authentication failure (no or invalid session)
	AuthError
	// UnauthorizedError represents an authorization failure (valid session,
	// insufficient role)
	UnauthorizedError
	// NotFoundError represents a resource not found error
	NotFoundError
	// ValidationError represents an input validation failure; it may carry
	// one violation per offending field
	ValidationError
	// BadRequestError represents a malformed or unusable request payload
	BadRequestError
	// InternalError represents a generic internal server error
	InternalError
	// ExternalServiceError represents a failure reported by an external
	// collaborator (e.g. the object-storage provider)
	ExternalServiceError
	// MigrationError represents an error during database migrations
	MigrationError
	// ConflictError represents a conflict, e.g., resource already exists
	ConflictError
)

// FieldViolation names a single violated validation rule. Validation errors
// report every violation at once rather than stopping at the first, so a
// client can surface all problems in one round trip.
type FieldViolation struct {
	Field   string `json:"field" example:"confirm_password"`
	Message string `json:"message" example:"passwords do not match"`
}

// AppError is the application's error type. It wraps an optional underlying
// error (`Err`) for debugging while exposing only `Message` (and, for
// validation failures, `Violations`) to API clients.
type AppError struct {
	Type       ErrorType
	Message    string
	Violations []FieldViolation
	Err        error // underlying error, never serialized
}

// Error satisfies the standard error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error, enabling errors.Is / errors.As over
// wrapped chains (Go 1.13+ convention).
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code appropriate for the error type.
func (e *AppError) StatusCode() int {
	switch e.Type {
	case DatabaseError:
		// 503 rather than 500: storage faults are transient and the caller
		// may retry with its own backoff policy.
		return http.StatusServiceUnavailable
	case ConfigError:
		return http.StatusInternalServerError
	case AuthError:
		// 401: authentication problem (no/invalid session token).
		return http.StatusUnauthorized
	case UnauthorizedError:
		// 403: authenticated but lacking the required role.
		return http.StatusForbidden
	case NotFoundError:
		return http.StatusNotFound
	case ValidationError:
		return http.StatusBadRequest
	case BadRequestError:
		return http.StatusBadRequest
	case InternalError:
		return http.StatusInternalServerError
	case ExternalServiceError:
		return http.StatusBadGateway
	case MigrationError:
		return http.StatusInternalServerError
	case ConflictError:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// NewAppError creates a new AppError. Generic constructor; the typed
// constructors below are preferred at call sites.
func NewAppError(errType ErrorType, message string, underlyingError error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     underlyingError,
	}
}

// NewDatabaseError creates a new DatabaseError
func NewDatabaseError(message string, underlyingError error) *AppError {
	return NewAppError(DatabaseError, message, underlyingError)
}

// NewConfigError creates a new ConfigError
func NewConfigError(message string, underlyingError error) *AppError {
	return NewAppError(ConfigError, message, underlyingError)
}

// NewAuthError creates a new AuthError (for authentication issues)
func NewAuthError(message string, underlyingError error) *AppError {
	return NewAppError(AuthError, message, underlyingError)
}

// NewUnauthorizedError creates a new UnauthorizedError (for authorization issues)
func NewUnauthorizedError(message string, underlyingError error) *AppError {
	return NewAppError(UnauthorizedError, message, underlyingError)
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(message string, underlyingError error) *AppError {
	return NewAppError(NotFoundError, message, underlyingError)
}

// NewValidationError creates a new ValidationError without field detail.
func NewValidationError(message string, underlyingError error) *AppError {
	return NewAppError(ValidationError, message, underlyingError)
}

// NewFieldValidationError creates a ValidationError carrying the full list of
// violated rules.
func NewFieldValidationError(message string, violations []FieldViolation) *AppError {
	return &AppError{
		Type:       ValidationError,
		Message:    message,
		Violations: violations,
	}
}

// NewBadRequestError creates a new BadRequestError
func NewBadRequestError(message string, underlyingError error) *AppError {
	return NewAppError(BadRequestError, message, underlyingError)
}

// NewInternalError creates a new InternalError
func NewInternalError(message string, underlyingError error) *AppError {
	return NewAppError(InternalError, message, underlyingError)
}

// NewExternalServiceError creates a new ExternalServiceError
func NewExternalServiceError(message string, underlyingError error) *AppError {
	return NewAppError(ExternalServiceError, message, underlyingError)
}

// NewMigrationError creates a new MigrationError
func NewMigrationError(message string, underlyingError error) *AppError {
	return NewAppError(MigrationError, message, underlyingError)
}

// NewConflictError creates a new ConflictError
func NewConflictError(message string, underlyingError error) *AppError {
	return NewAppError(ConflictError, message, underlyingError)
}

// ErrorResponse represents a generic error response payload for API clients.
// Violations is only populated for validation failures.
type ErrorResponse struct {
	Error      string           `json:"error" example:"A description of the error"`
	Violations []FieldViolation `json:"violations,omitempty"`
}

// ToResponse converts an AppError to an ErrorResponse suitable for API
// responses. Only the user-facing Message and any field violations are
// included; the underlying Err stays server-side.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message, Violations: e.Violations}
}

// FromError attempts to convert a generic error to an *AppError.
// It returns the *AppError and true if successful, otherwise nil and false.
func FromError(err error) (*AppError, bool) {
	if err == nil {
		return nil, false
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// Helper functions to check error types. These use errors.As so they keep
// working when an AppError sits somewhere inside a wrapped chain.

// IsNotFound checks if an error is a NotFound error
func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == NotFoundError
}

// IsAuthError checks if an error is an AuthError (authentication problem)
func IsAuthError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == AuthError
}

// IsUnauthorizedError checks if an error is an UnauthorizedError (authorization problem)
func IsUnauthorizedError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == UnauthorizedError
}

// IsValidationError checks if an error is a Validation error
func IsValidationError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == ValidationError
}

// IsConflictError checks if an error is a Conflict error
func IsConflictError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == ConflictError
}

// IsDatabaseError checks if an error is a transient storage fault.
func IsDatabaseError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == DatabaseError
}
