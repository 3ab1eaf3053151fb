package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCodeMapping(t *testing.T) {
	cases := []struct {
		errType ErrorType
		want    int
	}{
		{AuthError, http.StatusUnauthorized},
		{UnauthorizedError, http.StatusForbidden},
		{NotFoundError, http.StatusNotFound},
		{ValidationError, http.StatusBadRequest},
		{BadRequestError, http.StatusBadRequest},
		{ExternalServiceError, http.StatusBadGateway},
		{DatabaseError, http.StatusServiceUnavailable},
		{ConflictError, http.StatusConflict},
		{InternalError, http.StatusInternalServerError},
		{UnknownError, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		err := NewAppError(tc.errType, "boom", nil)
		assert.Equal(t, tc.want, err.StatusCode())
	}
}

func TestErrorAndUnwrap(t *testing.T) {
	underlying := errors.New("connection refused")
	err := NewDatabaseError("failed to query", underlying)

	assert.Equal(t, "failed to query: connection refused", err.Error())
	assert.Equal(t, underlying, errors.Unwrap(err))
}

func TestToResponseHidesUnderlyingError(t *testing.T) {
	err := NewExternalServiceError("upload failed", errors.New("provider secret detail"))
	resp := err.ToResponse()

	assert.Equal(t, "upload failed", resp.Error)
	assert.NotContains(t, fmt.Sprint(resp), "provider secret detail")
}

func TestFieldValidationErrorCarriesViolations(t *testing.T) {
	err := NewFieldValidationError("account request is invalid", []FieldViolation{
		{Field: "confirm_password", Message: "passwords do not match"},
		{Field: "email", Message: "must be a valid email address"},
	})

	assert.True(t, IsValidationError(err))
	resp := err.ToResponse()
	require.Len(t, resp.Violations, 2)
	assert.Equal(t, "confirm_password", resp.Violations[0].Field)
}

func TestFromErrorSeesThroughWrapping(t *testing.T) {
	inner := NewNotFoundError("event with ID 7 not found", nil)
	wrapped := fmt.Errorf("handling request: %w", inner)

	appErr, ok := FromError(wrapped)
	require.True(t, ok)
	assert.Equal(t, NotFoundError, appErr.Type)
	assert.True(t, IsNotFound(wrapped))
}

func TestFromErrorRejectsPlainErrors(t *testing.T) {
	_, ok := FromError(errors.New("plain"))
	assert.False(t, ok)

	_, ok = FromError(nil)
	assert.False(t, ok)
}
