package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError_PassesThroughWrapped(t *testing.T) {
	base := NewValidationError("duration required", map[string]any{"field": "duration"})
	wrapped := fmt.Errorf("clock out: %w", base)

	de := ToDomainError(wrapped)
	require.NotNil(t, de)
	assert.Equal(t, CodeValidation, de.Code)
	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
	assert.Equal(t, "duration", de.Details["field"])
}

func TestToDomainError_UnknownBecomesInternal(t *testing.T) {
	de := ToDomainError(errors.New("boom"))
	require.NotNil(t, de)
	assert.Equal(t, CodeInternal, de.Code)
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
	assert.Nil(t, ToDomainError(nil))
}

func TestFetchError_KeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewFetchError(cause)

	assert.True(t, IsFetch(err))
	assert.False(t, IsValidation(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFound("staff member", nil)))
	assert.False(t, IsNotFound(errors.New("x")))
}
