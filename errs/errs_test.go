package errs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDatabaseError_Classifies(t *testing.T) {
	tests := []struct {
		name   string
		cause  error
		status int
	}{
		{"duplicate", errors.New(`ERROR: duplicate key value violates unique constraint "tools_name_key"`), http.StatusConflict},
		{"foreign key", errors.New("violates foreign key constraint"), http.StatusBadRequest},
		{"not found", errors.New("record not found"), http.StatusNotFound},
		{"connection", errors.New("dial tcp: connection refused"), http.StatusServiceUnavailable},
		{"other", errors.New("syntax error at or near"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDatabaseError("find", "project", tt.cause)
			assert.Equal(t, tt.status, err.StatusCode)
			assert.ErrorIs(t, err.Cause, tt.cause)
		})
	}
}

func TestNewDatabaseError_KeepsApiErr(t *testing.T) {
	notFound := NewNotFound("project")
	err := NewDatabaseError("find", "project", fmt.Errorf("wrapped: %w", notFound))
	assert.Same(t, notFound, err)
	assert.True(t, IsNotFound(err))
}

func TestValidationError_ApiErr(t *testing.T) {
	ve := NewValidationError(KindMissingTitle, "title", "title is required")
	var wrapped error = fmt.Errorf("save: %w", ve)

	got, ok := AsValidationError(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindMissingTitle, got.Kind)
	assert.ErrorIs(t, wrapped, ErrValidation)

	apiErr := got.ApiErr()
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "title", apiErr.Field)
	assert.Equal(t, "missingTitle: validation failed: title is required", apiErr.Error())
}

func TestGetFullError_FollowsCauses(t *testing.T) {
	inner := NewUpstreamError("slack", 503, nil)
	outer := NewUpstreamError("twilio", 0, inner)
	outer.Cause = fmt.Errorf("retry: %w", inner)

	assert.Equal(t,
		"upstream service failed: twilio request failed -> upstream service failed: slack returned status 503",
		outer.GetFullError())
	assert.ErrorIs(t, outer, ErrUpstreamFailure)
}

func TestNewInvalidTokenError(t *testing.T) {
	err := NewInvalidTokenError(ErrMissingToken)
	assert.Equal(t, http.StatusUnauthorized, err.StatusCode)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Contains(t, err.GetFullError(), "missing access token")
}

func TestNewDatabaseError_DeadlineIsUnavailable(t *testing.T) {
	err := NewDatabaseError("find", "projects", fmt.Errorf("query: %w", context.DeadlineExceeded))
	assert.Equal(t, http.StatusServiceUnavailable, err.StatusCode)
	assert.ErrorIs(t, err, ErrDatabaseConnection)
}

func TestAsApiErr(t *testing.T) {
	apiErr, ok := AsApiErr(NewValidationError(KindInvalidDate, "dateFrom", "not a date"))
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)

	apiErr, ok = AsApiErr(fmt.Errorf("wrapped: %w", NewNotFound("project")))
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)

	_, ok = AsApiErr(errors.New("boom"))
	assert.False(t, ok)
}
