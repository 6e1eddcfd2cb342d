package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoryStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"validation", NewValidation("bad input"), CodeValidation, http.StatusBadRequest},
		{"credential missing", NewCredentialMissing("iiko_id"), CodeCredentialMissing, http.StatusBadRequest},
		{"report locked", NewReportLocked("t-1", "2024-05-30"), CodeReportLocked, http.StatusUnprocessableEntity},
		{"invalid transition", NewInvalidTransition("sent", "confirmed"), CodeInvalidTransition, http.StatusUnprocessableEntity},
		{"upstream", NewUpstream("click", errors.New("timeout")), CodeUpstream, http.StatusBadGateway},
		{"not found", NewNotFound("report", "42"), CodeNotFound, http.StatusNotFound},
		{"unauthorized", NewUnauthorized("no token"), CodeUnauthorized, http.StatusUnauthorized},
		{"forbidden", NewForbidden("nope"), CodeForbidden, http.StatusForbidden},
		{"conflict", NewConflict("busy"), CodeConflict, http.StatusConflict},
		{"duplicate", NewDuplicate("user", "email", "a@b.c"), CodeDuplicate, http.StatusConflict},
		{"concurrent modification", NewConcurrentModification("terminal", "42"), CodeConcurrentModification, http.StatusConflict},
		{"internal", NewInternal(errors.New("boom")), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
		})
	}
}

func TestAsAppErrorThroughWrapping(t *testing.T) {
	inner := NewReportLocked("t-1", "2024-05-30")
	wrapped := fmt.Errorf("submit: %w", inner)

	appErr, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeReportLocked, appErr.Code)
	assert.True(t, IsReportLocked(wrapped))
	assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus(wrapped))
}

func TestGetHTTPStatusPlainError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(errors.New("plain")))
}

func TestWithDetailAndCause(t *testing.T) {
	cause := errors.New("row missing")
	err := NewNotFound("terminal", "42").
		WithDetail("extra", "context").
		WithCause(cause)

	assert.Equal(t, "context", err.Details["extra"])
	assert.Equal(t, "42", err.Details["id"])
	assert.ErrorIs(t, err, cause)
}

func TestCredentialMissingNamesKey(t *testing.T) {
	err := NewCredentialMissing("payme_business_id")
	assert.Equal(t, "payme_business_id", err.Details["credential"])
	assert.Contains(t, err.Message, "payme_business_id")
}
