package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", NewValidationError("missing required fields", "goal"), http.StatusUnprocessableEntity},
		{"auth", NewAuthError(AuthExpired, cause), http.StatusUnauthorized},
		{"rate limited", NewExternalServiceError("gemini", ExternalRateLimited, cause), http.StatusServiceUnavailable},
		{"unavailable", NewExternalServiceError("gemini", ExternalUnavailable, cause), http.StatusServiceUnavailable},
		{"timeout", NewExternalServiceError("gemini", ExternalTimeout, cause), http.StatusServiceUnavailable},
		{"not configured", NewExternalServiceError("firebase", ExternalNotConfigured, cause), http.StatusServiceUnavailable},
		{"upstream", NewExternalServiceError("gemini", ExternalUpstream, cause), http.StatusBadGateway},
		{"parsing", &ParsingError{Lines: 3, Message: "no plan entries"}, http.StatusBadGateway},
		{"render", &RenderError{Entry: 2, Message: "missing description"}, http.StatusInternalServerError},
		{"wrapped validation", fmt.Errorf("generate: %w", NewValidationError("bad")), http.StatusUnprocessableEntity},
		{"unknown", cause, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestPublicMessage_HidesUpstreamCause(t *testing.T) {
	err := NewExternalServiceError("gemini", ExternalUpstream, errors.New("api key AIza-secret rejected"))

	msg, details := PublicMessage(err)
	assert.Equal(t, "Upstream service unavailable", msg)
	assert.NotContains(t, details, "AIza-secret")
}

func TestPublicMessage_ListsMissingFields(t *testing.T) {
	_, details := PublicMessage(NewValidationError("missing required fields", "goal", "timeSlot.end"))
	assert.Equal(t, "missing required fields: goal, timeSlot.end", details)
}

func TestExternalServiceError_Transient(t *testing.T) {
	assert.True(t, (&ExternalServiceError{Kind: ExternalRateLimited}).Transient())
	assert.True(t, (&ExternalServiceError{Kind: ExternalTimeout}).Transient())
	assert.False(t, (&ExternalServiceError{Kind: ExternalUpstream}).Transient())
	assert.False(t, (&ExternalServiceError{Kind: ExternalNotConfigured}).Transient())
}

func TestAuthError_Unwrap(t *testing.T) {
	cause := errors.New("signature mismatch")
	err := NewAuthError(AuthInvalid, cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "invalid token")
}
