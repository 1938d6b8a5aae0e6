package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ValidationError reports a request that is missing required fields or
// carries out-of-range values.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation error: " + e.Message
	}
	return fmt.Sprintf("validation error: %s (%s)", e.Message, strings.Join(e.Fields, ", "))
}

func NewValidationError(msg string, fields ...string) error {
	return &ValidationError{Fields: fields, Message: msg}
}

// AuthReason classifies why a credential was rejected.
type AuthReason string

const (
	AuthMissing   AuthReason = "missing"
	AuthMalformed AuthReason = "malformed"
	AuthExpired   AuthReason = "expired"
	AuthInvalid   AuthReason = "invalid"
	AuthRevoked   AuthReason = "revoked"
)

// AuthError is returned when a bearer credential is missing or rejected.
type AuthError struct {
	Reason AuthReason
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("auth error: %s token", e.Reason)
	}
	return fmt.Sprintf("auth error: %s token: %v", e.Reason, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

func NewAuthError(reason AuthReason, err error) error {
	return &AuthError{Reason: reason, Err: err}
}

// ExternalKind classifies upstream failures.
type ExternalKind string

const (
	ExternalUnavailable   ExternalKind = "unavailable"
	ExternalRateLimited   ExternalKind = "rate_limited"
	ExternalTimeout       ExternalKind = "timeout"
	ExternalUpstream      ExternalKind = "upstream"
	ExternalNotConfigured ExternalKind = "not_configured"
)

// ExternalServiceError wraps a failure of a third-party dependency (the AI
// provider or the identity provider).
type ExternalServiceError struct {
	Service string
	Kind    ExternalKind
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Service, e.Kind, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// Transient reports whether a retry could plausibly succeed.
func (e *ExternalServiceError) Transient() bool {
	switch e.Kind {
	case ExternalUnavailable, ExternalRateLimited, ExternalTimeout:
		return true
	}
	return false
}

func NewExternalServiceError(service string, kind ExternalKind, err error) error {
	return &ExternalServiceError{Service: service, Kind: kind, Err: err}
}

// ParsingError means the AI answered but nothing in the answer could be
// turned into a plan entry.
type ParsingError struct {
	Lines   int
	Message string
}

func (e *ParsingError) Error() string {
	return fmt.Sprintf("parsing error: %s (%d lines inspected)", e.Message, e.Lines)
}

// RenderError reports a plan that cannot be turned into a document.
type RenderError struct {
	Entry   int
	Message string
	Err     error
}

func (e *RenderError) Error() string {
	msg := "render error: " + e.Message
	if e.Entry > 0 {
		msg = fmt.Sprintf("render error: entry %d: %s", e.Entry, e.Message)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RenderError) Unwrap() error { return e.Err }

// StatusFor maps an error from the plan pipeline to an HTTP status code.
func StatusFor(err error) int {
	var (
		validationErr *ValidationError
		authErr       *AuthError
		externalErr   *ExternalServiceError
		parsingErr    *ParsingError
		renderErr     *RenderError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validationErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &authErr):
		return http.StatusUnauthorized
	case errors.As(err, &externalErr):
		if externalErr.Kind == ExternalUpstream {
			return http.StatusBadGateway
		}
		return http.StatusServiceUnavailable
	case errors.As(err, &parsingErr):
		return http.StatusBadGateway
	case errors.As(err, &renderErr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the user-facing message for an error; causes of
// upstream and internal failures stay in the logs.
func PublicMessage(err error) (message, details string) {
	var (
		validationErr *ValidationError
		authErr       *AuthError
		externalErr   *ExternalServiceError
		parsingErr    *ParsingError
		renderErr     *RenderError
	)

	switch {
	case errors.As(err, &validationErr):
		details = validationErr.Message
		if len(validationErr.Fields) > 0 {
			details += ": " + strings.Join(validationErr.Fields, ", ")
		}
		return "Invalid request", details
	case errors.As(err, &authErr):
		return "Insufficient authorization", string(authErr.Reason) + " token"
	case errors.As(err, &externalErr):
		if externalErr.Kind == ExternalRateLimited {
			return "Upstream service busy", "The plan generator is rate limited. Please try again later."
		}
		return "Upstream service unavailable", "The plan generator could not be reached. Please try again later."
	case errors.As(err, &parsingErr):
		return "Upstream response unusable", "The plan generator returned no usable plan. Please try again."
	case errors.As(err, &renderErr):
		return "Failed to render plan", "The plan could not be converted to PDF."
	default:
		return "Internal Server Error", "An unexpected error occurred. Please try again later."
	}
}
