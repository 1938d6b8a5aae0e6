package ai

import (
	"context"
	"errors"

	"studyplanner/utils"
)

// AIClient sends a prompt to the generative model and returns its raw
// text answer. Failures are *utils.ExternalServiceError.
type AIClient interface {
	Send(ctx context.Context, prompt string) (string, error)
}

// UnconfiguredClient is used when no API key was supplied. It lets the
// service start (and /health answer) while plan generation reports the
// missing configuration as an upstream failure.
type UnconfiguredClient struct{}

func (UnconfiguredClient) Send(context.Context, string) (string, error) {
	return "", utils.NewExternalServiceError(geminiService, utils.ExternalNotConfigured,
		errors.New("GEMINI_API_KEY is not set"))
}
