package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"studyplanner/config"
	"studyplanner/metrics"
	"studyplanner/utils"

	"github.com/cenkalti/backoff/v4"
	genai "github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const geminiService = "gemini"

// contentGenerator is the part of *genai.GenerativeModel the client uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// RetryConfig controls retries of transient Gemini failures. MaxRetries of
// zero disables retrying.
type RetryConfig struct {
	MaxRetries  int
	BackoffBase time.Duration
	MaxBackoff  time.Duration
}

type GeminiClient struct {
	client  *genai.Client
	model   contentGenerator
	timeout time.Duration
	retry   RetryConfig
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewGeminiClient connects to the Gemini API with the configured key and model.
func NewGeminiClient(ctx context.Context, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) (*GeminiClient, error) {
	if !cfg.AIConfigured() {
		return nil, errors.New("gemini: GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	name := cfg.GeminiModel
	if !strings.HasPrefix(name, "models/") {
		name = "models/" + name
	}
	model := client.GenerativeModel(name)

	g := newGeminiClient(model, cfg.AITimeout, RetryConfig{
		MaxRetries:  cfg.AIMaxRetries,
		BackoffBase: cfg.AIRetryBackoff,
		MaxBackoff:  30 * time.Second,
	}, logger, m)
	g.client = client
	return g, nil
}

func newGeminiClient(model contentGenerator, timeout time.Duration, retry RetryConfig, logger *zap.Logger, m *metrics.Metrics) *GeminiClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiClient{
		model:   model,
		timeout: timeout,
		retry:   retry,
		logger:  logger,
		metrics: m,
	}
}

// Close releases the underlying API client.
func (g *GeminiClient) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

// Send generates content for the prompt. Only rate limiting, unavailability
// and timeouts are retried, and only when retries are configured.
func (g *GeminiClient) Send(ctx context.Context, prompt string) (string, error) {
	var text string
	attempt := 0

	op := func() error {
		attempt++
		out, err := g.generate(ctx, prompt)
		if err == nil {
			text = out
			return nil
		}
		var extErr *utils.ExternalServiceError
		if errors.As(err, &extErr) && extErr.Transient() && ctx.Err() == nil {
			return err
		}
		return backoff.Permanent(err)
	}

	notify := func(err error, wait time.Duration) {
		g.logger.Warn("gemini: retrying after transient failure",
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}

	if err := backoff.RetryNotify(op, g.backoff(ctx), notify); err != nil {
		var extErr *utils.ExternalServiceError
		if errors.As(err, &extErr) {
			return "", err
		}
		return "", classify(err)
	}
	return text, nil
}

func (g *GeminiClient) backoff(ctx context.Context) backoff.BackOffContext {
	b := backoff.NewExponentialBackOff()
	if g.retry.BackoffBase > 0 {
		b.InitialInterval = g.retry.BackoffBase
	}
	if g.retry.MaxBackoff > 0 {
		b.MaxInterval = g.retry.MaxBackoff
	}
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(g.retry.MaxRetries)), ctx)
}

func (g *GeminiClient) generate(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		err = classify(err)
		g.metrics.ObserveAI(outcome(err), time.Since(start))
		return "", err
	}

	text := responseText(resp)
	if text == "" {
		err = utils.NewExternalServiceError(geminiService, utils.ExternalUpstream, errors.New("empty response"))
		g.metrics.ObserveAI(outcome(err), time.Since(start))
		return "", err
	}

	g.metrics.ObserveAI("ok", time.Since(start))
	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if textPart, ok := part.(genai.Text); ok {
				sb.WriteString(string(textPart))
			}
		}
		if sb.Len() > 0 {
			break
		}
	}
	return strings.TrimSpace(sb.String())
}

// classify maps transport and API errors onto ExternalServiceError kinds.
func classify(err error) error {
	kind := utils.ExternalUpstream

	var (
		apiErr     *googleapi.Error
		blockedErr *genai.BlockedError
		netErr     net.Error
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		kind = utils.ExternalTimeout
	case errors.As(err, &blockedErr):
		kind = utils.ExternalUpstream
	case errors.As(err, &apiErr):
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			kind = utils.ExternalRateLimited
		case apiErr.Code == http.StatusRequestTimeout || apiErr.Code == http.StatusGatewayTimeout:
			kind = utils.ExternalTimeout
		case apiErr.Code >= 500:
			kind = utils.ExternalUnavailable
		}
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = utils.ExternalTimeout
	default:
		switch status.Code(err) {
		case codes.ResourceExhausted:
			kind = utils.ExternalRateLimited
		case codes.Unavailable:
			kind = utils.ExternalUnavailable
		case codes.DeadlineExceeded, codes.Canceled:
			kind = utils.ExternalTimeout
		}
	}

	return utils.NewExternalServiceError(geminiService, kind, err)
}

func outcome(err error) string {
	var extErr *utils.ExternalServiceError
	if errors.As(err, &extErr) {
		return string(extErr.Kind)
	}
	return "error"
}
