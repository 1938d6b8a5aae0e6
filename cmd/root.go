// Package cmd wires configuration, services and transport into the
// studyplanner command-line entrypoints.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"studyplanner/config"
	"studyplanner/metrics"
	"studyplanner/services/auth"
	"studyplanner/services/document"
	ai "studyplanner/services/intelligence"
	"studyplanner/services/planner"
	"studyplanner/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewRootCmd creates the top-level "studyplanner" command.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "studyplanner",
		Short:         "AI study plan generator with JSON and PDF output",
		SilenceUsage:  true,
		SilenceErrors: true,
		// Without a subcommand the binary serves, as container images expect.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	root.AddCommand(
		newServeCmd(),
		newGenerateCmd(),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// runtime is the shared set of components both commands build from config.
type runtime struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	planner *planner.PlanService
	aiReady bool
	closers []io.Closer
}

func newRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := utils.NewLogger(cfg)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)

	rt := &runtime{cfg: cfg, logger: logger, metrics: metrics.New()}

	var client ai.AIClient = ai.UnconfiguredClient{}
	if cfg.AIConfigured() {
		gemini, err := ai.NewGeminiClient(ctx, cfg, logger, rt.metrics)
		if err != nil {
			logger.Error("Gemini client init failed; plan generation will report the AI service as unavailable", zap.Error(err))
		} else {
			rt.closers = append(rt.closers, gemini)
			rt.aiReady = true
			client = gemini
		}
	} else {
		logger.Warn("GEMINI_API_KEY is not set; plan generation will report the AI service as unavailable")
	}

	rt.planner = planner.NewPlanService(client, document.NewRenderer(), cfg, logger, rt.metrics)
	return rt, nil
}

// authGate returns the Firebase gate. When credentials are missing or fail
// to load it returns a gate that answers 503, so the process still serves
// /health. The bool reports whether the real gate is in use.
func (rt *runtime) authGate(ctx context.Context) (auth.Verifier, bool) {
	if !rt.cfg.AuthConfigured() {
		rt.logger.Warn("Firebase credentials are not set; protected endpoints will answer 503")
		return auth.UnconfiguredGate{}, false
	}
	gate, err := auth.NewFirebaseGate(ctx, rt.cfg)
	if err != nil {
		rt.logger.Error("Firebase init failed; protected endpoints will answer 503", zap.Error(err))
		return auth.UnconfiguredGate{Err: err}, false
	}
	return gate, true
}

func (rt *runtime) Close() {
	for _, c := range rt.closers {
		if err := c.Close(); err != nil {
			rt.logger.Warn("close failed", zap.Error(err))
		}
	}
	_ = rt.logger.Sync()
}
