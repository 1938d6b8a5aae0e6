package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studyplanner/handlers"
	"studyplanner/routes"
	"studyplanner/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	started := time.Now()

	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()
	logger := rt.logger

	if rt.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router, err := rt.router(ctx, started)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              "0.0.0.0:" + rt.cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	logger.Info("starting server", zap.String("addr", srv.Addr), zap.String("env", rt.cfg.Env))
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-serverErr:
		if ok {
			logger.Error("server failed", zap.Error(err))
			return err
		}
		return nil
	case sig := <-quit:
		logger.Info("server is shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		return err
	}

	logger.Info("server stopped gracefully")
	return nil
}

// router assembles the HTTP surface. Integration failures degrade to 503s
// on the protected endpoints; only invalid router settings are fatal.
func (rt *runtime) router(ctx context.Context, started time.Time) (*gin.Engine, error) {
	gate, authReady := rt.authGate(ctx)

	planHandler := handlers.NewPlanHandler(rt.planner)
	handlerBundle := &handlers.HandlerBundle{
		AuthGate:               gate,
		GeneratePlanHandler:    planHandler.GeneratePlanHandler,
		GeneratePlanPDFHandler: planHandler.GeneratePlanPDFHandler,
		HealthHandler:          handlers.HealthHandler(utils.NewHealthReporter(rt.aiReady, authReady, started)),
		MetricsHandler:         rt.metrics.Handler(),
	}
	return routes.NewRouter(rt.cfg, rt.logger, rt.metrics, handlerBundle)
}
