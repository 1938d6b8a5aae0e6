package routes

import (
	"fmt"
	"time"

	"studyplanner/config"
	"studyplanner/handlers"
	"studyplanner/metrics"
	"studyplanner/middleware"
	"studyplanner/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter creates the Gin engine with the global middleware chain and
// every route registered. Forwarding headers are honoured only from
// TRUSTED_PROXIES, so client IPs cannot be spoofed by callers.
func NewRouter(cfg *config.Config, logger *zap.Logger, m *metrics.Metrics, hb *handlers.HandlerBundle) (*gin.Engine, error) {
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxyList()); err != nil {
		return nil, fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}

	// Panics are recovered inside the logger and metrics middleware so that
	// the failed request is still logged and counted.
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.MetricsMiddleware(m))
	router.Use(utils.ErrorHandler(logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	RegisterRoutes(router, cfg, hb)
	return router, nil
}

// RegisterPlanRoutes registers the plan endpoints behind the auth gate.
func RegisterPlanRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("")
	{
		api.Use(middleware.FirebaseAuthMiddleware(hb.AuthGate))
		api.POST("/generate-plan", hb.GeneratePlanHandler)
		api.POST("/generate-plan-pdf", hb.GeneratePlanPDFHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterMetricsRoute exposes Prometheus metrics when a handler is set.
func RegisterMetricsRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	if hb.MetricsHandler == nil {
		return
	}
	r.GET("/metrics", gin.WrapH(hb.MetricsHandler))
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, hb *handlers.HandlerBundle) {
	origins := cfg.AllowedOrigins()
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 1 && origins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
		corsConfig.AllowCredentials = true
	}
	r.Use(cors.New(corsConfig))

	RegisterHealthRoute(r, hb)
	RegisterMetricsRoute(r, hb)
	RegisterPlanRoutes(r, hb)
}
