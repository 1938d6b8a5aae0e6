package handlers

import (
	"net/http"

	"studyplanner/services/auth"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the endpoint handlers and what the router needs to
// protect them.
type HandlerBundle struct {
	AuthGate auth.Verifier

	// Plan endpoints
	GeneratePlanHandler    gin.HandlerFunc
	GeneratePlanPDFHandler gin.HandlerFunc

	// Operational endpoints
	HealthHandler  gin.HandlerFunc
	MetricsHandler http.Handler
}
