package handlers

import (
	"net/http"

	"studyplanner/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler answers liveness checks. It never touches the AI or
// identity provider.
func HealthHandler(reporter *utils.HealthReporter) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, reporter.GetHealthStatus())
	}
}
