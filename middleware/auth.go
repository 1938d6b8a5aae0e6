package middleware

import (
	"strings"

	"studyplanner/services/auth"
	"studyplanner/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FirebaseAuthMiddleware requires a "Bearer <Firebase ID token>" header and
// stores the verified UID under "userID".
func FirebaseAuthMiddleware(gate auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := requestLogger(c)

		authHeader := c.GetHeader("Authorization")
		token := ""
		if strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		}

		userID, err := gate.Verify(c.Request.Context(), token)
		if err != nil {
			logger.Info("auth: request rejected", zap.Error(err))
			message, details := utils.PublicMessage(err)
			c.AbortWithStatusJSON(utils.StatusFor(err), utils.ErrorResponse{Message: message, Details: details})
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}
