package middleware

import (
	"fmt"
	"net/http"

	"hopon-backend/internal/logger"
	"hopon-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryMiddleware turns panics into 500 responses. The panic value is only
// echoed back when exposeDetail is set (non-production).
func RecoveryMiddleware(exposeDetail bool) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.WithRequestID(GetRequestID(c)).Error("Recovered from panic",
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Any("panic", recovered),
		)

		if exposeDetail {
			utils.ErrorResponseWithDetail(c, http.StatusInternalServerError, "Internal server error", fmt.Sprint(recovered))
		} else {
			utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
		}
		c.Abort()
	})
}
