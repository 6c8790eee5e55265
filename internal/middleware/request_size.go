package middleware

import (
	"net/http"

	"hopon-backend/internal/logger"
	"hopon-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DefaultMaxRequestSize covers the largest body HopOn accepts (a ride
// completion with feedback) many times over.
const DefaultMaxRequestSize = 1 << 20

// RequestSizeLimitMiddleware caps request bodies at maxBytes. Declared
// oversize bodies are refused up front with 413; chunked ones are cut off by
// http.MaxBytesReader while the handler binds them.
func RequestSizeLimitMiddleware(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxRequestSize
	}

	return func(c *gin.Context) {
		if c.Request.Body == nil || c.Request.Body == http.NoBody {
			c.Next()
			return
		}

		if c.Request.ContentLength > maxBytes {
			logger.WithRequestID(GetRequestID(c)).Warn("Rejected oversize request body",
				zap.String("path", c.Request.URL.Path),
				zap.Int64("content_length", c.Request.ContentLength),
				zap.Int64("limit", maxBytes),
			)
			utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "Request body too large")
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
