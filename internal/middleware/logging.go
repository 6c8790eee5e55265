package middleware

import (
	"time"

	"hopon-backend/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// quietPaths are probed constantly and logged at debug level only.
var quietPaths = map[string]bool{
	"/metrics": true,
}

// LoggingMiddleware logs one structured line per completed request.
func LoggingMiddleware(basePath string) gin.HandlerFunc {
	quiet := map[string]bool{basePath + "/health": true}
	for p := range quietPaths {
		quiet[p] = true
	}

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()
		log := logger.WithRequestID(GetRequestID(c))

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("route", c.FullPath()),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.Int("status_code", statusCode),
			zap.Int("bytes", c.Writer.Size()),
			zap.Duration("latency", latency),
		}
		if userID, ok := GetUserID(c); ok {
			fields = append(fields, zap.String("user_id", userID))
		}
		if errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String(); errorMessage != "" {
			fields = append(fields, zap.String("error", errorMessage))
		}

		switch {
		case statusCode >= 500:
			log.Error("Request completed with server error", fields...)
		case statusCode >= 400:
			log.Warn("Request completed with client error", fields...)
		case quiet[path]:
			log.Debug("Probe served", fields...)
		default:
			log.Info("Request completed successfully", fields...)
		}
	}
}
