package middleware

import (
	"errors"
	"net/http"
	"strings"

	"hopon-backend/internal/logger"
	"hopon-backend/internal/usecase/session"
	appErrors "hopon-backend/pkg/errors"
	"hopon-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	UserIDKey = "userID"
	EmailKey  = "email"
)

type TokenVerifier interface {
	VerifyToken(token string) (*session.Identity, error)
}

func bearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", appErrors.ErrTokenRequired
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", appErrors.ErrInvalidToken
	}

	return strings.TrimSpace(parts[1]), nil
}

// AuthMiddleware rejects requests without a valid bearer token with 401.
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err != nil {
			message := "Invalid or expired token"
			if errors.Is(err, appErrors.ErrTokenRequired) {
				message = "Access token required"
			}
			utils.ErrorResponse(c, http.StatusUnauthorized, message)
			c.Abort()
			return
		}

		identity, err := verifier.VerifyToken(token)
		if err != nil {
			logger.WithRequestID(GetRequestID(c)).Debug("Rejected bearer token",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		setIdentity(c, identity)
		c.Next()
	}
}

// OptionalAuthMiddleware attaches the identity when a valid token is present
// and otherwise lets the request through anonymously.
func OptionalAuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := bearerToken(c); err == nil {
			if identity, err := verifier.VerifyToken(token); err == nil {
				setIdentity(c, identity)
			}
		}
		c.Next()
	}
}

func setIdentity(c *gin.Context, identity *session.Identity) {
	c.Set(UserIDKey, identity.UserID)
	c.Set(EmailKey, identity.Email)
}

// GetUserID returns the authenticated user id, if any.
func GetUserID(c *gin.Context) (string, bool) {
	if v, exists := c.Get(UserIDKey); exists {
		if id, ok := v.(string); ok && id != "" {
			return id, true
		}
	}
	return "", false
}
