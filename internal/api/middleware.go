package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"order-api/internal/models"
	"order-api/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by the auth gate
const (
	CtxUserIDKey       = "user_id"
	CtxSessionTokenKey = "session_token"
)

// TokenValidator resolves a bearer token to its session, nil when invalid.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (*models.Session, error)
}

// AuthRequired guards every order route. The header is accepted either as a
// raw token or in Bearer form. Internal faults never escape as anything but
// a generic 500.
func AuthRequired(sessions TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			util.TokenRejectionsTotal.WithLabelValues("missing").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token not provided."})
			return
		}

		token := authHeader
		if strings.HasPrefix(authHeader, "Bearer") {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 {
				token = parts[1]
			} else {
				token = ""
			}
		}

		session, err := sessions.Validate(c.Request.Context(), token)
		if err != nil {
			util.GetLogger().Error("Token validation failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error."})
			return
		}

		if session == nil {
			util.TokenRejectionsTotal.WithLabelValues("invalid").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(CtxUserIDKey, session.UserID)
		c.Set(CtxSessionTokenKey, session.Token)
		c.Next()
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
