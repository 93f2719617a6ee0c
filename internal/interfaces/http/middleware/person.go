package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ejournal/backend/internal/infrastructure/logger"
)

// Person context keys
const (
	PersonIDKey     = "person_id"
	PersonHeaderKey = "X-Person-ID"
)

// PersonMiddlewareConfig holds configuration for person middleware
type PersonMiddlewareConfig struct {
	// SkipPaths are paths that don't require an acting person (e.g. health check)
	SkipPaths []string
	// Required determines whether an unidentified request is rejected
	Required bool
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultPersonConfig returns default person middleware configuration
func DefaultPersonConfig() PersonMiddlewareConfig {
	return PersonMiddlewareConfig{
		SkipPaths: []string{"/health", "/healthz", "/ready", "/api/v1/system"},
		Required:  false,
	}
}

// PersonMiddleware extracts the acting person from the X-Person-ID header.
// Authentication happens upstream at the gateway; the engine trusts the
// header and threads the identity through the request context for logging.
func PersonMiddleware() gin.HandlerFunc {
	return PersonMiddlewareWithConfig(DefaultPersonConfig())
}

// PersonMiddlewareWithConfig returns person middleware with custom configuration
func PersonMiddlewareWithConfig(cfg PersonMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath || strings.HasPrefix(path, skipPath+"/") {
				c.Next()
				return
			}
		}

		personID := c.GetHeader(PersonHeaderKey)

		if personID != "" {
			if _, err := uuid.Parse(personID); err != nil {
				respondUnauthorized(c, "Invalid person ID format")
				return
			}
		}

		if personID == "" && cfg.Required {
			respondUnauthorized(c, "Person identification required")
			return
		}

		if personID != "" {
			c.Set(PersonIDKey, personID)

			ctx := logger.WithPersonID(c.Request.Context(), personID)
			c.Request = c.Request.WithContext(ctx)

			if cfg.Logger != nil {
				cfg.Logger.Debug("Person identified", zap.String("person_id", personID))
			}
		}

		c.Next()
	}
}

// respondUnauthorized sends an unauthorized response
func respondUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
}

// GetPersonID retrieves the person ID from gin.Context
func GetPersonID(c *gin.Context) string {
	if personID, exists := c.Get(PersonIDKey); exists {
		if pid, ok := personID.(string); ok {
			return pid
		}
	}
	return ""
}

// GetPersonUUID retrieves the person ID as UUID from gin.Context
func GetPersonUUID(c *gin.Context) (uuid.UUID, error) {
	personID := GetPersonID(c)
	if personID == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(personID)
}
