package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ejournal/backend/internal/infrastructure/logger"
)

func setupPersonRouter(cfg PersonMiddlewareConfig) (*gin.Engine, *string, *string) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(PersonMiddlewareWithConfig(cfg))

	var ginPersonID, ctxPersonID string
	engine.GET("/api/v1/presence/claims", func(c *gin.Context) {
		ginPersonID = GetPersonID(c)
		ctxPersonID = logger.GetPersonID(c.Request.Context())
		c.Status(http.StatusOK)
	})
	engine.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine, &ginPersonID, &ctxPersonID
}

func TestPersonMiddleware_ExtractsHeader(t *testing.T) {
	engine, ginPersonID, ctxPersonID := setupPersonRouter(DefaultPersonConfig())

	personID := uuid.New().String()
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/presence/claims", nil)
	req.Header.Set(PersonHeaderKey, personID)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, personID, *ginPersonID)
	assert.Equal(t, personID, *ctxPersonID)
}

func TestPersonMiddleware_InvalidFormatRejected(t *testing.T) {
	engine, _, _ := setupPersonRouter(DefaultPersonConfig())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/presence/claims", nil)
	req.Header.Set(PersonHeaderKey, "not-a-uuid")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPersonMiddleware_RequiredMissingHeader(t *testing.T) {
	cfg := DefaultPersonConfig()
	cfg.Required = true
	engine, _, _ := setupPersonRouter(cfg)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/presence/claims", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPersonMiddleware_OptionalMissingHeader(t *testing.T) {
	engine, ginPersonID, _ := setupPersonRouter(DefaultPersonConfig())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/presence/claims", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, *ginPersonID)
}

func TestPersonMiddleware_SkipPaths(t *testing.T) {
	cfg := DefaultPersonConfig()
	cfg.Required = true
	engine, _, _ := setupPersonRouter(cfg)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
