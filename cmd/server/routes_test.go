package main

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"token-vault.backend/internal/interfaces/http/handlers"
)

func TestRegisterRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	registerRoutes(r, routeDeps{
		authHandler:     &handlers.AuthHandler{},
		apiKeyHandler:   &handlers.ApiKeyHandler{},
		tokenHandler:    &handlers.TokenHandler{},
		webhookHandler:  &handlers.WebhookHandler{},
		providerHandler: &handlers.ProviderHandler{},
		healthHandler:   &handlers.HealthHandler{},
		authMiddleware:  func(c *gin.Context) { c.Next() },
	})

	registered := map[string]bool{}
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	expected := []string{
		"GET /health",
		"GET /metrics",
		"POST /api/v1/auth/register",
		"POST /api/v1/keys",
		"GET /api/v1/keys",
		"DELETE /api/v1/keys/:id",
		"POST /api/v1/tokens",
		"GET /api/v1/tokens",
		"GET /api/v1/tokens/:provider/:key",
		"PATCH /api/v1/tokens/:provider/:key",
		"DELETE /api/v1/tokens/:provider/:key",
		"POST /api/v1/webhooks",
		"GET /api/v1/webhooks",
		"DELETE /api/v1/webhooks/:id",
		"GET /api/v1/providers",
	}
	for _, route := range expected {
		assert.True(t, registered[route], "missing route %s", route)
	}
}
