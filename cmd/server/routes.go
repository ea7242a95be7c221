package main

import (
	"github.com/gin-gonic/gin"

	"token-vault.backend/internal/interfaces/http/handlers"
	"token-vault.backend/pkg/metrics"
)

type routeDeps struct {
	authHandler     *handlers.AuthHandler
	apiKeyHandler   *handlers.ApiKeyHandler
	tokenHandler    *handlers.TokenHandler
	webhookHandler  *handlers.WebhookHandler
	providerHandler *handlers.ProviderHandler
	healthHandler   *handlers.HealthHandler
	authMiddleware  gin.HandlerFunc
}

func registerRoutes(r *gin.Engine, d routeDeps) {
	r.GET("/health", d.healthHandler.Check)
	r.GET("/metrics", metrics.Handler())

	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", d.authHandler.Register)
		}

		// API key management (protected)
		keys := v1.Group("/keys")
		keys.Use(d.authMiddleware)
		{
			keys.POST("", d.apiKeyHandler.Create)
			keys.GET("", d.apiKeyHandler.List)
			keys.DELETE("/:id", d.apiKeyHandler.Revoke)
		}

		// Token vault (protected)
		tokens := v1.Group("/tokens")
		tokens.Use(d.authMiddleware)
		{
			tokens.POST("", d.tokenHandler.Store)
			tokens.GET("", d.tokenHandler.List)
			tokens.GET("/:provider/:key", d.tokenHandler.Get)
			tokens.PATCH("/:provider/:key", d.tokenHandler.Update)
			tokens.DELETE("/:provider/:key", d.tokenHandler.Delete)
		}

		// Webhook registrations (protected)
		webhooks := v1.Group("/webhooks")
		webhooks.Use(d.authMiddleware)
		{
			webhooks.POST("", d.webhookHandler.Create)
			webhooks.GET("", d.webhookHandler.List)
			webhooks.DELETE("/:id", d.webhookHandler.Delete)
		}

		// Provider catalog (protected)
		providers := v1.Group("/providers")
		providers.Use(d.authMiddleware)
		{
			providers.GET("", d.providerHandler.List)
		}
	}
}
