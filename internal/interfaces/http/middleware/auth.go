package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"token-vault.backend/internal/domain/entities"
	"token-vault.backend/internal/usecases"
	"token-vault.backend/pkg/logger"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// TenantIDKey is the context key for the authenticated tenant ID
	TenantIDKey = "tenantId"
	// TenantKey is the context key for the authenticated tenant entity
	TenantKey = "tenant"
)

// AuthMiddleware authenticates requests with a tenant API key. Every
// failure mode answers with the same generic 401; the distinction between
// bad format, unknown key, and revoked key stays in the logs.
func AuthMiddleware(apiKeyUC *usecases.ApiKeyUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeader)
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			unauthorized(c)
			return
		}

		presented := strings.TrimPrefix(authHeader, BearerPrefix)
		tenant, err := apiKeyUC.Verify(c.Request.Context(), presented)
		if err != nil {
			logger.Debug(c.Request.Context(), "api key rejected",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			unauthorized(c)
			return
		}

		c.Set(TenantIDKey, tenant.ID)
		c.Set(TenantKey, tenant)
		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":    http.StatusUnauthorized,
		"message": "invalid api key",
	})
}

// GetTenantID gets the authenticated tenant ID from context
func GetTenantID(c *gin.Context) (uuid.UUID, bool) {
	tenantID, exists := c.Get(TenantIDKey)
	if !exists {
		return uuid.Nil, false
	}
	return tenantID.(uuid.UUID), true
}

// GetTenant gets the authenticated tenant from context
func GetTenant(c *gin.Context) (*entities.Tenant, bool) {
	tenant, exists := c.Get(TenantKey)
	if !exists {
		return nil, false
	}
	return tenant.(*entities.Tenant), true
}
