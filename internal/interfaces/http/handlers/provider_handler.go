package handlers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"token-vault.backend/internal/interfaces/http/response"
	"token-vault.backend/internal/usecases"
)

// ProviderHandler exposes the configured OAuth providers
type ProviderHandler struct {
	registry *usecases.ProviderRegistry
}

// NewProviderHandler creates a new provider handler
func NewProviderHandler(registry *usecases.ProviderRegistry) *ProviderHandler {
	return &ProviderHandler{registry: registry}
}

// List returns the providers the vault can refresh against
// GET /api/v1/providers
func (h *ProviderHandler) List(c *gin.Context) {
	providers := h.registry.List()
	sort.Slice(providers, func(i, j int) bool { return providers[i].Name < providers[j].Name })
	response.Success(c, http.StatusOK, gin.H{"providers": providers})
}
