package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"token-vault.backend/internal/domain/entities"
	domainerrors "token-vault.backend/internal/domain/errors"
	"token-vault.backend/internal/interfaces/http/middleware"
	"token-vault.backend/internal/interfaces/http/response"
	"token-vault.backend/internal/usecases"
	"token-vault.backend/pkg/utils"
)

// TokenHandler handles token vault endpoints
type TokenHandler struct {
	tokenUsecase *usecases.TokenUsecase
}

// NewTokenHandler creates a new token handler
func NewTokenHandler(tokenUsecase *usecases.TokenUsecase) *TokenHandler {
	return &TokenHandler{tokenUsecase: tokenUsecase}
}

// Store upserts a token for (tenant, key, provider)
// POST /api/v1/tokens
func (h *TokenHandler) Store(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("unauthorized"))
		return
	}

	var input entities.StoreTokenInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	token, err := h.tokenUsecase.Store(c.Request.Context(), tenantID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, token)
}

// Get returns a token with its decrypted access token
// GET /api/v1/tokens/:provider/:key
func (h *TokenHandler) Get(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("unauthorized"))
		return
	}

	detail, err := h.tokenUsecase.Get(c.Request.Context(), tenantID, c.Param("key"), c.Param("provider"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, detail)
}

// List returns token metadata for the tenant, never secrets
// GET /api/v1/tokens?provider=&page=&limit=
func (h *TokenHandler) List(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("unauthorized"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	pagination := utils.GetPaginationParams(page, limit)

	tokens, meta, err := h.tokenUsecase.List(c.Request.Context(), tenantID, c.Query("provider"), pagination)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"tokens":     tokens,
		"pagination": meta,
	})
}

// Update partially updates a stored token
// PATCH /api/v1/tokens/:provider/:key
func (h *TokenHandler) Update(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("unauthorized"))
		return
	}

	var input entities.UpdateTokenInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	token, err := h.tokenUsecase.Update(c.Request.Context(), tenantID, c.Param("key"), c.Param("provider"), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, token)
}

// Delete removes a token
// DELETE /api/v1/tokens/:provider/:key
func (h *TokenHandler) Delete(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("unauthorized"))
		return
	}

	if err := h.tokenUsecase.Delete(c.Request.Context(), tenantID, c.Param("key"), c.Param("provider")); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "token deleted"})
}
