package usecases_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"token-vault.backend/internal/domain/entities"
	domainerrors "token-vault.backend/internal/domain/errors"
	"token-vault.backend/internal/usecases"
)

func TestRegisterTenant(t *testing.T) {
	tenantRepo := new(MockTenantRepository)
	apiKeyRepo := new(MockApiKeyRepository)
	uc := usecases.NewAuthUsecase(tenantRepo, usecases.NewApiKeyUsecase(apiKeyRepo))

	tenantRepo.On("GetByEmail", mock.Anything, "new@example.com").Return(nil, domainerrors.ErrNotFound)
	tenantRepo.On("Create", mock.Anything, mock.AnythingOfType("*entities.Tenant")).Return(nil)
	apiKeyRepo.On("Create", mock.Anything, mock.AnythingOfType("*entities.ApiKey")).Return(nil)

	resp, err := uc.RegisterTenant(context.Background(), &entities.RegisterTenantInput{
		Email: "new@example.com",
		Name:  "Acme",
	})
	require.NoError(t, err)

	assert.Equal(t, "new@example.com", resp.Tenant.Email)
	assert.Equal(t, "free", resp.Tenant.Plan)
	assert.Equal(t, entities.SubscriptionActive, resp.Tenant.SubscriptionStatus)
	assert.NotEmpty(t, resp.ApiKey)
	assert.NotEmpty(t, resp.KeyPrefix)
}

func TestRegisterTenant_DuplicateEmail(t *testing.T) {
	tenantRepo := new(MockTenantRepository)
	apiKeyRepo := new(MockApiKeyRepository)
	uc := usecases.NewAuthUsecase(tenantRepo, usecases.NewApiKeyUsecase(apiKeyRepo))

	tenantRepo.On("GetByEmail", mock.Anything, "taken@example.com").
		Return(&entities.Tenant{Email: "taken@example.com"}, nil)

	_, err := uc.RegisterTenant(context.Background(), &entities.RegisterTenantInput{Email: "taken@example.com"})
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
	tenantRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
