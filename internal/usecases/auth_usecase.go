package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"token-vault.backend/internal/domain/entities"
	domainerrors "token-vault.backend/internal/domain/errors"
	"token-vault.backend/internal/domain/repositories"
)

// AuthUsecase handles tenant registration
type AuthUsecase struct {
	tenantRepo repositories.TenantRepository
	apiKeyUC   *ApiKeyUsecase
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(tenantRepo repositories.TenantRepository, apiKeyUC *ApiKeyUsecase) *AuthUsecase {
	return &AuthUsecase{tenantRepo: tenantRepo, apiKeyUC: apiKeyUC}
}

// RegisterTenant creates a tenant and issues its first API key. The key is
// returned once and cannot be recovered afterwards.
func (u *AuthUsecase) RegisterTenant(ctx context.Context, input *entities.RegisterTenantInput) (*entities.RegisterTenantResponse, error) {
	existing, err := u.tenantRepo.GetByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domainerrors.Conflict("email already registered")
	}

	now := time.Now().UTC()
	tenant := &entities.Tenant{
		ID:                 uuid.New(),
		Email:              input.Email,
		Name:               input.Name,
		Plan:               "free",
		SubscriptionStatus: entities.SubscriptionActive,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := u.tenantRepo.Create(ctx, tenant); err != nil {
		return nil, err
	}

	keyResp, err := u.apiKeyUC.Issue(ctx, tenant.ID, &entities.CreateApiKeyInput{Name: "default"})
	if err != nil {
		return nil, err
	}

	return &entities.RegisterTenantResponse{
		Tenant:    tenant,
		ApiKey:    keyResp.ApiKey,
		KeyPrefix: keyResp.KeyPrefix,
		KeyID:     keyResp.ID,
	}, nil
}
