package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"token-vault.backend/internal/domain/entities"
	domainerrors "token-vault.backend/internal/domain/errors"
	"token-vault.backend/internal/domain/repositories"
	"token-vault.backend/pkg/crypto"
	"token-vault.backend/pkg/logger"
)

// candidateLimit bounds the prefix lookup so a hot prefix cannot turn one
// authentication into an unbounded bcrypt scan.
const candidateLimit = 10

// ApiKeyUsecase issues and verifies tenant API keys. Verification is the
// only authentication surface of the service.
type ApiKeyUsecase struct {
	apiKeyRepo repositories.ApiKeyRepository
}

// NewApiKeyUsecase creates a new api key usecase
func NewApiKeyUsecase(apiKeyRepo repositories.ApiKeyRepository) *ApiKeyUsecase {
	return &ApiKeyUsecase{apiKeyRepo: apiKeyRepo}
}

// Issue mints a new key for the tenant. The full key appears only in the
// response; the store keeps the bcrypt hash and the lookup prefix.
func (u *ApiKeyUsecase) Issue(ctx context.Context, tenantID uuid.UUID, input *entities.CreateApiKeyInput) (*entities.CreateApiKeyResponse, error) {
	fullKey, keyHash, keyPrefix, err := crypto.GenerateAPIKey()
	if err != nil {
		return nil, domainerrors.InternalServerError("failed to generate key")
	}

	entity := &entities.ApiKey{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Name:      input.Name,
		KeyPrefix: keyPrefix,
		KeyHash:   keyHash,
		CreatedAt: time.Now().UTC(),
	}

	if err := u.apiKeyRepo.Create(ctx, entity); err != nil {
		return nil, err
	}

	return &entities.CreateApiKeyResponse{
		ID:        entity.ID,
		Name:      entity.Name,
		ApiKey:    fullKey, // Shown once
		KeyPrefix: keyPrefix,
		CreatedAt: entity.CreatedAt,
	}, nil
}

// Verify authenticates a presented key and returns the owning tenant.
// The errors it returns are collapsed by the HTTP layer into one generic
// 401; they are distinct here only for logging and tests.
func (u *ApiKeyUsecase) Verify(ctx context.Context, presented string) (*entities.Tenant, error) {
	if !strings.HasPrefix(presented, crypto.APIKeyPrefix) || len(presented) <= crypto.APIKeyLookupPrefixLen {
		return nil, domainerrors.ErrInvalidKeyFormat
	}

	prefix := presented[:crypto.APIKeyLookupPrefixLen]
	candidates, err := u.apiKeyRepo.FindByPrefix(ctx, prefix, candidateLimit)
	if err != nil {
		return nil, err
	}

	for _, candidate := range candidates {
		if !crypto.CheckAPIKey(presented, candidate.KeyHash) {
			continue
		}
		if candidate.Tenant == nil {
			logger.Warn(ctx, "api key matched but tenant missing", zap.String("key_id", candidate.ID.String()))
			return nil, domainerrors.ErrNoMatchingKey
		}
		if err := u.apiKeyRepo.UpdateLastUsed(ctx, candidate.ID, time.Now().UTC()); err != nil {
			// Authentication already succeeded; last_used is advisory.
			logger.Warn(ctx, "failed to update api key last_used", zap.String("key_id", candidate.ID.String()), zap.Error(err))
		}
		return candidate.Tenant, nil
	}

	return nil, domainerrors.ErrNoMatchingKey
}

// List returns the tenant's keys, revoked ones included
func (u *ApiKeyUsecase) List(ctx context.Context, tenantID uuid.UUID) ([]*entities.ApiKey, error) {
	return u.apiKeyRepo.FindByTenantID(ctx, tenantID)
}

// Revoke disables a key. Revocation is effective on the next verification;
// it does not cut off requests already in flight.
func (u *ApiKeyUsecase) Revoke(ctx context.Context, tenantID, keyID uuid.UUID) error {
	key, err := u.apiKeyRepo.FindByID(ctx, keyID)
	if err != nil {
		return err
	}
	if key == nil || key.TenantID != tenantID {
		return domainerrors.NotFound("api key not found")
	}
	if key.Revoked() {
		return nil // idempotent
	}
	return u.apiKeyRepo.Revoke(ctx, keyID, time.Now().UTC())
}
