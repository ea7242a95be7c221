package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"token-vault.backend/internal/domain/entities"
)

type ApiKeyRepository interface {
	Create(ctx context.Context, apiKey *entities.ApiKey) error
	// FindByPrefix returns up to limit non-revoked keys sharing the lookup
	// prefix, with the owning tenant populated.
	FindByPrefix(ctx context.Context, prefix string, limit int) ([]*entities.ApiKey, error)
	FindByTenantID(ctx context.Context, tenantID uuid.UUID) ([]*entities.ApiKey, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entities.ApiKey, error)
	UpdateLastUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error
	Revoke(ctx context.Context, id uuid.UUID, revokedAt time.Time) error
}
