package repositories

import (
	"context"

	"github.com/google/uuid"
	"token-vault.backend/internal/domain/entities"
)

type TenantRepository interface {
	Create(ctx context.Context, tenant *entities.Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Tenant, error)
	GetByEmail(ctx context.Context, email string) (*entities.Tenant, error)
}
