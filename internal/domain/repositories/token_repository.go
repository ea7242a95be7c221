package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"token-vault.backend/internal/domain/entities"
	"token-vault.backend/pkg/utils"
)

// RefreshUpdate carries the fields replaced atomically by a successful
// refresh. Either all of them are applied or none.
type RefreshUpdate struct {
	AccessTokenEncrypted  string
	RefreshTokenEncrypted string
	ExpiresAt             *time.Time
	RefreshedAt           time.Time
}

// TokenRepository defines credential store operations for tokens
type TokenRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Token, error)
	GetByTenantKeyProvider(ctx context.Context, tenantID uuid.UUID, key, provider string) (*entities.Token, error)
	List(ctx context.Context, tenantID uuid.UUID, provider string, pagination utils.PaginationParams) ([]*entities.Token, int64, error)
	// ListExpiring returns tokens with a refresh secret whose expiry lies in
	// (now, threshold]. Tokens without a refresh secret are never returned.
	ListExpiring(ctx context.Context, now, threshold time.Time) ([]*entities.Token, error)
	Create(ctx context.Context, token *entities.Token) error
	Update(ctx context.Context, token *entities.Token) error
	// UpdateRefreshed conditionally applies a refresh result, keyed on the
	// updated_at value read before the refresh started. It returns false when
	// the row changed in the meantime and the update was not applied.
	UpdateRefreshed(ctx context.Context, id uuid.UUID, prevUpdatedAt time.Time, update RefreshUpdate) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
