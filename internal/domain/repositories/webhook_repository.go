package repositories

import (
	"context"

	"github.com/google/uuid"
	"token-vault.backend/internal/domain/entities"
)

type WebhookRepository interface {
	Create(ctx context.Context, webhook *entities.Webhook) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Webhook, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*entities.Webhook, error)
	// ListForEvent returns the tenant's enabled webhooks subscribed to event.
	ListForEvent(ctx context.Context, tenantID uuid.UUID, event string) ([]*entities.Webhook, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
