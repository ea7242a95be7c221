package repositories

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"token-vault.backend/internal/domain/entities"
	domainerrors "token-vault.backend/internal/domain/errors"
	"token-vault.backend/internal/infrastructure/models"
)

// WebhookRepository implements webhook data operations
type WebhookRepository struct {
	db *gorm.DB
}

// NewWebhookRepository creates a new webhook repository
func NewWebhookRepository(db *gorm.DB) *WebhookRepository {
	return &WebhookRepository{db: db}
}

// Create creates a new webhook subscription
func (r *WebhookRepository) Create(ctx context.Context, webhook *entities.Webhook) error {
	if webhook.ID == uuid.Nil {
		webhook.ID = uuid.New()
	}
	events, err := json.Marshal(webhook.Events)
	if err != nil {
		return err
	}
	m := &models.Webhook{
		ID:        webhook.ID,
		TenantID:  webhook.TenantID,
		URL:       webhook.URL,
		Secret:    webhook.Secret,
		Events:    string(events),
		Enabled:   webhook.Enabled,
		CreatedAt: webhook.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(m).Error
}

// FindByID gets a webhook by ID
func (r *WebhookRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Webhook, error) {
	var m models.Webhook
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return webhookToEntity(&m), nil
}

// ListByTenant returns all webhooks for a tenant
func (r *WebhookRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*entities.Webhook, error) {
	var webhookModels []models.Webhook
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&webhookModels).Error
	if err != nil {
		return nil, err
	}

	webhooks := make([]*entities.Webhook, 0, len(webhookModels))
	for i := range webhookModels {
		webhooks = append(webhooks, webhookToEntity(&webhookModels[i]))
	}
	return webhooks, nil
}

// ListForEvent returns the tenant's enabled webhooks subscribed to event.
// Event membership is filtered in Go so the JSON column stays portable
// between postgres and the sqlite used in tests.
func (r *WebhookRepository) ListForEvent(ctx context.Context, tenantID uuid.UUID, event string) ([]*entities.Webhook, error) {
	var webhookModels []models.Webhook
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND enabled = ?", tenantID, true).
		Find(&webhookModels).Error
	if err != nil {
		return nil, err
	}

	var webhooks []*entities.Webhook
	for i := range webhookModels {
		w := webhookToEntity(&webhookModels[i])
		if w.SubscribedTo(event) {
			webhooks = append(webhooks, w)
		}
	}
	return webhooks, nil
}

// Delete removes a webhook subscription
func (r *WebhookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Webhook{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func webhookToEntity(m *models.Webhook) *entities.Webhook {
	var events []string
	if m.Events != "" {
		// A corrupt events column means no subscriptions, not a failure.
		_ = json.Unmarshal([]byte(m.Events), &events)
	}
	return &entities.Webhook{
		ID:        m.ID,
		TenantID:  m.TenantID,
		URL:       m.URL,
		Secret:    m.Secret,
		Events:    events,
		Enabled:   m.Enabled,
		CreatedAt: m.CreatedAt,
	}
}
