package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"token-vault.backend/internal/domain/entities"
	domainerrors "token-vault.backend/internal/domain/errors"
	"token-vault.backend/internal/infrastructure/models"
)

// ApiKeyRepository implements api key data operations
type ApiKeyRepository struct {
	db *gorm.DB
}

// NewApiKeyRepository creates a new api key repository
func NewApiKeyRepository(db *gorm.DB) *ApiKeyRepository {
	return &ApiKeyRepository{db: db}
}

// Create creates a new api key
func (r *ApiKeyRepository) Create(ctx context.Context, apiKey *entities.ApiKey) error {
	if apiKey.ID == uuid.Nil {
		apiKey.ID = uuid.New()
	}
	m := &models.ApiKey{
		ID:        apiKey.ID,
		TenantID:  apiKey.TenantID,
		Name:      apiKey.Name,
		KeyHash:   apiKey.KeyHash,
		KeyPrefix: apiKey.KeyPrefix,
		CreatedAt: apiKey.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(m).Error
}

// FindByPrefix returns non-revoked keys sharing the lookup prefix, bounded
// by limit, with the owning tenant preloaded.
func (r *ApiKeyRepository) FindByPrefix(ctx context.Context, prefix string, limit int) ([]*entities.ApiKey, error) {
	var keyModels []models.ApiKey
	err := r.db.WithContext(ctx).
		Preload("Tenant").
		Where("key_prefix = ? AND revoked_at IS NULL", prefix).
		Limit(limit).
		Find(&keyModels).Error
	if err != nil {
		return nil, err
	}

	keys := make([]*entities.ApiKey, 0, len(keyModels))
	for i := range keyModels {
		keys = append(keys, apiKeyToEntity(&keyModels[i]))
	}
	return keys, nil
}

// FindByTenantID returns all keys belonging to a tenant, newest first
func (r *ApiKeyRepository) FindByTenantID(ctx context.Context, tenantID uuid.UUID) ([]*entities.ApiKey, error) {
	var keyModels []models.ApiKey
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&keyModels).Error
	if err != nil {
		return nil, err
	}

	keys := make([]*entities.ApiKey, 0, len(keyModels))
	for i := range keyModels {
		keys = append(keys, apiKeyToEntity(&keyModels[i]))
	}
	return keys, nil
}

// FindByID gets an api key by ID
func (r *ApiKeyRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.ApiKey, error) {
	var m models.ApiKey
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return apiKeyToEntity(&m), nil
}

// UpdateLastUsed stamps the key's last use time
func (r *ApiKeyRepository) UpdateLastUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.ApiKey{}).
		Where("id = ?", id).
		Update("last_used_at", usedAt).Error
}

// Revoke marks an api key as revoked
func (r *ApiKeyRepository) Revoke(ctx context.Context, id uuid.UUID, revokedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.ApiKey{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", revokedAt)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func apiKeyToEntity(m *models.ApiKey) *entities.ApiKey {
	e := &entities.ApiKey{
		ID:         m.ID,
		TenantID:   m.TenantID,
		Name:       m.Name,
		KeyPrefix:  m.KeyPrefix,
		KeyHash:    m.KeyHash,
		LastUsedAt: m.LastUsedAt,
		RevokedAt:  m.RevokedAt,
		CreatedAt:  m.CreatedAt,
	}
	if m.Tenant.ID != uuid.Nil {
		e.Tenant = tenantToEntity(&m.Tenant)
	}
	return e
}
