package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"token-vault.backend/internal/domain/entities"
	domainerrors "token-vault.backend/internal/domain/errors"
	domainrepo "token-vault.backend/internal/domain/repositories"
	"token-vault.backend/internal/infrastructure/models"
	"token-vault.backend/pkg/utils"
)

// TokenRepository implements token data operations
type TokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new token repository
func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// GetByID gets a token by ID
func (r *TokenRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Token, error) {
	var m models.Token
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return tokenToEntity(&m), nil
}

// GetByTenantKeyProvider gets a token by its addressable identity
func (r *TokenRepository) GetByTenantKeyProvider(ctx context.Context, tenantID uuid.UUID, key, provider string) (*entities.Token, error) {
	var m models.Token
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND key = ? AND provider = ?", tenantID, key, provider).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return tokenToEntity(&m), nil
}

// List lists a tenant's tokens with an optional provider filter
func (r *TokenRepository) List(ctx context.Context, tenantID uuid.UUID, provider string, pagination utils.PaginationParams) ([]*entities.Token, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Token{}).
		Where("tenant_id = ?", tenantID)
	if provider != "" {
		query = query.Where("provider = ?", provider)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if pagination.Limit > 0 {
		query = query.Limit(pagination.Limit).Offset(pagination.CalculateOffset())
	}

	var tokenModels []models.Token
	if err := query.Find(&tokenModels).Error; err != nil {
		return nil, 0, err
	}

	tokens := make([]*entities.Token, 0, len(tokenModels))
	for i := range tokenModels {
		tokens = append(tokens, tokenToEntity(&tokenModels[i]))
	}
	return tokens, total, nil
}

// ListExpiring returns refreshable tokens whose expiry lies in (now, threshold]
func (r *TokenRepository) ListExpiring(ctx context.Context, now, threshold time.Time) ([]*entities.Token, error) {
	var tokenModels []models.Token
	err := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL").
		Where("expires_at > ?", now).
		Where("expires_at <= ?", threshold).
		Where("refresh_token_encrypted IS NOT NULL AND refresh_token_encrypted <> ''").
		Find(&tokenModels).Error
	if err != nil {
		return nil, err
	}

	tokens := make([]*entities.Token, 0, len(tokenModels))
	for i := range tokenModels {
		tokens = append(tokens, tokenToEntity(&tokenModels[i]))
	}
	return tokens, nil
}

// Create creates a new token
func (r *TokenRepository) Create(ctx context.Context, token *entities.Token) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	m := tokenToModel(token)
	return r.db.WithContext(ctx).Create(m).Error
}

// Update replaces a token's mutable fields
func (r *TokenRepository) Update(ctx context.Context, token *entities.Token) error {
	updates := map[string]interface{}{
		"access_token_encrypted":  token.AccessTokenEncrypted,
		"refresh_token_encrypted": token.RefreshTokenEncrypted,
		"token_type":              token.TokenType,
		"scope":                   token.Scope.String,
		"updated_at":              time.Now().UTC(),
	}
	if token.ExpiresAt.Valid {
		updates["expires_at"] = token.ExpiresAt.Time
	} else {
		updates["expires_at"] = nil
	}

	result := r.db.WithContext(ctx).
		Model(&models.Token{}).
		Where("id = ?", token.ID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// UpdateRefreshed conditionally applies a refresh result. The WHERE clause on
// updated_at makes the write a compare-and-swap: if another refresh won the
// race, zero rows match and the caller must discard its result.
func (r *TokenRepository) UpdateRefreshed(ctx context.Context, id uuid.UUID, prevUpdatedAt time.Time, update domainrepo.RefreshUpdate) (bool, error) {
	updates := map[string]interface{}{
		"access_token_encrypted":  update.AccessTokenEncrypted,
		"refresh_token_encrypted": update.RefreshTokenEncrypted,
		"last_refreshed_at":       update.RefreshedAt,
		"updated_at":              update.RefreshedAt,
	}
	if update.ExpiresAt != nil {
		updates["expires_at"] = *update.ExpiresAt
	} else {
		updates["expires_at"] = nil
	}

	result := r.db.WithContext(ctx).
		Model(&models.Token{}).
		Where("id = ? AND updated_at = ?", id, prevUpdatedAt).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete removes a token
func (r *TokenRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Token{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func tokenToModel(t *entities.Token) *models.Token {
	m := &models.Token{
		ID:                    t.ID,
		TenantID:              t.TenantID,
		Key:                   t.Key,
		Provider:              t.Provider,
		AccessTokenEncrypted:  t.AccessTokenEncrypted,
		RefreshTokenEncrypted: t.RefreshTokenEncrypted,
		TokenType:             t.TokenType,
		Scope:                 t.Scope.String,
		CreatedAt:             t.CreatedAt,
		UpdatedAt:             t.UpdatedAt,
	}
	if t.ExpiresAt.Valid {
		expires := t.ExpiresAt.Time
		m.ExpiresAt = &expires
	}
	if t.LastRefreshedAt.Valid {
		refreshed := t.LastRefreshedAt.Time
		m.LastRefreshedAt = &refreshed
	}
	return m
}

func tokenToEntity(m *models.Token) *entities.Token {
	t := &entities.Token{
		ID:                    m.ID,
		TenantID:              m.TenantID,
		Key:                   m.Key,
		Provider:              m.Provider,
		AccessTokenEncrypted:  m.AccessTokenEncrypted,
		RefreshTokenEncrypted: m.RefreshTokenEncrypted,
		TokenType:             m.TokenType,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
	if m.ExpiresAt != nil {
		t.ExpiresAt = null.TimeFrom(*m.ExpiresAt)
	}
	if m.Scope != "" {
		t.Scope = null.StringFrom(m.Scope)
	}
	if m.LastRefreshedAt != nil {
		t.LastRefreshedAt = null.TimeFrom(*m.LastRefreshedAt)
	}
	return t
}
