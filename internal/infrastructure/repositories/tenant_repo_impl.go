package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"token-vault.backend/internal/domain/entities"
	domainerrors "token-vault.backend/internal/domain/errors"
	"token-vault.backend/internal/infrastructure/models"
)

// TenantRepository implements tenant data operations
type TenantRepository struct {
	db *gorm.DB
}

// NewTenantRepository creates a new tenant repository
func NewTenantRepository(db *gorm.DB) *TenantRepository {
	return &TenantRepository{db: db}
}

// Create creates a new tenant
func (r *TenantRepository) Create(ctx context.Context, tenant *entities.Tenant) error {
	if tenant.ID == uuid.Nil {
		tenant.ID = uuid.New()
	}
	m := &models.Tenant{
		ID:                 tenant.ID,
		Email:              tenant.Email,
		Name:               tenant.Name,
		Plan:               tenant.Plan,
		SubscriptionStatus: string(tenant.SubscriptionStatus),
		CreatedAt:          tenant.CreatedAt,
		UpdatedAt:          tenant.UpdatedAt,
	}
	return r.db.WithContext(ctx).Create(m).Error
}

// GetByID gets a tenant by ID
func (r *TenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Tenant, error) {
	var m models.Tenant
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return tenantToEntity(&m), nil
}

// GetByEmail gets a tenant by email
func (r *TenantRepository) GetByEmail(ctx context.Context, email string) (*entities.Tenant, error) {
	var m models.Tenant
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return tenantToEntity(&m), nil
}

func tenantToEntity(m *models.Tenant) *entities.Tenant {
	return &entities.Tenant{
		ID:                 m.ID,
		Email:              m.Email,
		Name:               m.Name,
		Plan:               m.Plan,
		SubscriptionStatus: entities.SubscriptionStatus(m.SubscriptionStatus),
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}
