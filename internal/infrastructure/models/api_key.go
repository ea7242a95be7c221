package models

import (
	"time"

	"github.com/google/uuid"
)

type ApiKey struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	TenantID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Name       string    `gorm:"type:varchar(255)"`
	KeyHash    string    `gorm:"type:varchar(255);uniqueIndex;not null"` // bcrypt
	KeyPrefix  string    `gorm:"type:varchar(20);not null;index"`        // "vk_live_abc"
	LastUsedAt *time.Time
	RevokedAt  *time.Time
	CreatedAt  time.Time

	Tenant Tenant `gorm:"foreignKey:TenantID"`
}

func (ApiKey) TableName() string { return "api_keys" }
