package models

import (
	"time"

	"github.com/google/uuid"
)

type Token struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_tenant_key_provider"`
	Key      string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_tenant_key_provider"`
	Provider string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_tenant_key_provider"`

	AccessTokenEncrypted  string `gorm:"type:text;not null"`
	RefreshTokenEncrypted string `gorm:"type:text"`

	TokenType string `gorm:"type:varchar(50);default:'Bearer'"`
	ExpiresAt *time.Time `gorm:"index"`
	Scope     string     `gorm:"type:text"`

	CreatedAt       time.Time
	UpdatedAt       time.Time
	LastRefreshedAt *time.Time

	Tenant Tenant `gorm:"foreignKey:TenantID"`
}

func (Token) TableName() string { return "tokens" }
