package models

import (
	"time"

	"github.com/google/uuid"
)

type Webhook struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;index"`
	URL      string    `gorm:"type:varchar(500);not null"`
	Secret   string    `gorm:"type:varchar(255)"`
	Events   string    `gorm:"type:text;not null"` // JSON array of event names
	Enabled  bool      `gorm:"default:true;not null"`
	CreatedAt time.Time

	Tenant Tenant `gorm:"foreignKey:TenantID"`
}

func (Webhook) TableName() string { return "webhooks" }
