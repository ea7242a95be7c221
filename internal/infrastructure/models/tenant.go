package models

import (
	"time"

	"github.com/google/uuid"
)

type Tenant struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Email              string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name               string    `gorm:"type:varchar(255)"`
	Plan               string    `gorm:"type:varchar(50);default:'starter'"`
	SubscriptionStatus string    `gorm:"type:varchar(20);default:'trialing'"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (Tenant) TableName() string { return "tenants" }
