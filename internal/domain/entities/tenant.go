package entities

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionStatus is the billing state of a tenant
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionCanceled SubscriptionStatus = "canceled"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionTrialing SubscriptionStatus = "trialing"
)

// Tenant represents an account owning credentials
type Tenant struct {
	ID                 uuid.UUID          `json:"id"`
	Email              string             `json:"email"`
	Name               string             `json:"name,omitempty"`
	Plan               string             `json:"plan"`
	SubscriptionStatus SubscriptionStatus `json:"subscriptionStatus"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

type RegisterTenantInput struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
}

type RegisterTenantResponse struct {
	Tenant    *Tenant   `json:"tenant"`
	ApiKey    string    `json:"apiKey"` // Shown once
	KeyPrefix string    `json:"keyPrefix"`
	KeyID     uuid.UUID `json:"keyId"`
}
