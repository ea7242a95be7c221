package entities

import (
	"time"

	"github.com/google/uuid"
)

// ApiKey represents a bearer credential for a tenant. Only the bcrypt hash
// and the short lookup prefix are persisted; the full key is shown once.
type ApiKey struct {
	ID         uuid.UUID  `json:"id"`
	TenantID   uuid.UUID  `json:"tenantId"`
	Name       string     `json:"name,omitempty"`
	KeyPrefix  string     `json:"keyPrefix"`
	KeyHash    string     `json:"-"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
	RevokedAt  *time.Time `json:"revokedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`

	// Relationships
	Tenant *Tenant `json:"-"`
}

// Revoked reports whether the key has been revoked
func (k *ApiKey) Revoked() bool {
	return k.RevokedAt != nil
}

type CreateApiKeyInput struct {
	Name string `json:"name"`
}

type CreateApiKeyResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name,omitempty"`
	ApiKey    string    `json:"apiKey"` // Shown once
	KeyPrefix string    `json:"keyPrefix"`
	CreatedAt time.Time `json:"createdAt"`
}
