package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// Token is an OAuth credential for one (tenant, key, provider) triple. The
// triple is the addressable identity of the credential. The encrypted fields
// are opaque outside pkg/crypto.
type Token struct {
	ID                    uuid.UUID   `json:"id"`
	TenantID              uuid.UUID   `json:"tenantId"`
	Key                   string      `json:"key"` // caller-chosen, e.g. "user:123"
	Provider              string      `json:"provider"`
	AccessTokenEncrypted  string      `json:"-"`
	RefreshTokenEncrypted string      `json:"-"` // empty when the provider issued none
	TokenType             string      `json:"tokenType"`
	ExpiresAt             null.Time   `json:"expiresAt,omitempty"`
	Scope                 null.String `json:"scope,omitempty"`
	CreatedAt             time.Time   `json:"createdAt"`
	UpdatedAt             time.Time   `json:"updatedAt"`
	LastRefreshedAt       null.Time   `json:"lastRefreshedAt,omitempty"`
}

// Refreshable reports whether the token can be proactively refreshed
func (t *Token) Refreshable() bool {
	return t.RefreshTokenEncrypted != "" && t.ExpiresAt.Valid
}

type StoreTokenInput struct {
	Key          string `json:"key" binding:"required"`
	Provider     string `json:"provider" binding:"required"`
	AccessToken  string `json:"accessToken" binding:"required"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int64  `json:"expiresIn"` // seconds; 0 means no known expiry
	Scope        string `json:"scope"`
}

type UpdateTokenInput struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
	Scope        string `json:"scope"`
}

// TokenDetail is a token together with its decrypted access token
type TokenDetail struct {
	Token       *Token `json:"token"`
	AccessToken string `json:"accessToken"`
}
