package entities

import (
	"time"

	"github.com/google/uuid"
)

// Lifecycle event names delivered to webhooks
const (
	EventTokenCreated       = "token.created"
	EventTokenRefreshed     = "token.refreshed"
	EventTokenRefreshFailed = "token.refresh_failed"
	EventTokenDeleted       = "token.deleted"
)

// Webhook is a tenant-registered endpoint subscribed to lifecycle events
type Webhook struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenantId"`
	URL       string    `json:"url"`
	Secret    string    `json:"-"` // empty means unsigned deliveries
	Events    []string  `json:"events"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"createdAt"`
}

// SubscribedTo reports whether the webhook subscribes to the given event
func (w *Webhook) SubscribedTo(event string) bool {
	for _, e := range w.Events {
		if e == event {
			return true
		}
	}
	return false
}

type CreateWebhookInput struct {
	URL    string   `json:"url" binding:"required,url"`
	Secret string   `json:"secret"`
	Events []string `json:"events"`
}
