package usecases

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"token-vault.backend/internal/config"
	"token-vault.backend/internal/domain/entities"
	domainerrors "token-vault.backend/internal/domain/errors"
	"token-vault.backend/internal/domain/repositories"
	"token-vault.backend/pkg/logger"
	"token-vault.backend/pkg/metrics"
)

// Delays before retry attempts 2 and 3. Only 5xx responses and transport
// errors are retried; anything below 500 is treated as the endpoint's final
// answer.
var webhookRetryDelays = []time.Duration{1 * time.Second, 5 * time.Second, 15 * time.Second}

const (
	signatureHeader = "X-Vault-Signature"
	eventHeader     = "X-Vault-Event"
)

// DeliveryResult records the outcome of one webhook delivery, after all
// attempts. Dispatch never returns an error to its caller; failures live
// here instead.
type DeliveryResult struct {
	WebhookID  uuid.UUID `json:"webhookId"`
	URL        string    `json:"url"`
	Event      string    `json:"event"`
	Success    bool      `json:"success"`
	StatusCode int       `json:"statusCode,omitempty"`
	Attempts   int       `json:"attempts"`
	Error      string    `json:"error,omitempty"`
}

// WebhookUsecase manages webhook registrations and dispatches lifecycle
// events to them.
type WebhookUsecase struct {
	webhookRepo repositories.WebhookRepository
	client      *http.Client
	maxAttempts int
}

// NewWebhookUsecase creates a new webhook usecase
func NewWebhookUsecase(webhookRepo repositories.WebhookRepository, cfg config.WebhookConfig) *WebhookUsecase {
	maxAttempts := cfg.MaxRetries
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &WebhookUsecase{
		webhookRepo: webhookRepo,
		client:      &http.Client{Timeout: cfg.Timeout},
		maxAttempts: maxAttempts,
	}
}

var knownEvents = map[string]bool{
	entities.EventTokenCreated:       true,
	entities.EventTokenRefreshed:     true,
	entities.EventTokenRefreshFailed: true,
	entities.EventTokenDeleted:       true,
}

// Create registers a webhook endpoint. An empty event list subscribes to
// every lifecycle event.
func (u *WebhookUsecase) Create(ctx context.Context, tenantID uuid.UUID, input *entities.CreateWebhookInput) (*entities.Webhook, error) {
	events := input.Events
	if len(events) == 0 {
		events = []string{
			entities.EventTokenCreated,
			entities.EventTokenRefreshed,
			entities.EventTokenRefreshFailed,
			entities.EventTokenDeleted,
		}
	}
	for _, e := range events {
		if !knownEvents[e] {
			return nil, domainerrors.BadRequest(fmt.Sprintf("unknown event: %s", e))
		}
	}

	webhook := &entities.Webhook{
		ID:        uuid.New(),
		TenantID:  tenantID,
		URL:       input.URL,
		Secret:    input.Secret,
		Events:    events,
		Enabled:   true,
		CreatedAt: time.Now().UTC(),
	}

	if err := u.webhookRepo.Create(ctx, webhook); err != nil {
		return nil, err
	}
	return webhook, nil
}

// List returns the tenant's webhooks
func (u *WebhookUsecase) List(ctx context.Context, tenantID uuid.UUID) ([]*entities.Webhook, error) {
	return u.webhookRepo.ListByTenant(ctx, tenantID)
}

// Delete removes a webhook owned by the tenant
func (u *WebhookUsecase) Delete(ctx context.Context, tenantID, webhookID uuid.UUID) error {
	webhook, err := u.webhookRepo.FindByID(ctx, webhookID)
	if err != nil {
		return err
	}
	if webhook == nil || webhook.TenantID != tenantID {
		return domainerrors.NotFound("webhook not found")
	}
	return u.webhookRepo.Delete(ctx, webhookID)
}

// TriggerEvent delivers the event to every subscribed webhook of the tenant
// and returns one result per endpoint. Endpoints are independent; one
// failing never blocks or aborts the others. Dispatch errors are reported
// in the results, never raised.
func (u *WebhookUsecase) TriggerEvent(ctx context.Context, tenantID uuid.UUID, event string, data map[string]interface{}) []DeliveryResult {
	webhooks, err := u.webhookRepo.ListForEvent(ctx, tenantID, event)
	if err != nil {
		logger.Error(ctx, "failed to list webhooks for event", zap.String("event", event), zap.Error(err))
		return nil
	}
	if len(webhooks) == 0 {
		return nil
	}

	body, ts, err := buildEnvelope(event, data)
	if err != nil {
		logger.Error(ctx, "failed to build webhook envelope", zap.String("event", event), zap.Error(err))
		return nil
	}

	results := make([]DeliveryResult, len(webhooks))
	var wg sync.WaitGroup
	for i, webhook := range webhooks {
		wg.Add(1)
		go func(i int, webhook *entities.Webhook) {
			defer wg.Done()
			results[i] = u.deliver(ctx, webhook, event, body, ts)
		}(i, webhook)
	}
	wg.Wait()

	for _, r := range results {
		if !r.Success {
			logger.Warn(ctx, "webhook delivery failed",
				zap.String("event", event),
				zap.String("url", r.URL),
				zap.Int("attempts", r.Attempts),
				zap.Int("status_code", r.StatusCode),
				zap.String("error", r.Error),
			)
		}
		metrics.RecordWebhookDelivery(event, r.Success)
	}
	return results
}

// TriggerEventAsync dispatches in the background, detached from the calling
// request's lifetime.
func (u *WebhookUsecase) TriggerEventAsync(tenantID uuid.UUID, event string, data map[string]interface{}) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		u.TriggerEvent(ctx, tenantID, event, data)
	}()
}

// deliver posts the envelope with retries. Attempts beyond the first happen
// only after a 5xx response or a transport error.
func (u *WebhookUsecase) deliver(ctx context.Context, webhook *entities.Webhook, event string, body []byte, ts int64) DeliveryResult {
	result := DeliveryResult{
		WebhookID: webhook.ID,
		URL:       webhook.URL,
		Event:     event,
	}

	for attempt := 0; attempt < u.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := webhookRetryDelays[len(webhookRetryDelays)-1]
			if attempt-1 < len(webhookRetryDelays) {
				delay = webhookRetryDelays[attempt-1]
			}
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				result.Error = ctx.Err().Error()
				return result
			}
		}
		result.Attempts = attempt + 1

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhook.URL, bytes.NewReader(body))
		if err != nil {
			result.Error = err.Error()
			return result
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(eventHeader, event)
		if webhook.Secret != "" {
			req.Header.Set(signatureHeader, fmt.Sprintf("t=%d,v1=%s", ts, signEnvelope(webhook.Secret, ts, body)))
		}

		resp, err := u.client.Do(req)
		if err != nil {
			result.Error = err.Error()
			continue
		}
		resp.Body.Close()
		result.StatusCode = resp.StatusCode

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			result.Success = true
			result.Error = ""
			return result
		}
		result.Error = fmt.Sprintf("endpoint returned %d", resp.StatusCode)
		if resp.StatusCode < 500 {
			// The endpoint answered; retrying would not change its mind.
			return result
		}
	}
	return result
}

// buildEnvelope serializes the event payload. json.Marshal emits map keys
// in sorted order, so the bytes are canonical and both sides can compute
// the same signature.
func buildEnvelope(event string, data map[string]interface{}) ([]byte, int64, error) {
	now := time.Now().UTC()
	envelope := map[string]interface{}{
		"event":     event,
		"timestamp": now.Format(time.RFC3339),
		"data":      data,
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		return nil, 0, err
	}
	return body, now.Unix(), nil
}

// signEnvelope computes the v1 signature: HMAC-SHA256 over "<ts>.<body>".
// Binding the timestamp into the MAC lets receivers reject replays.
func signEnvelope(secret string, ts int64, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
