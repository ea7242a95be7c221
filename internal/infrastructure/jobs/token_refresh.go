package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"token-vault.backend/internal/config"
	"token-vault.backend/internal/domain/entities"
	"token-vault.backend/internal/domain/repositories"
	"token-vault.backend/internal/usecases"
	"token-vault.backend/pkg/crypto"
	"token-vault.backend/pkg/logger"
	"token-vault.backend/pkg/metrics"
	"token-vault.backend/pkg/redis"
)

// TokenRefreshJob proactively refreshes tokens expiring within the lookahead
// window. Each tick scans the store; each candidate refreshes independently,
// so one provider outage never stalls the rest of the batch.
type TokenRefreshJob struct {
	tokenRepo repositories.TokenRepository
	providers *usecases.ProviderRegistry
	encryptor *crypto.Encryptor
	webhookUC *usecases.WebhookUsecase
	lease     *redis.RefreshLease // nil on single-replica deployments
	cfg       config.SchedulerConfig
	client    *http.Client

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}

	tickMu     sync.Mutex
	tickActive bool
	inflight   sync.Map // token id -> struct{}
}

// NewTokenRefreshJob creates the refresh scheduler. Pass a nil lease to run
// without cross-replica coordination.
func NewTokenRefreshJob(
	tokenRepo repositories.TokenRepository,
	providers *usecases.ProviderRegistry,
	encryptor *crypto.Encryptor,
	webhookUC *usecases.WebhookUsecase,
	lease *redis.RefreshLease,
	cfg config.SchedulerConfig,
) *TokenRefreshJob {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &TokenRefreshJob{
		tokenRepo: tokenRepo,
		providers: providers,
		encryptor: encryptor,
		webhookUC: webhookUC,
		lease:     lease,
		cfg:       cfg,
		client:    &http.Client{Timeout: cfg.RefreshTimeout},
	}
}

// Start launches the tick loop. Calling Start on a running job is a no-op.
func (j *TokenRefreshJob) Start(ctx context.Context) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.running {
		return
	}
	j.running = true
	j.stop = make(chan struct{})
	j.done = make(chan struct{})

	logger.Info(ctx, "starting token refresh job",
		zap.Duration("interval", j.cfg.Interval),
		zap.Duration("lookahead", j.cfg.Lookahead),
	)

	go j.run(ctx, j.stop, j.done)
}

func (j *TokenRefreshJob) run(ctx context.Context, stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(j.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "token refresh job stopped, context cancelled")
			return
		case <-stop:
			logger.Info(ctx, "token refresh job stopped")
			return
		case <-ticker.C:
			j.runTick(ctx)
		}
	}
}

// Stop halts the loop and waits up to the grace period for in-flight
// refreshes to finish. Calling Stop on a stopped job is a no-op.
func (j *TokenRefreshJob) Stop() {
	j.mu.Lock()
	if !j.running {
		j.mu.Unlock()
		return
	}
	j.running = false
	close(j.stop)
	done := j.done
	j.mu.Unlock()

	select {
	case <-done:
	case <-time.After(j.cfg.StopGrace):
		logger.Warn(context.Background(), "token refresh job stop grace elapsed with work in flight")
	}
}

// runTick scans for expiring tokens and refreshes them with bounded
// concurrency. A tick that overruns the interval makes the next one a no-op
// instead of stacking scans.
func (j *TokenRefreshJob) runTick(ctx context.Context) {
	j.tickMu.Lock()
	if j.tickActive {
		j.tickMu.Unlock()
		logger.Debug(ctx, "previous refresh tick still running, skipping")
		return
	}
	j.tickActive = true
	j.tickMu.Unlock()
	defer func() {
		j.tickMu.Lock()
		j.tickActive = false
		j.tickMu.Unlock()
	}()

	now := time.Now().UTC()
	tokens, err := j.tokenRepo.ListExpiring(ctx, now, now.Add(j.cfg.Lookahead))
	if err != nil {
		logger.Error(ctx, "failed to list expiring tokens", zap.Error(err))
		return
	}
	if len(tokens) == 0 {
		return
	}

	logger.Info(ctx, "refreshing expiring tokens", zap.Int("count", len(tokens)))

	sem := make(chan struct{}, j.cfg.Concurrency)
	var wg sync.WaitGroup
	for _, token := range tokens {
		if !token.Refreshable() {
			continue
		}
		if _, loaded := j.inflight.LoadOrStore(token.ID, struct{}{}); loaded {
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(token *entities.Token) {
			defer wg.Done()
			defer func() { <-sem }()
			defer j.inflight.Delete(token.ID)
			j.refreshOne(ctx, token)
		}(token)
	}
	wg.Wait()
}

// refreshOne refreshes a single token. Failures are contained: they log,
// count, and notify, and the token stays eligible for the next tick.
// The refresh timeout bounds the provider and storage calls; webhook
// deliveries that follow run on the tick context so their retry schedule
// is not cut short.
func (j *TokenRefreshJob) refreshOne(ctx context.Context, token *entities.Token) {
	reqCtx, cancel := context.WithTimeout(ctx, j.cfg.RefreshTimeout)
	defer cancel()

	if j.lease != nil {
		acquired, err := j.lease.Acquire(reqCtx, leaseKey(token.ID))
		if err != nil {
			logger.Warn(ctx, "refresh lease unavailable, proceeding locally",
				zap.String("token_id", token.ID.String()), zap.Error(err))
		} else if !acquired {
			return // another replica owns this refresh
		} else {
			defer j.lease.Release(ctx, leaseKey(token.ID))
		}
	}

	provider, ok := j.providers.Lookup(token.Provider)
	if !ok {
		j.failRefresh(ctx, token, "provider not configured")
		return
	}

	refreshToken, err := j.encryptor.Decrypt(token.RefreshTokenEncrypted)
	if err != nil {
		j.failRefresh(ctx, token, fmt.Sprintf("decrypt refresh token: %v", err))
		return
	}

	grant, err := j.requestGrant(reqCtx, provider, refreshToken)
	if err != nil {
		j.failRefresh(ctx, token, err.Error())
		return
	}

	accessEnc, err := j.encryptor.Encrypt(grant.AccessToken)
	if err != nil {
		j.failRefresh(ctx, token, fmt.Sprintf("encrypt access token: %v", err))
		return
	}
	// Providers may rotate the refresh token; keep the old one otherwise.
	refreshEnc := token.RefreshTokenEncrypted
	if grant.RefreshToken != "" {
		refreshEnc, err = j.encryptor.Encrypt(grant.RefreshToken)
		if err != nil {
			j.failRefresh(ctx, token, fmt.Sprintf("encrypt refresh token: %v", err))
			return
		}
	}

	now := time.Now().UTC()
	update := repositories.RefreshUpdate{
		AccessTokenEncrypted:  accessEnc,
		RefreshTokenEncrypted: refreshEnc,
		RefreshedAt:           now,
	}
	if grant.ExpiresIn > 0 {
		expiresAt := now.Add(time.Duration(grant.ExpiresIn) * time.Second)
		update.ExpiresAt = &expiresAt
	}

	applied, err := j.tokenRepo.UpdateRefreshed(reqCtx, token.ID, token.UpdatedAt, update)
	if err != nil {
		j.failRefresh(ctx, token, fmt.Sprintf("persist refresh: %v", err))
		return
	}
	if !applied {
		// The row changed since the scan, likely a caller overwrote the
		// credential. Their version wins; the grant we fetched is dropped.
		logger.Info(ctx, "refresh superseded by concurrent update",
			zap.String("token_id", token.ID.String()))
		return
	}

	metrics.RecordTokenRefresh(token.Provider, true)
	logger.Info(ctx, "token refreshed",
		zap.String("token_id", token.ID.String()),
		zap.String("provider", token.Provider),
	)

	data := map[string]interface{}{
		"tokenId":  token.ID.String(),
		"key":      token.Key,
		"provider": token.Provider,
	}
	if update.ExpiresAt != nil {
		data["expiresAt"] = update.ExpiresAt.Format(time.RFC3339)
	}
	j.webhookUC.TriggerEvent(ctx, token.TenantID, entities.EventTokenRefreshed, data)
}

func (j *TokenRefreshJob) failRefresh(ctx context.Context, token *entities.Token, reason string) {
	metrics.RecordTokenRefresh(token.Provider, false)
	logger.Warn(ctx, "token refresh failed",
		zap.String("token_id", token.ID.String()),
		zap.String("provider", token.Provider),
		zap.String("reason", reason),
	)
	j.webhookUC.TriggerEvent(ctx, token.TenantID, entities.EventTokenRefreshFailed, map[string]interface{}{
		"tokenId":  token.ID.String(),
		"key":      token.Key,
		"provider": token.Provider,
		"error":    reason,
	})
}

// tokenGrant is the subset of the RFC 6749 token response the vault keeps
type tokenGrant struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	Scope        string `json:"scope"`
}

// requestGrant performs the refresh_token grant against the provider's
// token endpoint.
func (j *TokenRefreshJob) requestGrant(ctx context.Context, provider config.ProviderConfig, refreshToken string) (*tokenGrant, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	form.Set("client_id", provider.ClientID)
	form.Set("client_secret", provider.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, provider.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	// GitHub answers form-encoded unless asked for JSON.
	req.Header.Set("Accept", "application/json")

	resp, err := j.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		var oauthErr struct {
			Error            string `json:"error"`
			ErrorDescription string `json:"error_description"`
		}
		if json.Unmarshal(body, &oauthErr) == nil && oauthErr.Error != "" {
			return nil, fmt.Errorf("provider returned %d: %s %s", resp.StatusCode, oauthErr.Error, oauthErr.ErrorDescription)
		}
		return nil, fmt.Errorf("provider returned %d", resp.StatusCode)
	}

	var grant tokenGrant
	if err := json.Unmarshal(body, &grant); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if grant.AccessToken == "" {
		return nil, fmt.Errorf("token response missing access_token")
	}
	return &grant, nil
}

func leaseKey(id uuid.UUID) string {
	return "refresh:lease:" + id.String()
}
