package usecases_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"token-vault.backend/internal/domain/entities"
	domainerrors "token-vault.backend/internal/domain/errors"
	"token-vault.backend/internal/usecases"
	"token-vault.backend/pkg/crypto"
)

func TestApiKeyIssue(t *testing.T) {
	repo := new(MockApiKeyRepository)
	uc := usecases.NewApiKeyUsecase(repo)
	tenantID := uuid.New()

	var stored *entities.ApiKey
	repo.On("Create", mock.Anything, mock.AnythingOfType("*entities.ApiKey")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*entities.ApiKey) }).
		Return(nil)

	resp, err := uc.Issue(context.Background(), tenantID, &entities.CreateApiKeyInput{Name: "ci"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.ApiKey, "vk_live_"))
	assert.Equal(t, resp.ApiKey[:crypto.APIKeyLookupPrefixLen], resp.KeyPrefix)
	assert.Equal(t, "ci", resp.Name)

	// The store never sees the full key, only hash and prefix.
	require.NotNil(t, stored)
	assert.Equal(t, tenantID, stored.TenantID)
	assert.Equal(t, resp.KeyPrefix, stored.KeyPrefix)
	assert.NotContains(t, stored.KeyHash, resp.ApiKey)
	assert.True(t, crypto.CheckAPIKey(resp.ApiKey, stored.KeyHash))
}

func TestApiKeyVerify_Success(t *testing.T) {
	fullKey, keyHash, keyPrefix, err := crypto.GenerateAPIKey()
	require.NoError(t, err)

	tenant := &entities.Tenant{ID: uuid.New(), Email: "a@b.c"}
	candidate := &entities.ApiKey{
		ID:        uuid.New(),
		TenantID:  tenant.ID,
		KeyPrefix: keyPrefix,
		KeyHash:   keyHash,
		Tenant:    tenant,
	}

	repo := new(MockApiKeyRepository)
	repo.On("FindByPrefix", mock.Anything, keyPrefix, 10).Return([]*entities.ApiKey{candidate}, nil)
	repo.On("UpdateLastUsed", mock.Anything, candidate.ID, mock.AnythingOfType("time.Time")).Return(nil)

	uc := usecases.NewApiKeyUsecase(repo)
	got, err := uc.Verify(context.Background(), fullKey)
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, got.ID)
	repo.AssertCalled(t, "UpdateLastUsed", mock.Anything, candidate.ID, mock.AnythingOfType("time.Time"))
}

func TestApiKeyVerify_PicksMatchAmongCandidates(t *testing.T) {
	fullKey, keyHash, keyPrefix, err := crypto.GenerateAPIKey()
	require.NoError(t, err)

	// A colliding prefix from another tenant's key.
	_, otherHash, _, err := crypto.GenerateAPIKey()
	require.NoError(t, err)

	tenant := &entities.Tenant{ID: uuid.New()}
	other := &entities.ApiKey{ID: uuid.New(), KeyPrefix: keyPrefix, KeyHash: otherHash, Tenant: &entities.Tenant{ID: uuid.New()}}
	match := &entities.ApiKey{ID: uuid.New(), TenantID: tenant.ID, KeyPrefix: keyPrefix, KeyHash: keyHash, Tenant: tenant}

	repo := new(MockApiKeyRepository)
	repo.On("FindByPrefix", mock.Anything, keyPrefix, 10).Return([]*entities.ApiKey{other, match}, nil)
	repo.On("UpdateLastUsed", mock.Anything, match.ID, mock.AnythingOfType("time.Time")).Return(nil)

	uc := usecases.NewApiKeyUsecase(repo)
	got, err := uc.Verify(context.Background(), fullKey)
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, got.ID)
}

func TestApiKeyVerify_InvalidFormat(t *testing.T) {
	repo := new(MockApiKeyRepository)
	uc := usecases.NewApiKeyUsecase(repo)

	for _, presented := range []string{"", "vk_live_", "sk_live_abcdefghijklmnop", "garbage"} {
		_, err := uc.Verify(context.Background(), presented)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidKeyFormat, "key %q", presented)
	}
	repo.AssertNotCalled(t, "FindByPrefix", mock.Anything, mock.Anything, mock.Anything)
}

func TestApiKeyVerify_NoMatch(t *testing.T) {
	fullKey, _, keyPrefix, err := crypto.GenerateAPIKey()
	require.NoError(t, err)

	repo := new(MockApiKeyRepository)
	repo.On("FindByPrefix", mock.Anything, keyPrefix, 10).Return([]*entities.ApiKey{}, nil)

	uc := usecases.NewApiKeyUsecase(repo)
	_, err = uc.Verify(context.Background(), fullKey)
	assert.ErrorIs(t, err, domainerrors.ErrNoMatchingKey)
}

func TestApiKeyVerify_LastUsedFailureDoesNotFailAuth(t *testing.T) {
	fullKey, keyHash, keyPrefix, err := crypto.GenerateAPIKey()
	require.NoError(t, err)

	tenant := &entities.Tenant{ID: uuid.New()}
	candidate := &entities.ApiKey{ID: uuid.New(), TenantID: tenant.ID, KeyPrefix: keyPrefix, KeyHash: keyHash, Tenant: tenant}

	repo := new(MockApiKeyRepository)
	repo.On("FindByPrefix", mock.Anything, keyPrefix, 10).Return([]*entities.ApiKey{candidate}, nil)
	repo.On("UpdateLastUsed", mock.Anything, candidate.ID, mock.AnythingOfType("time.Time")).Return(assert.AnError)

	uc := usecases.NewApiKeyUsecase(repo)
	got, err := uc.Verify(context.Background(), fullKey)
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, got.ID)
}

func TestApiKeyRevoke(t *testing.T) {
	tenantID := uuid.New()
	keyID := uuid.New()
	key := &entities.ApiKey{ID: keyID, TenantID: tenantID}

	repo := new(MockApiKeyRepository)
	repo.On("FindByID", mock.Anything, keyID).Return(key, nil)
	repo.On("Revoke", mock.Anything, keyID, mock.AnythingOfType("time.Time")).Return(nil)

	uc := usecases.NewApiKeyUsecase(repo)
	require.NoError(t, uc.Revoke(context.Background(), tenantID, keyID))
	repo.AssertCalled(t, "Revoke", mock.Anything, keyID, mock.AnythingOfType("time.Time"))
}

func TestApiKeyRevoke_AlreadyRevokedIsIdempotent(t *testing.T) {
	tenantID := uuid.New()
	keyID := uuid.New()
	revokedAt := time.Now().UTC()
	key := &entities.ApiKey{ID: keyID, TenantID: tenantID, RevokedAt: &revokedAt}

	repo := new(MockApiKeyRepository)
	repo.On("FindByID", mock.Anything, keyID).Return(key, nil)

	uc := usecases.NewApiKeyUsecase(repo)
	require.NoError(t, uc.Revoke(context.Background(), tenantID, keyID))
	repo.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything, mock.Anything)
}

func TestApiKeyRevoke_WrongTenant(t *testing.T) {
	keyID := uuid.New()
	key := &entities.ApiKey{ID: keyID, TenantID: uuid.New()}

	repo := new(MockApiKeyRepository)
	repo.On("FindByID", mock.Anything, keyID).Return(key, nil)

	uc := usecases.NewApiKeyUsecase(repo)
	err := uc.Revoke(context.Background(), uuid.New(), keyID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
