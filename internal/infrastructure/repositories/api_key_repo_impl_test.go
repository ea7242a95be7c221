package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"token-vault.backend/internal/domain/entities"
	domainerrors "token-vault.backend/internal/domain/errors"
)

func newApiKeyRepoForTest(t *testing.T) *ApiKeyRepository {
	t.Helper()
	db := newTestDB(t)
	createTenantTable(t, db)
	createAPIKeyTable(t, db)
	return NewApiKeyRepository(db)
}

func seedApiKey(t *testing.T, repo *ApiKeyRepository, tenantID uuid.UUID, prefix, hash string) *entities.ApiKey {
	t.Helper()
	key := &entities.ApiKey{
		TenantID:  tenantID,
		Name:      "test key",
		KeyPrefix: prefix,
		KeyHash:   hash,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(context.Background(), key))
	return key
}

func TestApiKeyRepository_FindByPrefix(t *testing.T) {
	repo := newApiKeyRepoForTest(t)
	tenantID := uuid.New()

	seedApiKey(t, repo, tenantID, "vk_live_abc", "hash-1")
	seedApiKey(t, repo, tenantID, "vk_live_abc", "hash-2")
	seedApiKey(t, repo, tenantID, "vk_live_xyz", "hash-3")

	keys, err := repo.FindByPrefix(context.Background(), "vk_live_abc", 10)
	require.NoError(t, err)
	assert.Len(t, keys, 2)

	keys, err = repo.FindByPrefix(context.Background(), "vk_live_abc", 1)
	require.NoError(t, err)
	assert.Len(t, keys, 1)

	keys, err = repo.FindByPrefix(context.Background(), "vk_live_nnn", 10)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestApiKeyRepository_FindByPrefix_ExcludesRevoked(t *testing.T) {
	repo := newApiKeyRepoForTest(t)
	tenantID := uuid.New()

	active := seedApiKey(t, repo, tenantID, "vk_live_abc", "hash-active")
	revoked := seedApiKey(t, repo, tenantID, "vk_live_abc", "hash-revoked")
	require.NoError(t, repo.Revoke(context.Background(), revoked.ID, time.Now().UTC()))

	keys, err := repo.FindByPrefix(context.Background(), "vk_live_abc", 10)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, active.ID, keys[0].ID)
}

func TestApiKeyRepository_Revoke(t *testing.T) {
	repo := newApiKeyRepoForTest(t)
	key := seedApiKey(t, repo, uuid.New(), "vk_live_abc", "hash-1")

	require.NoError(t, repo.Revoke(context.Background(), key.ID, time.Now().UTC()))

	stored, err := repo.FindByID(context.Background(), key.ID)
	require.NoError(t, err)
	assert.True(t, stored.Revoked())

	// Second revoke finds no revocable row.
	assert.ErrorIs(t, repo.Revoke(context.Background(), key.ID, time.Now().UTC()), domainerrors.ErrNotFound)
}

func TestApiKeyRepository_UpdateLastUsed(t *testing.T) {
	repo := newApiKeyRepoForTest(t)
	key := seedApiKey(t, repo, uuid.New(), "vk_live_abc", "hash-1")

	usedAt := time.Now().UTC()
	require.NoError(t, repo.UpdateLastUsed(context.Background(), key.ID, usedAt))

	stored, err := repo.FindByID(context.Background(), key.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastUsedAt)
	assert.WithinDuration(t, usedAt, *stored.LastUsedAt, time.Second)
}

func TestApiKeyRepository_FindByTenantID(t *testing.T) {
	repo := newApiKeyRepoForTest(t)
	tenantID := uuid.New()

	seedApiKey(t, repo, tenantID, "vk_live_abc", "hash-1")
	seedApiKey(t, repo, tenantID, "vk_live_def", "hash-2")
	seedApiKey(t, repo, uuid.New(), "vk_live_ggg", "hash-3")

	keys, err := repo.FindByTenantID(context.Background(), tenantID)
	require.NoError(t, err)
	assert.Len(t, keys, 2)
}
