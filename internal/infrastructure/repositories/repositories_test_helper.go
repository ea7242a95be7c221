package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createTenantTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE tenants (
		id TEXT PRIMARY KEY,
		email TEXT UNIQUE NOT NULL,
		name TEXT,
		plan TEXT,
		subscription_status TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createAPIKeyTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE api_keys (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		name TEXT,
		key_hash TEXT NOT NULL UNIQUE,
		key_prefix TEXT NOT NULL,
		last_used_at DATETIME,
		revoked_at DATETIME,
		created_at DATETIME
	);`)
}

func createTokenTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE tokens (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		key TEXT NOT NULL,
		provider TEXT NOT NULL,
		access_token_encrypted TEXT NOT NULL,
		refresh_token_encrypted TEXT,
		token_type TEXT,
		expires_at DATETIME,
		scope TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		last_refreshed_at DATETIME,
		UNIQUE (tenant_id, key, provider)
	);`)
}

func createWebhookTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE webhooks (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		url TEXT NOT NULL,
		secret TEXT,
		events TEXT NOT NULL,
		enabled BOOLEAN NOT NULL,
		created_at DATETIME
	);`)
}
