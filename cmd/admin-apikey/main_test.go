package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-vault.backend/internal/config"
	"token-vault.backend/internal/domain/entities"
)

type adminRuntimeStub struct {
	tenant    *entities.Tenant
	tenantErr error
	resp      *entities.CreateApiKeyResponse
	issueErr  error
}

func (s adminRuntimeStub) GetTenantByID(context.Context, uuid.UUID) (*entities.Tenant, error) {
	return s.tenant, s.tenantErr
}

func (s adminRuntimeStub) IssueApiKey(context.Context, uuid.UUID, *entities.CreateApiKeyInput) (*entities.CreateApiKeyResponse, error) {
	return s.resp, s.issueErr
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func stubDeps(runtime adminRuntime, out io.Writer) adminDeps {
	return adminDeps{
		loadEnv: func() error { return nil },
		loadCfg: func() *config.Config { return &config.Config{} },
		prepare: func(*config.Config) (adminRuntime, io.Closer, error) {
			return runtime, nopCloser{}, nil
		},
		out: out,
	}
}

func TestRun_IssuesKey(t *testing.T) {
	tenant := &entities.Tenant{ID: uuid.New(), Email: "ops@example.com"}
	var out bytes.Buffer
	deps := stubDeps(adminRuntimeStub{
		tenant: tenant,
		resp:   &entities.CreateApiKeyResponse{ApiKey: "vk_live_abc", KeyPrefix: "vk_live_abc"[:11]},
	}, &out)

	require.NoError(t, run(deps, tenant.ID.String(), "rescue"))
	assert.Contains(t, out.String(), "API_KEY=vk_live_abc")
	assert.Contains(t, out.String(), "ops@example.com")
}

func TestRun_InvalidTenantID(t *testing.T) {
	var out bytes.Buffer
	err := run(stubDeps(adminRuntimeStub{}, &out), "not-a-uuid", "rescue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid tenant id")
}

func TestRun_TenantLookupFails(t *testing.T) {
	var out bytes.Buffer
	deps := stubDeps(adminRuntimeStub{tenantErr: errors.New("no such tenant")}, &out)
	err := run(deps, uuid.New().String(), "rescue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tenant lookup failed")
}
