package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"token-vault.backend/internal/config"
	"token-vault.backend/internal/domain/entities"
	"token-vault.backend/internal/infrastructure/repositories"
	"token-vault.backend/internal/usecases"
)

// admin-apikey issues an API key for an existing tenant without going
// through the HTTP API. Useful when a tenant has revoked every key.

var openAdminDB = func(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true}), &gorm.Config{PrepareStmt: false})
}

type adminRuntime interface {
	GetTenantByID(ctx context.Context, id uuid.UUID) (*entities.Tenant, error)
	IssueApiKey(ctx context.Context, tenantID uuid.UUID, input *entities.CreateApiKeyInput) (*entities.CreateApiKeyResponse, error)
}

type adminDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	prepare func(cfg *config.Config) (adminRuntime, io.Closer, error)
	out     io.Writer
}

type adminRuntimeImpl struct {
	tenantRepo *repositories.TenantRepository
	apiKeyUC   *usecases.ApiKeyUsecase
}

func (r adminRuntimeImpl) GetTenantByID(ctx context.Context, id uuid.UUID) (*entities.Tenant, error) {
	return r.tenantRepo.GetByID(ctx, id)
}

func (r adminRuntimeImpl) IssueApiKey(ctx context.Context, tenantID uuid.UUID, input *entities.CreateApiKeyInput) (*entities.CreateApiKeyResponse, error) {
	return r.apiKeyUC.Issue(ctx, tenantID, input)
}

func defaultAdminDeps() adminDeps {
	return adminDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		prepare: func(cfg *config.Config) (adminRuntime, io.Closer, error) {
			db, err := openAdminDB(cfg.Database.URL())
			if err != nil {
				return nil, nil, fmt.Errorf("failed to connect db: %w", err)
			}
			sqlDB, err := db.DB()
			if err != nil {
				return nil, nil, fmt.Errorf("failed to init sql db: %w", err)
			}
			return adminRuntimeImpl{
				tenantRepo: repositories.NewTenantRepository(db),
				apiKeyUC:   usecases.NewApiKeyUsecase(repositories.NewApiKeyRepository(db)),
			}, sqlDB, nil
		},
		out: os.Stdout,
	}
}

func run(deps adminDeps, tenantIDArg, name string) error {
	if err := deps.loadEnv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	tenantID, err := uuid.Parse(tenantIDArg)
	if err != nil {
		return fmt.Errorf("invalid tenant id: %w", err)
	}

	runtime, closer, err := deps.prepare(deps.loadCfg())
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx := context.Background()
	tenant, err := runtime.GetTenantByID(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("tenant lookup failed: %w", err)
	}

	resp, err := runtime.IssueApiKey(ctx, tenant.ID, &entities.CreateApiKeyInput{Name: name})
	if err != nil {
		return fmt.Errorf("failed to issue api key: %w", err)
	}

	fmt.Fprintf(deps.out, "Issued API key for %s (%s)\n", tenant.Email, tenant.ID)
	fmt.Fprintf(deps.out, "API_KEY=%s\n", resp.ApiKey)
	fmt.Fprintf(deps.out, "KEY_PREFIX=%s\n", resp.KeyPrefix)
	fmt.Fprintln(deps.out, "The full key is shown once, store it now.")
	return nil
}

func main() {
	tenantID := flag.String("tenant", "", "tenant id (uuid)")
	name := flag.String("name", "admin-issued", "key name")
	flag.Parse()

	if *tenantID == "" {
		log.Fatal("missing required -tenant flag")
	}
	if err := run(defaultAdminDeps(), *tenantID, *name); err != nil {
		log.Fatal(err)
	}
}
