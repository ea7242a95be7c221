package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"token-vault.backend/internal/config"
	"token-vault.backend/internal/infrastructure/jobs"
	"token-vault.backend/internal/infrastructure/repositories"
	"token-vault.backend/internal/interfaces/http/handlers"
	"token-vault.backend/internal/interfaces/http/middleware"
	"token-vault.backend/internal/usecases"
	"token-vault.backend/pkg/crypto"
	"token-vault.backend/pkg/logger"
	"token-vault.backend/pkg/metrics"
	"token-vault.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	getStdDB = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	encryptor, err := crypto.NewEncryptor(cfg.Security.KeyRing())
	if err != nil {
		return fmt.Errorf("failed to initialize encryption: %w", err)
	}

	// Redis is optional; without it the refresh job skips the replica lease.
	var lease *redis.RefreshLease
	if cfg.Redis.URL != "" {
		if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
			return fmt.Errorf("failed to initialize redis: %w", err)
		}
		lease = redis.NewRefreshLease(redis.GetClient(), cfg.Scheduler.RefreshTimeout*2)
		logger.Info(context.Background(), "Redis initialized, refresh leases enabled")
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		logger.Warn(context.Background(), "Database not available, endpoints will return errors", zap.Error(err))
	} else {
		logger.Info(context.Background(), "Connected to PostgreSQL")
	}

	// Repositories
	tenantRepo := repositories.NewTenantRepository(db)
	apiKeyRepo := repositories.NewApiKeyRepository(db)
	tokenRepo := repositories.NewTokenRepository(db)
	webhookRepo := repositories.NewWebhookRepository(db)

	// Usecases
	providerRegistry := usecases.NewProviderRegistry(cfg.Providers)
	apiKeyUsecase := usecases.NewApiKeyUsecase(apiKeyRepo)
	authUsecase := usecases.NewAuthUsecase(tenantRepo, apiKeyUsecase)
	webhookUsecase := usecases.NewWebhookUsecase(webhookRepo, cfg.Webhook)
	tokenUsecase := usecases.NewTokenUsecase(tokenRepo, encryptor, webhookUsecase)

	// Handlers
	authHandler := handlers.NewAuthHandler(authUsecase)
	apiKeyHandler := handlers.NewApiKeyHandler(apiKeyUsecase)
	tokenHandler := handlers.NewTokenHandler(tokenUsecase)
	webhookHandler := handlers.NewWebhookHandler(webhookUsecase)
	providerHandler := handlers.NewProviderHandler(providerRegistry)
	healthHandler := handlers.NewHealthHandler(db)

	// Background refresh job
	jobCtx, cancelJob := context.WithCancel(context.Background())
	defer cancelJob()
	refreshJob := jobs.NewTokenRefreshJob(tokenRepo, providerRegistry, encryptor, webhookUsecase, lease, cfg.Scheduler)
	refreshJob.Start(jobCtx)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(metrics.Middleware())

	registerRoutes(r, routeDeps{
		authHandler:     authHandler,
		apiKeyHandler:   apiKeyHandler,
		tokenHandler:    tokenHandler,
		webhookHandler:  webhookHandler,
		providerHandler: providerHandler,
		healthHandler:   healthHandler,
		authMiddleware:  middleware.AuthMiddleware(apiKeyUsecase),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(context.Background(), "Server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		refreshJob.Stop()
		return err
	case sig := <-quit:
		logger.Info(context.Background(), "Shutting down", zap.String("signal", sig.String()))
	}

	// Stop the scheduler first so no new refreshes start, then drain HTTP.
	refreshJob.Stop()
	cancelJob()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info(context.Background(), "Server stopped")
	return nil
}
