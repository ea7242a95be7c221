package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Security  SecurityConfig
	Scheduler SchedulerConfig
	Webhook   WebhookConfig
	Providers map[string]ProviderConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// RedisConfig holds Redis configuration. URL is optional: without it the
// refresh scheduler runs with a process-local guard only.
type RedisConfig struct {
	URL      string
	Password string
}

// SecurityConfig holds the encryption key ring. Keys are base64-encoded
// 32-byte values, never logged or serialized.
type SecurityConfig struct {
	EncryptionKey   string // v1
	EncryptionKeyV2 string // optional rotation key
}

// KeyRing returns the version->key mapping and the current version. When a
// v2 key is configured it becomes current; v1 stays in the ring so existing
// ciphertexts remain decryptable.
func (c SecurityConfig) KeyRing() (map[string]string, string) {
	keys := map[string]string{"v1": c.EncryptionKey}
	current := "v1"
	if c.EncryptionKeyV2 != "" {
		keys["v2"] = c.EncryptionKeyV2
		current = "v2"
	}
	return keys, current
}

// SchedulerConfig holds refresh scheduler configuration
type SchedulerConfig struct {
	Interval       time.Duration
	Lookahead      time.Duration
	RefreshTimeout time.Duration
	Concurrency    int
	StopGrace      time.Duration
}

// WebhookConfig holds webhook delivery configuration
type WebhookConfig struct {
	Timeout    time.Duration
	MaxRetries int
}

// ProviderConfig holds the OAuth client configuration for one provider
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "tokenvault"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		Security: SecurityConfig{
			EncryptionKey:   getEnv("ENCRYPTION_KEY", ""),
			EncryptionKeyV2: getEnv("ENCRYPTION_KEY_V2", ""),
		},
		Scheduler: SchedulerConfig{
			Interval:       getEnvAsDuration("REFRESH_INTERVAL", 60*time.Second),
			Lookahead:      getEnvAsDuration("REFRESH_LOOKAHEAD", 300*time.Second),
			RefreshTimeout: getEnvAsDuration("REFRESH_TIMEOUT", 10*time.Second),
			Concurrency:    getEnvAsInt("REFRESH_CONCURRENCY", 4),
			StopGrace:      getEnvAsDuration("REFRESH_STOP_GRACE", 15*time.Second),
		},
		Webhook: WebhookConfig{
			Timeout:    getEnvAsDuration("WEBHOOK_TIMEOUT", 10*time.Second),
			MaxRetries: getEnvAsInt("WEBHOOK_MAX_RETRIES", 3),
		},
		Providers: loadProviders(),
	}
}

// loadProviders builds the per-provider OAuth configuration. Token URLs
// default to the well-known endpoints and can be overridden per environment.
func loadProviders() map[string]ProviderConfig {
	defaults := map[string]string{
		"google":    "https://oauth2.googleapis.com/token",
		"github":    "https://github.com/login/oauth/access_token",
		"microsoft": "https://login.microsoftonline.com/common/oauth2/v2.0/token",
	}

	providers := make(map[string]ProviderConfig, len(defaults))
	for name, tokenURL := range defaults {
		upper := map[string]string{
			"google":    "GOOGLE",
			"github":    "GITHUB",
			"microsoft": "MICROSOFT",
		}[name]
		cfg := ProviderConfig{
			ClientID:     getEnv("OAUTH_"+upper+"_CLIENT_ID", ""),
			ClientSecret: getEnv("OAUTH_"+upper+"_CLIENT_SECRET", ""),
			TokenURL:     getEnv("OAUTH_"+upper+"_TOKEN_URL", tokenURL),
		}
		if cfg.ClientID != "" {
			providers[name] = cfg
		}
	}
	return providers
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
