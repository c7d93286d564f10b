package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	App struct {
		Port string
	}
	Postgres struct {
		Host           string
		Port           string
		User           string
		Password       string
		DBName         string
		SSLMode        string
		MigrationsPath string
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	Sync struct {
		// Backend selects the remote cart store adapter: "redis" or "http".
		Backend string
		BaseURL string
	}
	Backend struct {
		StockCheckURL string
		OrderURL      string
	}
}

// Load reads configuration from the environment, optionally seeded from
// a .env file at path.
func Load(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	cfg := &Config{}
	cfg.App.Port = getenv("APP_PORT", "8080")

	cfg.Postgres.Host = getenv("DB_HOST", "localhost")
	cfg.Postgres.Port = getenv("DB_PORT", "5432")
	cfg.Postgres.User = os.Getenv("DB_USER")
	if cfg.Postgres.User == "" {
		return nil, fmt.Errorf("DB_USER is required")
	}
	cfg.Postgres.Password = os.Getenv("DB_PASSWORD")
	if cfg.Postgres.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}
	cfg.Postgres.DBName = os.Getenv("DB_NAME")
	if cfg.Postgres.DBName == "" {
		return nil, fmt.Errorf("DB_NAME is required")
	}
	cfg.Postgres.SSLMode = getenv("DB_SSLMODE", "disable")
	cfg.Postgres.MigrationsPath = getenv("DB_MIGRATIONS_PATH", "migrations")

	cfg.Redis.Addr = getenv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")

	cfg.Sync.Backend = getenv("CART_SYNC_BACKEND", "redis")
	if cfg.Sync.Backend != "redis" && cfg.Sync.Backend != "http" {
		return nil, fmt.Errorf("CART_SYNC_BACKEND must be redis or http, got %q", cfg.Sync.Backend)
	}
	cfg.Sync.BaseURL = os.Getenv("CART_SYNC_URL")
	if cfg.Sync.Backend == "http" && cfg.Sync.BaseURL == "" {
		return nil, fmt.Errorf("CART_SYNC_URL is required when CART_SYNC_BACKEND=http")
	}

	cfg.Backend.StockCheckURL = os.Getenv("STOCK_CHECK_URL")
	if cfg.Backend.StockCheckURL == "" {
		return nil, fmt.Errorf("STOCK_CHECK_URL is required")
	}
	cfg.Backend.OrderURL = os.Getenv("ORDER_SERVICE_URL")
	if cfg.Backend.OrderURL == "" {
		return nil, fmt.Errorf("ORDER_SERVICE_URL is required")
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
