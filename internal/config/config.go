package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultDBPath          = "helpdesk.db"
	defaultLogMode         = "dev"
	defaultPendingInputTTL = 10 * time.Minute
)

type Config struct {
	BotToken        string
	AdminID         int64
	DBPath          string
	LogMode         string
	PendingInputTTL time.Duration
}

// Load reads the process environment. Values from a .env file are expected to
// be there already (cmd/bot imports godotenv/autoload).
func Load() (Config, error) {
	cfg := Config{
		BotToken: strings.TrimSpace(os.Getenv("BOT_TOKEN")),
		DBPath:   valueOrDefault("DB_PATH", defaultDBPath),
		LogMode:  strings.ToLower(valueOrDefault("LOG_MODE", defaultLogMode)),
	}

	if cfg.BotToken == "" {
		return Config{}, fmt.Errorf("BOT_TOKEN is required")
	}

	adminIDRaw := strings.TrimSpace(os.Getenv("ADMIN_ID"))
	if adminIDRaw == "" {
		return Config{}, fmt.Errorf("ADMIN_ID is required")
	}
	adminID, err := strconv.ParseInt(adminIDRaw, 10, 64)
	if err != nil {
		return Config{}, fmt.Errorf("invalid ADMIN_ID: %w", err)
	}
	cfg.AdminID = adminID

	switch cfg.LogMode {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid LOG_MODE %q: want dev or prod", cfg.LogMode)
	}

	cfg.PendingInputTTL = defaultPendingInputTTL
	if raw := strings.TrimSpace(os.Getenv("PENDING_INPUT_TTL")); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PENDING_INPUT_TTL: %w", err)
		}
		if ttl <= 0 {
			return Config{}, fmt.Errorf("invalid PENDING_INPUT_TTL: must be positive, got %s", ttl)
		}
		cfg.PendingInputTTL = ttl
	}

	return cfg, nil
}

func valueOrDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}
