package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"
	_ "time/tzdata" // TIMEZONE must resolve on hosts without zoneinfo

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	TelegramToken    string // may be empty: sends then fail as a configuration error
	TelegramAPIURL   string
	DatabaseDriver   string // "postgres" or "sqlite3"
	DatabaseURL      string
	RunMigrations    bool
	HTTPAddr         string
	AdminTelegramID  int64    // 0 disables admin commands
	DigestRecipients []string // default chats for scheduled and unaddressed digests
	CronSpecDigest   string   // empty disables the scheduled digest
	DigestMaxRetries int
	Location         *time.Location
	GatewayTimeout   time.Duration
	LogLevel         string
	Environment      string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.TelegramToken = strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))

	cfg.TelegramAPIURL = os.Getenv("TELEGRAM_API_URL")
	if cfg.TelegramAPIURL == "" {
		cfg.TelegramAPIURL = "https://api.telegram.org"
	}

	cfg.DatabaseDriver = strings.ToLower(os.Getenv("DATABASE_DRIVER"))
	if cfg.DatabaseDriver == "" {
		cfg.DatabaseDriver = "postgres"
	}
	if cfg.DatabaseDriver != "postgres" && cfg.DatabaseDriver != "sqlite3" {
		return nil, fmt.Errorf("invalid DATABASE_DRIVER %q: expected postgres or sqlite3", cfg.DatabaseDriver)
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.RunMigrations = true
	if v := os.Getenv("RUN_MIGRATIONS"); v != "" {
		cfg.RunMigrations, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid RUN_MIGRATIONS: %w", err)
		}
	}

	cfg.HTTPAddr = os.Getenv("HTTP_ADDR")
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	if adminIDStr := os.Getenv("ADMIN_TELEGRAM_ID"); adminIDStr != "" {
		cfg.AdminTelegramID, err = strconv.ParseInt(adminIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
		}
	}

	cfg.DigestRecipients = splitList(os.Getenv("DIGEST_RECIPIENTS"))

	cronSpec, ok := os.LookupEnv("CRON_SPEC_DIGEST")
	if !ok {
		cronSpec = "0 8 * * *" // Default: 08:00 daily
	}
	cfg.CronSpecDigest = strings.TrimSpace(cronSpec)

	cfg.DigestMaxRetries = 3
	if v := os.Getenv("DIGEST_MAX_RETRIES"); v != "" {
		cfg.DigestMaxRetries, err = strconv.Atoi(v)
		if err != nil || cfg.DigestMaxRetries < 0 {
			return nil, fmt.Errorf("invalid DIGEST_MAX_RETRIES %q", v)
		}
	}

	tz := os.Getenv("TIMEZONE")
	if tz == "" {
		tz = "Asia/Jakarta"
	}
	cfg.Location, err = time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	cfg.GatewayTimeout = 10 * time.Second
	if v := os.Getenv("GATEWAY_TIMEOUT"); v != "" {
		cfg.GatewayTimeout, err = time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid GATEWAY_TIMEOUT: %w", err)
		}
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	return cfg, nil
}

// splitList parses a comma-separated list, dropping blanks.
func splitList(s string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
