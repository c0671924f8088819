package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	DatabaseURL string
	HTTPAddr    string
	LogLevel    string
	Env         string // dev|prod
	SentryDSN   string

	// Admin console credentials (directory holds students/teachers only).
	AdminUser string
	AdminPass string

	// Periodic reset recheck; 0 disables the background job and the reset
	// runs only at startup and on status checks.
	ResetRecheck time.Duration

	// Optional Telegram notifier.
	BotToken string
	AdminIDs []int64

	SeedDemo bool
}

func Load() (*Config, error) {
	adminIDs, err := parseIDs(os.Getenv("ADMIN_IDS"))
	if err != nil {
		return nil, fmt.Errorf("ADMIN_IDS: %w", err)
	}

	recheck := time.Duration(0)
	if v := os.Getenv("RESET_RECHECK"); v != "" {
		recheck, err = time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("RESET_RECHECK: %w", err)
		}
	}

	cfg := &Config{
		DatabaseURL:  mustEnv("DATABASE_URL"),
		HTTPAddr:     getenv("HTTP_ADDR", ":8080"),
		LogLevel:     getenv("LOG_LEVEL", "info"),
		Env:          getenv("ENV", "dev"),
		SentryDSN:    os.Getenv("SENTRY_DSN"),
		AdminUser:    getenv("ADMIN_USER", "admin"),
		AdminPass:    getenv("ADMIN_PASS", "admin"),
		ResetRecheck: recheck,
		BotToken:     os.Getenv("BOT_TOKEN"),
		AdminIDs:     adminIDs,
		SeedDemo:     getenv("SEED_DEMO", "false") == "true",
	}
	return cfg, nil
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("required env " + k + " is empty")
	}
	return v
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func parseIDs(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad id %q: %w", p, err)
		}
		out = append(out, n)
	}
	return out, nil
}
