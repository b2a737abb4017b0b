package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// JWTConfig holds the session token signing settings.
type JWTConfig struct {
	SecretKey string
	TokenTTL  time.Duration
}

// SessionConfig holds the session cookie settings.
type SessionConfig struct {
	CookieName string
}

// SeedUser is one credential record loaded from static configuration.
// Passwords are hashed at store construction, never kept in memory as-is.
type SeedUser struct {
	Username string
	Password string
	Role     string
}

type Config struct {
	ServerPort  string
	Environment string
	MetricsPort string
	PprofPort   string
	DatabaseURL string
	JWT         JWTConfig
	Session     SessionConfig
	SeedUsers   []SeedUser
}

func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:  getEnvOrDefault("SERVER_PORT", "8080"),
		Environment: getEnvOrDefault("APP_ENV", "development"),
		MetricsPort: getEnvOrDefault("METRICS_PORT", "9092"),
		PprofPort:   getEnvOrDefault("PPROF_PORT", "6060"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWT: JWTConfig{
			SecretKey: os.Getenv("JWT_SECRET_KEY"),
			TokenTTL:  24 * time.Hour,
		},
		Session: SessionConfig{
			CookieName: getEnvOrDefault("SESSION_COOKIE_NAME", "jwt"),
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is required")
	}

	if raw := os.Getenv("JWT_TOKEN_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl <= 0 {
			return nil, fmt.Errorf("invalid JWT_TOKEN_TTL %q", raw)
		}
		cfg.JWT.TokenTTL = ttl
	}

	seeds, err := parseSeedUsers(getEnvOrDefault("AUTH_SEED_USERS", "admin:admin123:admin,john:user123:user"))
	if err != nil {
		return nil, err
	}
	cfg.SeedUsers = seeds

	return cfg, nil
}

// IsProduction reports whether the process runs with production settings,
// which turns on the Secure flag of the session cookie.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// parseSeedUsers parses "username:password:role" triples separated by commas.
func parseSeedUsers(raw string) ([]SeedUser, error) {
	var seeds []SeedUser
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
			return nil, fmt.Errorf("invalid AUTH_SEED_USERS entry %q, want username:password:role", entry)
		}
		seeds = append(seeds, SeedUser{Username: parts[0], Password: parts[1], Role: parts[2]})
	}
	return seeds, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
