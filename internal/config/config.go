// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/ingest.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/albapepper/tennis-stats/internal/tennis"
)

// --------------------------------------------------------------------------
// Config struct, populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Database
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// BallDontLie
	BDLAPIKey            string
	BDLBaseURL           string
	BDLRequestsPerMinute int

	// Import defaults
	ImportAssociation tennis.Association
	ImportDelay       time.Duration
	ImportMaxPages    int
	ImportStartYear   int
	ImportTimeout     time.Duration

	// Scheduled sync (0 disables)
	SyncRankingsInterval   time.Duration
	SyncCompletionInterval time.Duration
	SyncAssociations       []tennis.Association

	// Cache
	CacheEnabled bool
}

// Load reads configuration from environment variables with sensible defaults.
// Only the database URL is required.
func Load() (*Config, error) {
	cfg, err := LoadWithoutDatabase()
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set")
	}
	return cfg, nil
}

// LoadWithoutDatabase is Load for commands that can run against the
// in-memory store.
func LoadWithoutDatabase() (*Config, error) {
	association, err := tennis.ParseAssociation(envOr("IMPORT_ASSOCIATION", string(tennis.WTA)))
	if err != nil {
		return nil, fmt.Errorf("IMPORT_ASSOCIATION: %w", err)
	}

	var syncAssociations []tennis.Association
	for _, s := range envList("SYNC_ASSOCIATIONS", []string{"WTA", "ATP"}) {
		a, err := tennis.ParseAssociation(s)
		if err != nil {
			return nil, fmt.Errorf("SYNC_ASSOCIATIONS: %w", err)
		}
		syncAssociations = append(syncAssociations, a)
	}

	return &Config{
		DatabaseURL:    envOr("DATABASE_URL", ""),
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		BDLAPIKey:            envOr("BALLDONTLIE_API_KEY", ""),
		BDLBaseURL:           envOr("BDL_BASE_URL", "https://api.balldontlie.io"),
		BDLRequestsPerMinute: envInt("BDL_REQUESTS_PER_MINUTE", 60),

		ImportAssociation: association,
		ImportDelay:       time.Duration(envInt("IMPORT_DELAY_MS", 1000)) * time.Millisecond,
		ImportMaxPages:    envInt("IMPORT_MAX_PAGES", 100),
		ImportStartYear:   envInt("IMPORT_START_YEAR", 2020),
		ImportTimeout:     time.Duration(envInt("IMPORT_TIMEOUT_MINUTES", 60)) * time.Minute,

		SyncRankingsInterval:   time.Duration(envInt("SYNC_RANKINGS_INTERVAL_HOURS", 0)) * time.Hour,
		SyncCompletionInterval: time.Duration(envInt("SYNC_COMPLETION_INTERVAL_MINUTES", 60)) * time.Minute,
		SyncAssociations:       syncAssociations,

		CacheEnabled: envBool("CACHE_ENABLED", true),
	}, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
