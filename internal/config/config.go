package config

import (
	"fmt"
	"os"
)

const (
	minSessionSecretLen = 32
	minAdminPasswordLen = 8
	minCronSecretLen    = 16
)

type Config struct {
	// ShipStation API
	ShipStationAPIKey    string
	ShipStationAPISecret string
	ShipStationAPIURL    string

	// Auth
	SessionSecret string
	AdminPassword string
	CronSecret    string

	// Email (Resend)
	ResendAPIKey     string
	AppPublicBaseURL string

	// Object storage (Supabase Storage)
	SupabaseURL           string
	SupabaseServiceKey    string
	SupabaseStorageBucket string

	// Database
	DatabaseURL string

	// Server
	Port        string
	Environment string
}

// Load reads configuration from the environment. Missing secrets disable the
// dependent feature instead of failing; Validate only rejects secrets that are
// present but too short to be safe.
func Load() (*Config, error) {
	cfg := &Config{
		ShipStationAPIKey:    getEnv("SHIPSTATION_API_KEY", ""),
		ShipStationAPISecret: getEnv("SHIPSTATION_API_SECRET", ""),
		ShipStationAPIURL:    getEnv("SHIPSTATION_API_URL", "https://ssapi.shipstation.com"),

		SessionSecret: getEnv("SESSION_SECRET", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		CronSecret:    getEnv("CRON_SECRET", ""),

		ResendAPIKey:     getEnv("RESEND_API_KEY", ""),
		AppPublicBaseURL: getEnv("APP_PUBLIC_BASE_URL", "http://localhost:8080"),

		SupabaseURL:           getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey:    getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
		SupabaseStorageBucket: getEnv("SUPABASE_STORAGE_BUCKET", "proofs"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.SessionSecret != "" && len(c.SessionSecret) < minSessionSecretLen {
		return fmt.Errorf("SESSION_SECRET must be at least %d characters", minSessionSecretLen)
	}
	if c.AdminPassword != "" && len(c.AdminPassword) < minAdminPasswordLen {
		return fmt.Errorf("ADMIN_PASSWORD must be at least %d characters", minAdminPasswordLen)
	}
	if c.CronSecret != "" && len(c.CronSecret) < minCronSecretLen {
		return fmt.Errorf("CRON_SECRET must be at least %d characters", minCronSecretLen)
	}
	return nil
}

// SyncConfigured reports whether both ShipStation secrets are present.
func (c *Config) SyncConfigured() bool {
	return c.ShipStationAPIKey != "" && c.ShipStationAPISecret != ""
}

// MissingSyncEnvVars names the absent ShipStation secrets for status reporting.
func (c *Config) MissingSyncEnvVars() []string {
	missing := []string{}
	if c.ShipStationAPIKey == "" {
		missing = append(missing, "SHIPSTATION_API_KEY")
	}
	if c.ShipStationAPISecret == "" {
		missing = append(missing, "SHIPSTATION_API_SECRET")
	}
	return missing
}

// SessionConfigured reports whether admin login is possible.
func (c *Config) SessionConfigured() bool {
	return c.SessionSecret != "" && c.AdminPassword != ""
}

// CronConfigured reports whether the cron bearer secret is usable.
func (c *Config) CronConfigured() bool {
	return len(c.CronSecret) >= minCronSecretLen
}

// EmailConfigured reports whether outbound email is enabled.
func (c *Config) EmailConfigured() bool {
	return c.ResendAPIKey != ""
}

// StorageConfigured reports whether the proof file object store is reachable.
func (c *Config) StorageConfigured() bool {
	return c.SupabaseURL != "" && c.SupabaseServiceKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
