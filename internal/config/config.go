package config

import (
	"fmt"
	"os"
)

// Config holds the application configuration
type Config struct {
	// Database connection string (DSN)
	DatabaseURL string

	// Server bind address (host:port)
	ServerAddr string

	// Base URL used when building absolute redirect hints
	ServerURL string

	// Maximum database connection pool size
	MaxDBConnections int

	// Enable debug logging
	Debug bool

	// SecretKey signs session credentials (HMAC-SHA256).
	// Must be stable across restarts or every outstanding credential is invalidated.
	SecretKey string

	// Google OAuth configuration
	Google GoogleConfig

	// Facebook OAuth configuration
	Facebook FacebookConfig
}

// GoogleConfig holds the Google OAuth client registration.
// The login page posts an authorization code obtained client-side; the server
// exchanges it and introspects the resulting access token.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
}

// Enabled reports whether Google login is configured.
func (g *GoogleConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

// FacebookConfig holds the Facebook app registration used to introspect
// client-supplied access tokens via the debug_token endpoint.
type FacebookConfig struct {
	ClientID     string
	ClientSecret string
}

// Enabled reports whether Facebook login is configured.
func (f *FacebookConfig) Enabled() bool {
	return f.ClientID != "" && f.ClientSecret != ""
}

// Load reads configuration from environment variables with fallback defaults
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:      getEnv("DATABASE_URL", "catalog.db"),
		ServerAddr:       getEnv("SERVER_ADDR", "localhost:8080"),
		ServerURL:        getEnv("SERVER_URL", "http://localhost:8080"),
		MaxDBConnections: getEnvInt("MAX_DB_CONNECTIONS", 25),
		Debug:            getEnvBool("DEBUG", false),
		SecretKey:        getEnv("SECRET_KEY", ""),
		Google: GoogleConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		},
		Facebook: FacebookConfig{
			ClientID:     getEnv("FACEBOOK_CLIENT_ID", ""),
			ClientSecret: getEnv("FACEBOOK_CLIENT_SECRET", ""),
		},
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("SECRET_KEY is required")
	}

	// OAuth providers are optional; password login works without them.
	// A client id without a secret (or vice versa) is a misconfiguration.
	if (cfg.Google.ClientID == "") != (cfg.Google.ClientSecret == "") {
		return nil, fmt.Errorf("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET must be set together")
	}
	if (cfg.Facebook.ClientID == "") != (cfg.Facebook.ClientSecret == "") {
		return nil, fmt.Errorf("FACEBOOK_CLIENT_ID and FACEBOOK_CLIENT_SECRET must be set together")
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}
