package config

import (
	"os"
)

type Config struct {
	Port            string
	Environment     string
	DatabaseURL     string
	RedisURL        string
	SupabaseURL     string
	SupabaseKey     string
	SupabaseJWKSURL string // Constructed from SupabaseURL + /auth/v1/.well-known/jwks.json
	CORSOrigins     string
	TablePrefix     string
	// LLM Configuration
	AnthropicAPIKey string
	AnthropicModel  string
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	supabaseURL := getEnv("SUPABASE_URL", "")

	return &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     env,
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		RedisURL:        getEnv("REDIS_URL", ""),
		SupabaseURL:     supabaseURL,
		SupabaseKey:     getEnv("SUPABASE_KEY", ""),
		SupabaseJWKSURL: supabaseURL + "/auth/v1/.well-known/jwks.json",
		CORSOrigins:     getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:     getTablePrefix(env),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-haiku-4-5-20251001"),
	}
}

// HasRealProvider reports whether a real model provider credential is
// configured. Absence selects the mock provider and its smaller step budget.
func (c *Config) HasRealProvider() bool {
	return c.AnthropicAPIKey != ""
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
