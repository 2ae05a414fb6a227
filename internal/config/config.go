package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultPort         = "4000"
	DefaultJWTSecret    = "codinglearn-dev-secret-change-me"
	DefaultTokenTTL     = 7 * 24 * time.Hour
	DefaultDataPath     = "data/db.json"
	DefaultMaxBodyBytes = 1_000_000

	StoreFile  = "file"
	StoreRedis = "redis"
)

type Config struct {
	Port           string
	JWTSecret      string
	TokenTTL       time.Duration
	AllowedOrigins []string // CORS allow-list from CORS_ORIGINS; "*" allows any origin
	StoreBackend   string   // "file" or "redis"
	DataPath       string
	RedisURI       string
	RedisKey       string
	Environment    string // ENV: production, development, etc.
	LogLevel       string
	MaxBodyBytes   int64
}

func Load() *Config {
	origins := parseOrigins(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	backend := strings.ToLower(strings.TrimSpace(getEnv("STORE_BACKEND", StoreFile)))
	if backend != StoreRedis {
		backend = StoreFile
	}

	return &Config{
		Port:           getEnv("PORT", DefaultPort),
		JWTSecret:      getEnv("JWT_SECRET", DefaultJWTSecret),
		TokenTTL:       parseDuration(getEnv("TOKEN_TTL", ""), DefaultTokenTTL),
		AllowedOrigins: origins,
		StoreBackend:   backend,
		DataPath:       getEnv("DATA_PATH", DefaultDataPath),
		RedisURI:       getEnv("REDIS_URI", "redis://localhost:6379/0"),
		RedisKey:       getEnv("REDIS_KEY", "codinglearn:db"),
		Environment:    strings.ToLower(strings.TrimSpace(getEnv("ENV", "development"))),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		MaxBodyBytes:   parseInt64(getEnv("MAX_BODY_BYTES", ""), DefaultMaxBodyBytes),
	}
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// UsesDefaultSecret reports whether tokens are signed with the development secret.
func (c *Config) UsesDefaultSecret() bool {
	return c.JWTSecret == DefaultJWTSecret
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

func parseInt64(s string, fallback int64) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
