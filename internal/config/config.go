package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Admin surface
	AdminPassword string        // shared admin secret, checked trimmed + case-insensitive
	SessionTTL    time.Duration // lifetime of one admin session token

	// External search API
	SearchAPIURL   string // base URL of the search endpoint
	SearchAPIKey   string // API key
	SearchEngineID string // engine/cx identifier
	SuggestAPIURL  string // suggestion endpoint (firefox-style payload)
	GeoAPIURL      string // ipapi-style geolocation endpoint

	// Promotions
	SeedFile       string        // optional yaml seed file (empty = no seeding)
	ReloadInterval time.Duration // interval to refresh the promotion index (default: 15m)

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedOrigins []string // CORS origins for the browser front-end ("*" allowed)
	TrustProxy     bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("VDS_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("VDS_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("VDS_LOG_LEVEL", "info"),
		PrettyLog: mustBool("VDS_PRETTY_LOG", true),

		// Admin
		AdminPassword: requireEnv("VDS_ADMIN_PASSWORD"),
		SessionTTL:    mustDuration("VDS_SESSION_TTL", 12*time.Hour),

		// Search API
		SearchAPIURL:   getenv("VDS_SEARCH_API_URL", "https://www.googleapis.com/customsearch/v1"),
		SearchAPIKey:   requireEnv("VDS_SEARCH_API_KEY"),
		SearchEngineID: requireEnv("VDS_SEARCH_ENGINE_ID"),
		SuggestAPIURL:  getenv("VDS_SUGGEST_API_URL", "https://suggestqueries.google.com/complete/search"),
		GeoAPIURL:      getenv("VDS_GEO_API_URL", "https://ipapi.co"),

		// Promotions
		SeedFile:       getenv("VDS_SEED_FILE", ""), // Optional, empty = seeding disabled
		ReloadInterval: mustDuration("VDS_RELOAD_INTERVAL", 15*time.Minute),

		// Redis settings
		RedisAddr:             requireEnv("VDS_REDIS_ADDR"),
		RedisUser:             getenv("VDS_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("VDS_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("VDS_REDIS_PASSWORD", ""),
		RedisDB:               requireEnvInt("VDS_REDIS_DB"),
		RedisDT:               mustDuration("VDS_REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("VDS_REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("VDS_REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("VDS_REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("VDS_REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("VDS_REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("VDS_REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("VDS_REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("VDS_REDIS_WARN_THRESHOLD", 3),

		// Browser access
		AllowedOrigins: splitAndTrim(getenv("VDS_ALLOWED_ORIGINS", "*")),
		TrustProxy:     mustBool("VDS_TRUST_PROXY", true),
	}

	// Validate Redis password configuration
	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: VDS_REDIS_PASSWORD is required when VDS_REDIS_PASSWORD_REQUIRED=true")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		cfgCopy.AdminPassword = "***REDACTED***"
		cfgCopy.SearchAPIKey = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func requireEnvInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
	}
	return i
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
