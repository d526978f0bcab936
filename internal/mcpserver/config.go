package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/jirutka/openapi-cli/bundler"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Cache settings.
	CacheEnabled       bool
	CacheMaxSize       int
	CacheFileTTL       time.Duration
	CacheURLTTL        time.Duration
	CacheContentTTL    time.Duration
	CacheSweepInterval time.Duration

	// Pagination defaults for findings.
	Limit    int
	MaxLimit int

	// Input limits.
	MaxInlineSize   int64
	AllowPrivateIPs bool
	// AllowRemote lets file and inline inputs follow http(s) references.
	AllowRemote bool

	// ConfigPath names a configuration file whose rule settings apply to
	// every lint call.
	ConfigPath string

	// Bundle tool default.
	BundleMode bundler.Mode
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from OPENAPI_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		CacheEnabled:       envBool("OPENAPI_CACHE_ENABLED", true),
		CacheMaxSize:       envInt("OPENAPI_CACHE_MAX_SIZE", 10),
		CacheFileTTL:       envDuration("OPENAPI_CACHE_FILE_TTL", 15*time.Minute),
		CacheURLTTL:        envDuration("OPENAPI_CACHE_URL_TTL", 5*time.Minute),
		CacheContentTTL:    envDuration("OPENAPI_CACHE_CONTENT_TTL", 15*time.Minute),
		CacheSweepInterval: envDuration("OPENAPI_CACHE_SWEEP_INTERVAL", 60*time.Second),
		Limit:              envInt("OPENAPI_MCP_LIMIT", 100),
		MaxLimit:           envInt("OPENAPI_MCP_MAX_LIMIT", 1000),
		MaxInlineSize:      int64(envInt("OPENAPI_MAX_INLINE_SIZE", 10*1024*1024)),
		AllowPrivateIPs:    envBool("OPENAPI_ALLOW_PRIVATE_IPS", false),
		AllowRemote:        envBool("OPENAPI_ALLOW_REMOTE", true),
		ConfigPath:         os.Getenv("OPENAPI_CONFIG"),
		BundleMode:         envMode("OPENAPI_BUNDLE_MODE", bundler.ModeComponents),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

func envMode(key string, fallback bundler.Mode) bundler.Mode {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	m, err := bundler.ParseMode(v)
	if err != nil {
		slog.Warn("invalid bundle mode env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return m
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return d
}
