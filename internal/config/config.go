package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	KVPath     string        // path to the local key-value database (guest data)
	SessionTTL time.Duration // lifetime of issued session tokens

	SeedFile       string        // optional yaml file of websites to import on startup
	SeedUserEmail  string        // account the seed records belong to
	ReloadInterval time.Duration // interval to re-import the seed file (default: 24h)

	IconBackfillInterval time.Duration // interval to backfill missing icon URLs

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

	// Rate limiting on auth endpoints
	AuthRateBurst  int  // burst size per client IP
	AuthRateRefill int  // tokens refilled per IP per minute
	TrustProxy     bool // true => trust X-Forwarded-For headers
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("WEBSPOT_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("WEBSPOT_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("WEBSPOT_LOG_LEVEL", "info"),
		PrettyLog: mustBool("WEBSPOT_PRETTY_LOG", true),

		// Local storage & sessions
		KVPath:     getenv("WEBSPOT_KV_PATH", "/app/data/webspot.db"),
		SessionTTL: mustDuration("WEBSPOT_SESSION_TTL", 24*time.Hour),

		// Seed import (optional, empty = disabled)
		SeedFile:       getenv("WEBSPOT_SEED_FILE", ""),
		SeedUserEmail:  getenv("WEBSPOT_SEED_USER", ""),
		ReloadInterval: mustDuration("WEBSPOT_RELOAD_SEED_INTERVAL", 24*time.Hour),

		IconBackfillInterval: mustDuration("WEBSPOT_ICON_BACKFILL_INTERVAL", 24*time.Hour),

		// Redis settings
		RedisAddr:             requireEnv("WEBSPOT_REDIS_ADDR"),
		RedisUser:             getenv("WEBSPOT_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("WEBSPOT_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("WEBSPOT_REDIS_PASSWORD", ""),
		RedisDB:               requireEnvInt("WEBSPOT_REDIS_DB"),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Rate limiting
		AuthRateBurst:  getenvInt("WEBSPOT_AUTH_RATE_BURST", 10),
		AuthRateRefill: getenvInt("WEBSPOT_AUTH_RATE_REFILL", 20),
		TrustProxy:     mustBool("WEBSPOT_TRUST_PROXY", true),
	}

	// Validate Redis password configuration
	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: WEBSPOT_REDIS_PASSWORD is required when WEBSPOT_REDIS_PASSWORD_REQUIRED=true")
	}

	// Seeding needs both the file and the owning account
	if cfg.SeedFile != "" && cfg.SeedUserEmail == "" {
		panic("❌ FATAL: WEBSPOT_SEED_USER is required when WEBSPOT_SEED_FILE is set")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
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
