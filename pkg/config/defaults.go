// Package config provides centralized default values for MarketBridge
package config

import (
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		if err := godotenv.Load(); err == nil {
			log.Println("Loading configuration overrides from .env file...")
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%t (default: %t)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	// Secrets
	JWTSecret     string
	AESKey        string
	AdminPassword string

	// Database
	SQLitePath               string
	TursoDatabase            string
	TursoToken               string
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeMinutes int
	DBConnMaxIdleMinutes     int

	// Session cookie policy
	SessionCookieName   string
	SessionCookieMaxAge time.Duration
	SessionCookieSecure bool

	// Cookie validation bounds
	MaxCookieNameLength  int
	MaxCookieValueLength int

	// Health monitor
	MonitorProbeInterval    time.Duration
	MonitorFailureThreshold int
	ProbeTimeout            time.Duration

	// Identity derivation
	IdentityHashIterations int

	// Email alerts
	ResendAPIKey   string
	AlertEmailTo   string
	AlertEmailFrom string

	// Websocket health stream
	MonitorBroadcastInterval time.Duration
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)

	// Secrets
	JWTSecret = getEnvString("JWT_SECRET", "")
	AESKey = getEnvString("AES_KEY", "")
	AdminPassword = getEnvString("ADMIN_PASSWORD", "")

	// Database
	SQLitePath = getEnvString("SQLITE_PATH", "data/marketbridge.db")
	TursoDatabase = getEnvString("TURSO_DATABASE_URL", "")
	TursoToken = getEnvString("TURSO_AUTH_TOKEN", "")
	DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	DBConnMaxLifetimeMinutes = getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)
	DBConnMaxIdleMinutes = getEnvInt("DB_CONN_MAX_IDLE_MINUTES", 3)

	// Session cookie policy
	SessionCookieName = getEnvString("SESSION_COOKIE_NAME", "internalSessionToken")
	SessionCookieMaxAge = time.Duration(getEnvInt("SESSION_COOKIE_MAX_AGE_DAYS", 7)) * 24 * time.Hour
	SessionCookieSecure = getEnvBool("SESSION_COOKIE_SECURE", false)

	// Cookie validation bounds
	MaxCookieNameLength = getEnvInt("MAX_COOKIE_NAME_LENGTH", 256)
	MaxCookieValueLength = getEnvInt("MAX_COOKIE_VALUE_LENGTH", 4096)

	// Health monitor
	MonitorProbeInterval = time.Duration(getEnvInt("MONITOR_PROBE_INTERVAL_SECONDS", 45)) * time.Second
	MonitorFailureThreshold = getEnvInt("MONITOR_FAILURE_THRESHOLD", 3)
	ProbeTimeout = time.Duration(getEnvInt("PROBE_TIMEOUT_SECONDS", 10)) * time.Second

	// Identity derivation
	IdentityHashIterations = getEnvInt("IDENTITY_HASH_ITERATIONS", 65536)

	// Email alerts
	ResendAPIKey = getEnvString("RESEND_API_KEY", "")
	AlertEmailTo = getEnvString("ALERT_EMAIL_TO", "")
	AlertEmailFrom = getEnvString("ALERT_EMAIL_FROM", "alerts@marketbridge.local")

	// Websocket health stream
	MonitorBroadcastInterval = time.Duration(getEnvInt("MONITOR_BROADCAST_INTERVAL_SECONDS", 20)) * time.Second
}
