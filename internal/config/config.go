package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultAPIURL is the backend base endpoint used when nothing else is configured
	DefaultAPIURL = "http://localhost:8080/api"

	SessionBackendFile    = "file"
	SessionBackendKeyring = "keyring"
	SessionBackendSQLite  = "sqlite"
)

// Config holds all configuration for the application
type Config struct {
	// Client Configuration
	Client ClientConfig

	// Dev backend configuration
	Server ServerConfig

	// Logging Configuration
	Logging LoggingConfig
}

// ClientConfig holds configuration for the CLI
type ClientConfig struct {
	APIURL         string        // Overrides nutribattle.json when set
	SessionBackend string        // file, keyring, sqlite
	Home           string        // Directory holding durable client state
	Timeout        time.Duration // Per-request transport timeout
}

// ServerConfig holds configuration for the dev backend
type ServerConfig struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	CORSOrigins []string
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	backend := strings.ToLower(os.Getenv("NUTRIBATTLE_SESSION_BACKEND"))
	switch backend {
	case SessionBackendKeyring, SessionBackendSQLite:
	default:
		backend = SessionBackendFile
	}

	// Per-request timeout, 30s unless overridden
	timeout := 30 * time.Second
	if raw := os.Getenv("NUTRIBATTLE_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			timeout = d
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// In-memory database by default, the dev backend is disposable
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbURL = "file::memory:?cache=shared"
	}

	var origins []string
	for _, origin := range strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}

	return &Config{
		Client: ClientConfig{
			APIURL:         strings.TrimRight(os.Getenv("NUTRIBATTLE_API_URL"), "/"),
			SessionBackend: backend,
			Home:           os.Getenv("NUTRIBATTLE_HOME"),
			Timeout:        timeout,
		},
		Server: ServerConfig{
			Port:        port,
			DatabaseURL: dbURL,
			JWTSecret:   os.Getenv("JWT_SECRET"),
			CORSOrigins: origins,
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
