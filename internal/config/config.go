package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port      string
	Env       string
	JWTSecret string

	DB     DatabaseConfig
	HTTP   HTTPConfig
	Auth   AuthConfig
	Worker WorkerConfig
}

// DatabaseConfig contains PostgreSQL connection parameters for the document store.
type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	Name           string
	SSLMode        string
	MigrationsPath string
}

// HTTPConfig contains server behaviour settings.
type HTTPConfig struct {
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

// AuthConfig bounds invalid authentication attempts per client IP.
type AuthConfig struct {
	MaxInvalidAttempts int
	InvalidWindow      time.Duration
}

// WorkerConfig contains background job intervals. A zero interval disables the job.
type WorkerConfig struct {
	TrashPurgeInterval time.Duration
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Missing .env is fine: production relies on real environment variables.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")

	// Database
	cfg.DB = DatabaseConfig{
		Host:           getEnv("DB_HOST", ""),
		Port:           getEnv("DB_PORT", "5432"),
		User:           getEnv("DB_USER", ""),
		Password:       getEnv("DB_PASSWORD", ""),
		Name:           getEnv("DB_NAME", ""),
		SSLMode:        getEnv("DB_SSLMODE", "disable"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "file://migrations"),
	}

	cfg.HTTP.AllowedOrigins = splitList(getEnv("CORS_ALLOWED_HOSTS", "localhost:4200,127.0.0.1:4200"))
	cfg.Auth.MaxInvalidAttempts = getEnvInt("AUTH_MAX_INVALID_ATTEMPTS", 5)

	var err error
	if cfg.HTTP.ShutdownTimeout, err = parseDurationEnv("SHUTDOWN_TIMEOUT", "10s"); err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}
	if cfg.Auth.InvalidWindow, err = parseDurationEnv("AUTH_INVALID_WINDOW", "1m"); err != nil {
		return nil, fmt.Errorf("invalid AUTH_INVALID_WINDOW: %w", err)
	}
	if cfg.Worker.TrashPurgeInterval, err = parseDurationEnv("TRASH_PURGE_INTERVAL", "0s"); err != nil {
		return nil, fmt.Errorf("invalid TRASH_PURGE_INTERVAL: %w", err)
	}

	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set for authentication")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
