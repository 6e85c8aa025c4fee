package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Driver names a supported storage backend.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Seed     SeedConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string
	ReadTimeout        int
	WriteTimeout       int
	CORSAllowedOrigins string // comma-separated, or "*" for all
	StaticDir          string
}

// DatabaseConfig holds storage settings.
type DatabaseConfig struct {
	URL      string // postgres://, postgresql:// or sqlite:///<path>; empty means SQLite at File
	File     string
	MaxConns int
}

// SeedConfig controls the activity catalogue used for seeding.
type SeedConfig struct {
	File string // empty uses the embedded catalogue
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string
}

// Resolve reports which storage backend the configuration selects and the
// connection string to hand it. PostgreSQL URLs are returned as-is. SQLite
// URLs follow the SQLAlchemy form: sqlite:///data.db is the relative file
// data.db and sqlite:////var/lib/data.db is absolute. An empty URL selects
// SQLite at File. Any other scheme is an error.
func (c DatabaseConfig) Resolve() (Driver, string, error) {
	raw := strings.TrimSpace(c.URL)
	if raw == "" {
		if c.File != "" {
			return DriverSQLite, c.File, nil
		}
		return DriverSQLite, "data.db", nil
	}

	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return "", "", errors.New("DATABASE_URL must be a postgres:// or sqlite:/// URL")
	}
	switch strings.ToLower(scheme) {
	case "postgres", "postgresql":
		return DriverPostgres, raw, nil
	case "sqlite":
		path, ok := strings.CutPrefix(rest, "/")
		if !ok || path == "" {
			return "", "", errors.New("DATABASE_URL: sqlite URL needs a file path, e.g. sqlite:///data.db")
		}
		return DriverSQLite, path, nil
	default:
		return "", "", fmt.Errorf("DATABASE_URL: unsupported scheme %q", scheme)
	}
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			ReadTimeout:        getEnvInt("READ_TIMEOUT_SEC", 30),
			WriteTimeout:       getEnvInt("WRITE_TIMEOUT_SEC", 30),
			CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			StaticDir:          getEnv("STATIC_DIR", "static"),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			File:     getEnv("DATABASE_FILE", "data.db"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 4),
		},
		Seed: SeedConfig{
			File: getEnv("SEED_FILE", ""),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}
	if _, _, err := cfg.Database.Resolve(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
