package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Auth contains configuration related to authentication and JWTs
type Auth struct {
	SecretKey string        // JWT signing key for access tokens
	TokenTTL  time.Duration // Time-to-live for access tokens
	JWTIssuer string        // Issuer claim stamped on every token
}

// Postgres contains configuration for the metadata store connection
type Postgres struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// DSN assembles the connection string for the postgres driver.
func (p Postgres) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}

// Minio contains configuration for the blob store
type Minio struct {
	Endpoint  string // host:port of the MinIO server
	AccessKey string
	SecretKey string
	Bucket    string // bucket holding all file blobs, keyed by File.ID
	UseSSL    bool
}

// HTTP contains configuration for the HTTP server
type HTTP struct {
	Port string // Port for the server to listen on, e.g. ":8000"
}

// Config is the top-level struct holding all application configuration
type Config struct {
	Auth     Auth
	Postgres Postgres
	Minio    Minio
	HTTP     HTTP
	Debug    bool // enables development logging
}

// Load reads configuration from environment variables and returns a populated
// Config struct. It uses helper functions to read specific types and provide
// default values.
func Load() (*Config, error) {
	pgPort, err := getenvInt("POSTGRES_PORT", 5432)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Debug: getenvBool("DEBUG", false),

		Auth: Auth{
			SecretKey: getenvStr("JWT_SECRET_KEY", ""),
			TokenTTL:  60 * time.Minute,
			JWTIssuer: "fileforge",
		},
		Postgres: Postgres{
			Host:     getenvStr("POSTGRES_HOST", "localhost"),
			Port:     pgPort,
			User:     getenvStr("POSTGRES_USER", "postgres"),
			Password: getenvStr("POSTGRES_PASSWORD", "postgres"),
			Database: getenvStr("POSTGRES_DB", "fileforge"),
			SSLMode:  getenvStr("POSTGRES_SSLMODE", "disable"),
		},
		Minio: Minio{
			Endpoint:  getenvStr("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getenvStr("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getenvStr("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getenvStr("MINIO_BUCKET", "fileforge"),
			UseSSL:    getenvBool("MINIO_USE_SSL", false),
		},
		HTTP: HTTP{
			Port: getenvStr("PORT", ":8000"),
		},
	}

	if cfg.Auth.SecretKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY must be set")
	}

	return cfg, nil
}

// -------Helper Functions----------

// getenvStr retrieves a string environment variable or returns a default
func getenvStr(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getenvBool retrieves a boolean environment variable or returns a default value
func getenvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

// getenvInt retrieves an integer environment variable or returns a default value.
func getenvInt(key string, fallback int) (int, error) {
	if value, ok := os.LookupEnv(key); ok {
		i, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid value for %s: %w", key, err)
		}
		return i, nil
	}
	return fallback, nil
}
