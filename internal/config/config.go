package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const PROD_STRING = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction      bool
	ProdOrigins       string
	HTTPAddr          string
	DBDSN             string
	DBMaxConns        int
	DBTraceQueries    bool
	JWTSecret         string
	JWTAccessTokenTTL time.Duration
	BcryptCost        int
	LogLevel          string
	LogFormat         string
	StoragePath       string
	MaxPhotoBytes     int64
	MetricsPath       string
	Policy            Policy
}

// Policy holds the tunable business rules, optionally read from a TOML file.
type Policy struct {
	Booking BookingPolicy `toml:"booking"`
	Paging  PagingPolicy  `toml:"paging"`
}

// BookingPolicy decides how authorization failures surface and whether
// overlapping approvals are refused.
type BookingPolicy struct {
	ExposeForbidden            bool `toml:"expose_forbidden"`
	RejectOverlappingApprovals bool `toml:"reject_overlapping_approvals"`
}

// PagingPolicy bounds list endpoints.
type PagingPolicy struct {
	DefaultPageSize int `toml:"default_page_size"`
	MaxPageSize     int `toml:"max_page_size"`
}

// DefaultPolicy hides authorization failures behind not-found answers and
// refuses overlapping approvals.
func DefaultPolicy() Policy {
	return Policy{
		Booking: BookingPolicy{
			ExposeForbidden:            false,
			RejectOverlappingApprovals: true,
		},
		Paging: PagingPolicy{
			DefaultPageSize: 10,
			MaxPageSize:     100,
		},
	}
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		log.Printf("failed to load .env file: %v", err)
	}

	cfg := &Config{}

	// Production origin (default: empty)
	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")

	// Application environment (default: dev)
	appEnvStr := getEnv("APP_ENV", "dev")
	cfg.IsProduction = appEnvStr == PROD_STRING

	// HTTP listen address (default: :8080)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	// Database DSN is required
	cfg.DBDSN = os.Getenv("DB_DSN")
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required")
	}

	// Zero keeps pgxpool's default
	cfg.DBMaxConns, err = getEnvAsInt("DB_MAX_CONNS", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	cfg.DBTraceQueries = getEnv("DB_TRACE_QUERIES", "false") == "true"

	// JWT secret is required for signing tokens
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	// JWT access token TTL, parse as time.Duration (e.g. "15m", "1h").
	ttlStr := getEnv("JWT_ACCESS_TOKEN_TTL", "15m")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_TOKEN_TTL: %w", err)
	}
	cfg.JWTAccessTokenTTL = ttl

	// Bcrypt cost for password hashing (default: 12)
	cfg.BcryptCost, err = getEnvAsInt("BCRYPT_COST", 12)
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "json")
	cfg.StoragePath = getEnv("STORAGE_PATH", "./data")
	cfg.MetricsPath = getEnv("METRICS_PATH", "/metrics")

	// Photo upload limit in bytes (default: 5 MiB)
	maxPhoto, err := getEnvAsInt("MAX_PHOTO_BYTES", 5<<20)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_PHOTO_BYTES: %w", err)
	}
	cfg.MaxPhotoBytes = int64(maxPhoto)

	cfg.Policy, err = LoadPolicy(getEnv("POLICY_FILE", ""))
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadPolicy decodes the TOML policy file at path on top of DefaultPolicy.
// An empty path yields the defaults.
func LoadPolicy(path string) (Policy, error) {
	p := DefaultPolicy()
	if path == "" {
		return p, nil
	}

	if _, err := toml.DecodeFile(path, &p); err != nil {
		return Policy{}, fmt.Errorf("invalid POLICY_FILE %q: %w", path, err)
	}

	if p.Paging.DefaultPageSize <= 0 {
		return Policy{}, fmt.Errorf("paging.default_page_size must be positive, got %d", p.Paging.DefaultPageSize)
	}
	if p.Paging.MaxPageSize < p.Paging.DefaultPageSize {
		return Policy{}, fmt.Errorf("paging.max_page_size (%d) must be >= default_page_size (%d)",
			p.Paging.MaxPageSize, p.Paging.DefaultPageSize)
	}

	return p, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}
