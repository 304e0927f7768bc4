package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type RosterSource string

const (
	RosterSourcePostgres  RosterSource = "postgres"
	RosterSourceFirestore RosterSource = "firestore"
)

type Config struct {
	DatabaseURL  string
	JWTSecretKey string
	ServerPort   int
	LogLevel     slog.Level

	AllowedOrigins []string

	// RedisURL enables the shared submission guard. Empty means an
	// in-process guard.
	RedisURL           string
	SubmissionGuardTTL time.Duration

	RosterSource            RosterSource
	FirebaseProjectID       string
	FirebaseCredentialsJSON string

	R2 R2Config
}

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicBaseURL   string
}

// Enabled reports whether every R2 setting is present.
func (c R2Config) Enabled() bool {
	return c.AccountID != "" && c.AccessKeyID != "" && c.SecretAccessKey != "" &&
		c.BucketName != "" && c.PublicBaseURL != ""
}

// Load reads the configuration from the environment, after loading a .env
// file when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv. Invalid values are errors, never
// silently replaced by defaults.
func FromEnv(getenv func(string) string) (*Config, error) {
	dbURL := getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, errors.New("DATABASE_URL environment variable is not set")
	}

	jwtKey := getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, errors.New("JWT_SECRET_KEY environment variable is not set")
	}

	portStr := getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	level, err := parseLogLevel(getenv("LOG_LEVEL"))
	if err != nil {
		return nil, err
	}

	ttl := 15 * time.Second
	if raw := getenv("SUBMISSION_GUARD_TTL"); raw != "" {
		ttl, err = time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SUBMISSION_GUARD_TTL environment variable: %w", err)
		}
		if ttl <= 0 {
			return nil, fmt.Errorf("SUBMISSION_GUARD_TTL must be positive, got %s", ttl)
		}
	}

	cfg := &Config{
		DatabaseURL:             dbURL,
		JWTSecretKey:            jwtKey,
		ServerPort:              port,
		LogLevel:                level,
		AllowedOrigins:          splitList(getenv("CORS_ALLOWED_ORIGINS")),
		RedisURL:                getenv("REDIS_URL"),
		SubmissionGuardTTL:      ttl,
		RosterSource:            RosterSourcePostgres,
		FirebaseProjectID:       getenv("FIREBASE_PROJECT_ID"),
		FirebaseCredentialsJSON: getenv("FIREBASE_CREDENTIALS_JSON"),
		R2: R2Config{
			AccountID:       getenv("R2_ACCOUNT_ID"),
			AccessKeyID:     getenv("R2_ACCESS_KEY_ID"),
			SecretAccessKey: getenv("R2_SECRET_ACCESS_KEY"),
			BucketName:      getenv("R2_BUCKET_NAME"),
			PublicBaseURL:   getenv("R2_PUBLIC_BASE_URL"),
		},
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	switch src := RosterSource(strings.ToLower(getenv("ROSTER_SOURCE"))); src {
	case "", RosterSourcePostgres:
	case RosterSourceFirestore:
		if cfg.FirebaseProjectID == "" || cfg.FirebaseCredentialsJSON == "" {
			return nil, errors.New("ROSTER_SOURCE=firestore requires FIREBASE_PROJECT_ID and FIREBASE_CREDENTIALS_JSON")
		}
		cfg.RosterSource = src
	default:
		return nil, fmt.Errorf("ROSTER_SOURCE must be %q or %q, got %q", RosterSourcePostgres, RosterSourceFirestore, src)
	}

	return cfg, nil
}

func parseLogLevel(raw string) (slog.Level, error) {
	switch strings.ToLower(raw) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", raw)
	}
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
