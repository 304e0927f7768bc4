package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func baseEnv() map[string]string {
	return map[string]string{
		"DATABASE_URL":   "postgres://localhost/codm?sslmode=disable",
		"JWT_SECRET_KEY": "secret",
	}
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envOf(baseEnv()))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, 15*time.Second, cfg.SubmissionGuardTTL)
	assert.Equal(t, RosterSourcePostgres, cfg.RosterSource)
	assert.Empty(t, cfg.RedisURL)
	assert.False(t, cfg.R2.Enabled())
}

func TestFromEnvFull(t *testing.T) {
	env := baseEnv()
	env["SERVER_PORT"] = "9000"
	env["LOG_LEVEL"] = "DEBUG"
	env["CORS_ALLOWED_ORIGINS"] = "https://codm.example, https://admin.codm.example ,"
	env["REDIS_URL"] = "redis://localhost:6379/0"
	env["SUBMISSION_GUARD_TTL"] = "30s"
	env["ROSTER_SOURCE"] = "firestore"
	env["FIREBASE_PROJECT_ID"] = "codm-prod"
	env["FIREBASE_CREDENTIALS_JSON"] = `{"type":"service_account"}`
	env["R2_ACCOUNT_ID"] = "acc"
	env["R2_ACCESS_KEY_ID"] = "key"
	env["R2_SECRET_ACCESS_KEY"] = "secret"
	env["R2_BUCKET_NAME"] = "archives"
	env["R2_PUBLIC_BASE_URL"] = "https://cdn.codm.example"

	cfg, err := FromEnv(envOf(env))
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.ServerPort)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, []string{"https://codm.example", "https://admin.codm.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 30*time.Second, cfg.SubmissionGuardTTL)
	assert.Equal(t, RosterSourceFirestore, cfg.RosterSource)
	assert.True(t, cfg.R2.Enabled())
}

func TestFromEnvErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(env map[string]string)
		want   string
	}{
		{"missing database url", func(env map[string]string) { delete(env, "DATABASE_URL") }, "DATABASE_URL"},
		{"missing jwt secret", func(env map[string]string) { delete(env, "JWT_SECRET_KEY") }, "JWT_SECRET_KEY"},
		{"port not a number", func(env map[string]string) { env["SERVER_PORT"] = "http" }, "SERVER_PORT"},
		{"port out of range", func(env map[string]string) { env["SERVER_PORT"] = "70000" }, "SERVER_PORT"},
		{"unknown log level", func(env map[string]string) { env["LOG_LEVEL"] = "trace" }, "LOG_LEVEL"},
		{"bad guard ttl", func(env map[string]string) { env["SUBMISSION_GUARD_TTL"] = "soon" }, "SUBMISSION_GUARD_TTL"},
		{"negative guard ttl", func(env map[string]string) { env["SUBMISSION_GUARD_TTL"] = "-1s" }, "SUBMISSION_GUARD_TTL"},
		{"unknown roster source", func(env map[string]string) { env["ROSTER_SOURCE"] = "mongo" }, "ROSTER_SOURCE"},
		{"firestore without credentials", func(env map[string]string) {
			env["ROSTER_SOURCE"] = "firestore"
			env["FIREBASE_PROJECT_ID"] = "codm-prod"
		}, "FIREBASE_CREDENTIALS_JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := baseEnv()
			tt.mutate(env)

			cfg, err := FromEnv(envOf(env))
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestR2PartialConfigIsDisabled(t *testing.T) {
	r2 := R2Config{AccountID: "acc", AccessKeyID: "key", BucketName: "archives"}
	assert.False(t, r2.Enabled())
}
