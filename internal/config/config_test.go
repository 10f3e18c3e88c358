package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSecretKey = "0123456789abcdef0123456789abcdef"

func TestLoad_MissingSecretKey(t *testing.T) {
	t.Setenv("SECRET_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SECRET_KEY")
}

func TestLoad_SecretKeyWrongLength(t *testing.T) {
	t.Setenv("SECRET_KEY", "too-short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "32 bytes")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SECRET_KEY", validSecretKey)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.True(t, cfg.Server.IsDevelopment())
	assert.Equal(t, 1800*time.Second, cfg.Auth.ResetTokenTTL)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionDuration)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address())
}

func TestLoad_ResetTokenTTLOverride(t *testing.T) {
	t.Setenv("SECRET_KEY", validSecretKey)
	t.Setenv("RESET_TOKEN_TTL", "600")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, cfg.Auth.ResetTokenTTL)
}

func TestLoad_InvalidDurationFallsBackToDefault(t *testing.T) {
	t.Setenv("SECRET_KEY", validSecretKey)
	t.Setenv("RESET_TOKEN_TTL", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1800*time.Second, cfg.Auth.ResetTokenTTL)
}

func TestDatabaseConnectionString(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     "5433",
		User:     "app",
		Password: "secret",
		DBName:   "contactdesk",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=app password=secret dbname=contactdesk sslmode=require",
		cfg.ConnectionString(),
	)
}

func TestTrustedOriginsParsing(t *testing.T) {
	t.Setenv("SECRET_KEY", validSecretKey)
	t.Setenv("TRUSTED_ORIGINS", "https://a.example.com, https://b.example.com ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.TrustedOrigins)
}
