package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "15")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_CONNECTION_STRING", "file::memory:")
	t.Setenv("RATE_LIMIT_RPS", "0.5")

	cfg := Load()

	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 15*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.InDelta(t, 0.5, cfg.RateLimit.RPS, 1e-9)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFallsBackOnMalformedNumbers(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "soon")
	t.Setenv("RATE_LIMIT_BURST", "")

	cfg := Load()

	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, 5, cfg.RateLimit.Burst)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Auth:     AuthConfig{JWTSecret: "", TokenTTL: time.Minute},
		Database: DatabaseConfig{Connection: "dsn"},
	}
	assert.EqualError(t, cfg.Validate(), "JWT_SECRET is not set")

	cfg.Auth.JWTSecret = "k"
	cfg.Auth.TokenTTL = 0
	assert.Error(t, cfg.Validate())

	cfg.Auth.TokenTTL = time.Minute
	cfg.Database.Connection = ""
	assert.EqualError(t, cfg.Validate(), "DB_CONNECTION_STRING is not set")
}
