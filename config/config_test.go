package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "user-service", cfg.AppName)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, "db/migrations", cfg.MigrationsDir)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TOKEN_TTL", "15m")
	t.Setenv("DB_NAME", "otherdb")
	t.Setenv("DEBUG_METRICS_ENABLED", "true")

	cfg := Load()

	assert.Equal(t, 15*time.Minute, cfg.TokenTTL)
	assert.Equal(t, "otherdb", cfg.DBName)
	assert.True(t, cfg.DebugMetricsEnabled)
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{
		DBUser: "app", DBPassword: "secret", DBHost: "db", DBPort: "5432",
		DBName: "usersdb", DBSSLMode: "disable",
	}
	assert.Equal(t, "postgres://app:secret@db:5432/usersdb?sslmode=disable", cfg.PostgresDSN())
}

func TestCORSOrigins(t *testing.T) {
	cfg := &Config{CORSAllowedOrigins: "http://a.com, http://b.com,"}
	assert.Equal(t, []string{"http://a.com", "http://b.com"}, cfg.CORSOrigins())
}
