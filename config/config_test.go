package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, `
database:
  host: localhost
  port: 5432
  user: events
  password: secret
  name: events
  ssl_mode: disable
kafka:
  brokers: ["localhost:9092"]
  booking_topic: bookings
auth:
  jwt_secret: test-secret
`)
	t.Setenv("DATABASE_PASSWORD", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, "BHD", cfg.Booking.Currency)
	assert.Equal(t, 30*time.Second, cfg.Booking.EventsCacheDuration())
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL())
	assert.Equal(t, "eventbooking-notifications", cfg.Kafka.GroupID)
	assert.Equal(t, "host=localhost port=5432 user=events password=secret dbname=events sslmode=disable", cfg.Database.DSN())
}

func TestLoadConfig_EnvOverridesSecrets(t *testing.T) {
	path := writeConfig(t, `
database:
  password: from-file
auth:
  jwt_secret: from-file
`)
	t.Setenv("DATABASE_PASSWORD", "from-env")
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
}

func TestLoadConfig_MissingSecret(t *testing.T) {
	path := writeConfig(t, "http:\n  address: \":9000\"\n")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "jwt_secret")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
