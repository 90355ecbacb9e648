package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[server]
http_port = 9090

[database]
host = "db"
port = 5433
user = "svc"
password = "secret"
dbname = "booking"

[booking]
admin_key = "from-file"
confirmation_window_hours = 24

[metrics]
enabled = true
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 10, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "db", cfg.Database.Host)
	assert.Equal(t, 24, cfg.Booking.ConfirmationWindowHours)
	assert.Equal(t, 30, cfg.Booking.SlotGranularityMinutes)
	assert.Equal(t, 5, cfg.Booking.CreateTimeoutSeconds)
	assert.Equal(t, "reservation_notifications", cfg.RabbitMQ.Queue)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("BOOKING_ADMIN_KEY", "from-env")
	t.Setenv("DATABASE_PORT", "6543")
	t.Setenv("REDIS_ENABLED", "true")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Booking.AdminKey)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.True(t, cfg.Redis.Enabled)
}

func TestLoad_MissingAdminKey(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_InvalidEnvValue(t *testing.T) {
	t.Setenv("SERVER_HTTP_PORT", "not-a-number")

	_, err := Load(writeConfig(t, sampleConfig))
	assert.Error(t, err)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "svc", Password: "p@ss", DBName: "booking", SSLMode: "disable"}
	assert.Equal(t, "postgres://svc:p%40ss@db:5432/booking?sslmode=disable", d.DSN())
}
