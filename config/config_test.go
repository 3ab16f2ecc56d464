package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
http:
  address: ":9090"
  strict_authorization_status: true
database:
  host: db
  port: 5432
  user: app
  password: secret
  name: staybooking
kafka:
  brokers: ["kafka:9092"]
  booking_events_topic: booking-events
booking:
  cancellation_window_hours: 72
  time_zone: America/Bogota
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Address)
	assert.True(t, cfg.HTTP.StrictAuthorizationStatus)
	assert.Equal(t, []string{"kafka:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 72*time.Hour, cfg.Booking.CancellationWindow())
	assert.Equal(t, "host=db port=5432 user=app password=secret dbname=staybooking sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, 100, cfg.Booking.MaxPageSize)
	assert.Equal(t, "America/Bogota", cfg.Booking.Location().String())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("auth:\n  jwt_secret: from-file\n"), 0o600))

	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DATABASE_PASSWORD", "pw")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, "pw", cfg.Database.Password)
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDefaults(t *testing.T) {
	var cfg Config
	cfg.Defaults()

	assert.Equal(t, 48*time.Hour, cfg.Booking.CancellationWindow())
	assert.Equal(t, 30*time.Second, cfg.Booking.RequestLockTTL())
	assert.Equal(t, time.UTC, cfg.Booking.Location())
	assert.Equal(t, 10, cfg.Worker.CompletionSweepMinutes)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestDefaults_NegativeSweepInterval(t *testing.T) {
	cfg := Config{Worker: WorkerConfig{CompletionSweepMinutes: -5}}
	cfg.Defaults()

	assert.Equal(t, 10, cfg.Worker.CompletionSweepMinutes)
}

func TestLocation_Invalid(t *testing.T) {
	b := BookingConfig{TimeZone: "Not/AZone"}
	assert.Equal(t, time.UTC, b.Location())
}
