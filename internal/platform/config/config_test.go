package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("JWT_SECRET", "access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret")
	t.Setenv("TICKET_QR_SECRET", "qr-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, 30*time.Minute, cfg.Booking.Hold)
	assert.Equal(t, 3, cfg.Booking.MaxExtensions)
	assert.Equal(t, 2*time.Hour, cfg.Booking.MaxHold)
	assert.Equal(t, time.Minute, cfg.Sweep.Interval)
	assert.Equal(t, 100, cfg.Sweep.Batch)
	assert.Equal(t, 100, cfg.RateLimit.Requests)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
	assert.False(t, cfg.VNPayEnabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("BOOKING_MAX_EXTENSIONS", "5")
	t.Setenv("SWEEP_INTERVAL", "30s")
	t.Setenv("VNPAY_TMN_CODE", "TMN01")
	t.Setenv("VNPAY_HASH_SECRET", "secret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, 5, cfg.Booking.MaxExtensions)
	assert.Equal(t, 30*time.Second, cfg.Sweep.Interval)
	assert.True(t, cfg.VNPayEnabled())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins())
}

func TestLoad_MissingSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_REFRESH_SECRET", "")
	t.Setenv("TICKET_QR_SECRET", "")

	_, err := Load("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "TICKET_QR_SECRET")
}

func TestLoad_RejectsNonPositiveRateLimit(t *testing.T) {
	setRequired(t)
	t.Setenv("RATE_LIMIT_WINDOW", "0s")

	_, err := Load("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RATE_LIMIT_WINDOW")

	t.Setenv("RATE_LIMIT_WINDOW", "1m")
	t.Setenv("RATE_LIMIT_REQUESTS", "0")

	_, err = Load("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RATE_LIMIT_REQUESTS")
}

func TestLoadEnv_DoesNotOverrideProcessEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\nTT_FROM_FILE=\"file\"\nexport TT_KEEP=file\n\nbroken-line\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("TT_KEEP", "process")
	t.Cleanup(func() { os.Unsetenv("TT_FROM_FILE") })

	loadEnv(path)

	assert.Equal(t, "file", os.Getenv("TT_FROM_FILE"))
	assert.Equal(t, "process", os.Getenv("TT_KEEP"))
}
