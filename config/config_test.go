package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DB_DRIVER", "DSN", "PORT", "FRONTEND_URL", "DB_MAX_CONNECTIONS", "LOG_JSON", "EXPORT_MAIL_TO", "CHECKIN_RATE_LIMIT", "CHECKIN_RATE_BURST", "TRUSTED_PROXIES"} {
		t.Setenv(key, "")
	}

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, "1337", cfg.Port)
	assert.Equal(t, "http://localhost:3000", cfg.FrontendURL)
	assert.Equal(t, 10, cfg.DBMaxConnections)
	assert.False(t, cfg.LogJSON)
	assert.Empty(t, cfg.ExportRecipients)
	assert.Equal(t, 5.0, cfg.CheckInRateLimit)
	assert.Equal(t, 10, cfg.CheckInBurst)
	assert.Empty(t, cfg.TrustedProxies)
}

func TestLoadDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DB_DRIVER=postgres\nPORT=8080\nEXPORT_MAIL_TO=a@x.lk, b@x.lk\n"), 0o600))

	t.Setenv("PORT", "9000")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("EXPORT_MAIL_TO", "")
	os.Unsetenv("DB_DRIVER")
	os.Unsetenv("EXPORT_MAIL_TO")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, []string{"a@x.lk", "b@x.lk"}, cfg.ExportRecipients)
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"DB_MAX_CONNECTIONS", "many"},
		{"CHECKIN_RATE_LIMIT", "fast"},
		{"LOG_JSON", "maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			assert.ErrorContains(t, err, tt.key)
		})
	}
}

func TestDatabaseDSN(t *testing.T) {
	cfg := &Config{DSN: "user:pw@tcp(localhost)/alumni"}
	dsn, err := cfg.DatabaseDSN(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user:pw@tcp(localhost)/alumni", dsn)

	_, err = (&Config{}).DatabaseDSN(context.Background())
	assert.Error(t, err)
}
