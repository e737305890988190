package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SellerPanelPlatform/internal/config"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "168h", cfg.Auth.SessionTTL)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, 6, cfg.Auth.PasswordMinLength)
	assert.False(t, cfg.Auth.RefreshExtendsExpiry)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.RabbitMQ.Enabled)
}

func TestLoadConfig_FromFile(t *testing.T) {
	content := `
environment: prod
server:
  port: 9090
auth:
  session_ttl: "24h"
  refresh_extends_expiry: true
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Environment)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTTLDuration())
	assert.True(t, cfg.Auth.RefreshExtendsExpiry)
	// Незатронутые секции сохраняют значения по умолчанию
	assert.Equal(t, "localhost", cfg.Database.Host)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "staging")
	t.Setenv("SERVER_PORT", "8888")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, 8888, cfg.Server.Port)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: ["), 0o644))

	_, err := config.LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"invalid port", func(c *config.Config) { c.Server.Port = 0 }},
		{"invalid session ttl", func(c *config.Config) { c.Auth.SessionTTL = "seven days" }},
		{"bcrypt cost too low", func(c *config.Config) { c.Auth.BcryptCost = 2 }},
		{"bcrypt cost too high", func(c *config.Config) { c.Auth.BcryptCost = 42 }},
		{"password min length", func(c *config.Config) { c.Auth.PasswordMinLength = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.LoadConfig("")
			require.NoError(t, err)

			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSessionTTLDuration_Fallback(t *testing.T) {
	auth := &config.AuthConfig{SessionTTL: "garbage"}
	assert.Equal(t, 7*24*time.Hour, auth.SessionTTLDuration())
}

func TestParseServerDuration(t *testing.T) {
	assert.Equal(t, 5*time.Second, config.ParseServerDuration("5s", time.Minute))
	assert.Equal(t, time.Minute, config.ParseServerDuration("bad", time.Minute))
}
