package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTTL)
	assert.Equal(t, 3, cfg.Chat.AuthLeadLimit)
	assert.Equal(t, 5, cfg.Chat.GuestLeadLimit)
	assert.Equal(t, 5000, cfg.Maps.Radius)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("CHAT_GUEST_LEAD_LIMIT", "2")
	t.Setenv("CHAT_CONTEXT_TTL", "90m")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Chat.GuestLeadLimit)
	assert.Equal(t, 90*time.Minute, cfg.Chat.ContextTTL)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestLoadConfig_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}
