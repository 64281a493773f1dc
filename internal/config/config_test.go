package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0644))
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()
	dir := writeConfig(t, `
server:
  port: "8080"
  mode: debug
jwt:
  secret: test-secret
  expire_hours: 72
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 72*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, 72, cfg.Authoring.SessionIdleHours)
	assert.Equal(t, 30, cfg.Authoring.PurgeAfterDays)
	assert.Equal(t, 24, cfg.Authoring.IdempotencyTTLHours)
	assert.Equal(t, 60, cfg.Catalog.CacheTTLSeconds)
	assert.Equal(t, 100000, cfg.RateLimit.MaxRequests)
	assert.Equal(t, 1, cfg.RateLimit.WindowMinutes)
}

func TestLoadConfigRateLimitAndCORS(t *testing.T) {
	viper.Reset()
	dir := writeConfig(t, `
server:
  port: "8080"
  mode: debug
jwt:
  secret: test-secret
  expire_hours: 24
cors:
  allowed_origins:
    - http://localhost:3000
    - https://studio.example.com
rate_limit:
  max_requests: 500
  window_minutes: 5
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"http://localhost:3000", "https://studio.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 500, cfg.RateLimit.MaxRequests)
	assert.Equal(t, 5, cfg.RateLimit.WindowMinutes)
}

func TestLoadConfigRejectsShortSecretInRelease(t *testing.T) {
	viper.Reset()
	dir := writeConfig(t, `
server:
  port: "8080"
  mode: release
jwt:
  secret: short
  expire_hours: 72
`)

	_, err := LoadConfig(dir)
	require.Error(t, err)
}
