package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
app:
  port: 9090
  gin_mode: test

database:
  dsn: "host=db user=u dbname=d"

redis:
  addr: "redis:6379"
  password: "pw"
  db: 2

jwt:
  secret: "file-secret"
  issuer: "test-issuer"
  access_ttl: "10m"
  challenge_ttl: "3m"

totp:
  issuer: "TestApp"
  digits: 6
  period_seconds: 30
  skew_steps: 1
  secret_size: 20
  reactivation_grace: "5m"

session:
  idle_timeout: "45m"
  sweep_interval: "2m"

casbin:
  model_path: "config/casbin_model.conf"

twilio:
  account_sid: ""
  auth_token: ""
  from_number: ""
  alert_to: ""
`

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFrom(t *testing.T) {
	cfg, err := LoadFrom(writeTestConfig(t, testYAML))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "test", cfg.GinMode)
	assert.Equal(t, "host=db user=u dbname=d", cfg.DSN)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, "file-secret", cfg.JWTSecret)
	assert.Equal(t, 10*time.Minute, cfg.AccessTTL)
	assert.Equal(t, 3*time.Minute, cfg.ChallengeTTL)
	assert.Equal(t, "TestApp", cfg.TOTPIssuer)
	assert.Equal(t, 5*time.Minute, cfg.ReactivationGrace)
	assert.Equal(t, 45*time.Minute, cfg.SessionIdleTimeout)
	assert.Equal(t, 2*time.Minute, cfg.SessionSweepInterval)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_DSN", "host=override")
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := LoadFrom(writeTestConfig(t, testYAML))
	require.NoError(t, err)

	assert.Equal(t, "host=override", cfg.DSN)
	assert.Equal(t, "env-secret", cfg.JWTSecret)
}

func TestLoadFromBadDuration(t *testing.T) {
	path := writeTestConfig(t,
		"jwt:\n  secret: x\n  issuer: x\n  access_ttl: \"not-a-duration\"\n  challenge_ttl: \"5m\"\n"+
			"totp:\n  reactivation_grace: \"5m\"\nsession:\n  idle_timeout: \"30m\"\n  sweep_interval: \"5m\"\n")

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestLoadFromMissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
