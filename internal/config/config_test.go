package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefaultConfig_NeedsSecret(t *testing.T) {
	cfg := DefaultConfig()
	assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET")

	cfg.Auth.JWTSecret = "s"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 3*time.Second, cfg.QueryTimeout())
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL())
	assert.Equal(t, time.Hour, cfg.CardCacheTTL())
}

func TestApplyEnv(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.applyEnv(envMap(map[string]string{
		"APP_ADDR":         ":9090",
		"JWT_SECRET":       "top",
		"ALLOWED_ORIGINS":  "http://a.test, http://b.test,",
		"ENABLE_HSTS":      "true",
		"RATE_LIMIT_BURST": "5",
		"DB_MAX_CONNS":     "32",
		"LOG_LEVEL":        "",
	}))
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.App.Addr)
	assert.Equal(t, "top", cfg.Auth.JWTSecret)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.HTTP.AllowedOrigins)
	assert.True(t, cfg.HTTP.EnableHSTS)
	assert.Equal(t, 5, cfg.HTTP.RateLimitBurst)
	assert.EqualValues(t, 32, cfg.Database.MaxConns)
	assert.Equal(t, "info", cfg.App.LogLevel, "empty values keep the default")
}

func TestApplyEnv_BadNumbers(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.applyEnv(envMap(map[string]string{
		"ENABLE_HSTS":    "sometimes",
		"MAX_BODY_BYTES": "big",
	}))
	assert.ErrorContains(t, err, "ENABLE_HSTS")
	assert.ErrorContains(t, err, "MAX_BODY_BYTES")
}

func TestValidate_Durations(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Auth.JWTSecret = "s"
	cfg.Catalog.CacheTTL = "soon"
	cfg.HTTP.ReadTimeout = "0s"

	err := cfg.Validate()
	assert.ErrorContains(t, err, `invalid catalog.cache_ttl "soon"`)
	assert.ErrorContains(t, err, "http.read_timeout must be positive")
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ygodeck.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[app]
addr = ":7000"
log_level = "debug"

[auth]
jwt_secret = "from-file"

[catalog]
batch_size = 50
`), 0o644))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.App.Addr)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, 50, cfg.Catalog.BatchSize)
	assert.Equal(t, "10s", cfg.HTTP.WriteTimeout, "unset keys keep defaults")
}

func TestLoad_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[app\n"), 0o644))
	t.Setenv("CONFIG_FILE", path)

	_, err := Load()
	assert.ErrorContains(t, err, "parse config file")
}

func TestLoadForTools_SkipsSecrets(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_DSN", "postgres://tool@localhost/ygodeck")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")

	cfg, err := LoadForTools()
	require.NoError(t, err)
	assert.Equal(t, "postgres://tool@localhost/ygodeck", cfg.Database.DSN)
}
