package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configDir(t *testing.T) string {
	t.Helper()

	projectRoot, err := filepath.Abs("../../")
	require.NoError(t, err, "failed to get project root")

	return filepath.Join(projectRoot, "etc") + string(filepath.Separator)
}

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig(configDir(t))
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.Title)
	assert.NotZero(t, cfg.Webserver.Port)
	assert.NotEmpty(t, cfg.Webserver.URL)
	assert.NotEmpty(t, cfg.DB.Host)
	assert.Equal(t, EngineMySQL, cfg.DB.Engine)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 5*time.Minute, cfg.Cache.SessionTTL)
	assert.Equal(t, "access_token", cfg.Auth.CookieName)
	assert.Equal(t, "access.log", cfg.Log.File.Access.File)
	assert.True(t, cfg.Log.Console.Enabled)
}

func TestReadConfigEnvOverride(t *testing.T) {
	t.Setenv("ORBITDESK_WEBSERVER_PORT", "9090")
	t.Setenv("ORBITDESK_AUTH_JWTSECRET", "from-env")
	t.Setenv("ORBITDESK_CACHE_ROLETTL", "90s")
	t.Setenv("ORBITDESK_DB_ENGINE", "sqlite")

	cfg, err := ReadConfig(configDir(t))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Webserver.Port)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, 90*time.Second, cfg.Cache.RoleTTL)
	assert.Equal(t, EngineSQLite, cfg.DB.Engine)
}

func TestReadConfigMissingFile(t *testing.T) {
	_, err := ReadConfig(t.TempDir())
	require.Error(t, err)
}

func TestConfigValidation(t *testing.T) {
	valid := func() Config {
		return Config{
			DB:        DB{Engine: EnginePostgres},
			Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"},
			Auth:      Auth{JWTSecret: "secret"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "valid config", mutate: func(*Config) {}},
		{name: "missing port", mutate: func(c *Config) { c.Webserver.Port = 0 }, wantErr: ErrWebServerPortCanNotBeZero},
		{name: "missing URL", mutate: func(c *Config) { c.Webserver.URL = "" }, wantErr: ErrEmptyURL},
		{name: "missing secret", mutate: func(c *Config) { c.Auth.JWTSecret = "" }, wantErr: ErrEmptyJWTSecret},
		{name: "unknown engine", mutate: func(c *Config) { c.DB.Engine = "oracle" }, wantErr: ErrUnsupportedEngine},
		{name: "redis without addr", mutate: func(c *Config) { c.Redis.Enabled = true }, wantErr: ErrEmptyRedisAddr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := validate(&cfg)
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, 5, cfg.Webserver.ShutDownTime)

				return
			}

			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDevModeDisablesSecureCookies(t *testing.T) {
	cfg := Config{
		DevMode:   true,
		DB:        DB{Engine: EngineSQLite},
		Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"},
		Auth:      Auth{JWTSecret: "secret", SecureCookies: true},
	}

	require.NoError(t, validate(&cfg))
	assert.False(t, cfg.Auth.SecureCookies)
}

func TestDumpConfigJSONHidesSecrets(t *testing.T) {
	cfg := Config{
		Title: "Test",
		DB:    DB{Password: "db-password"},
		Redis: Redis{Password: "redis-password"},
		Auth:  Auth{JWTSecret: "jwt-secret"},
	}

	out, err := DumpConfigJSON(&cfg)
	require.NoError(t, err)

	assert.Contains(t, out, "Test")

	for _, secret := range []string{"db-password", "redis-password", "jwt-secret"} {
		assert.False(t, strings.Contains(out, secret), "dump leaks %s", secret)
	}
}
