// Package config handles input from etc/main.toml and ORBITDESK_* environment variables.
package config

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. ORBITDESK_AUTH_JWTSECRET.
const EnvPrefix = "ORBITDESK"

// Supported database engines.
const (
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("title", "orbitdesk")
	v.SetDefault("devmode", false)

	v.SetDefault("db.engine", EngineMySQL)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 3306) //nolint:mnd
	v.SetDefault("db.user", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "orbitdesk")
	v.SetDefault("db.extras", "")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.poolsize", 0)
	v.SetDefault("redis.prefix", "orbitdesk:")

	v.SetDefault("webserver.port", 8080) //nolint:mnd
	v.SetDefault("webserver.url", "")
	v.SetDefault("webserver.shutdowntime", 5) //nolint:mnd
	v.SetDefault("webserver.bodylimit", 1<<20)

	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("auth.issuer", "orbitdesk")
	v.SetDefault("auth.tokenttl", 24*time.Hour)
	v.SetDefault("auth.cookiename", "access_token")
	v.SetDefault("auth.securecookies", true)
	v.SetDefault("auth.purgeinterval", time.Hour)

	v.SetDefault("cache.rolettl", time.Hour)
	v.SetDefault("cache.sessionttl", 5*time.Minute) //nolint:mnd
	v.SetDefault("cache.userttl", 5*time.Minute)    //nolint:mnd

	v.SetDefault("log.loglevel", "info")
	v.SetDefault("log.appname", "orbitdesk")
	v.SetDefault("log.servicename", "orbitdesk")
}

// ReadConfig reads main.toml from path (default ./etc/) and applies environment overrides.
func ReadConfig(path string) (Config, error) {
	if path == "" {
		path = "./etc/"
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(filepath.Join(path, "main.toml"))
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	return c, validate(&c)
}

// DumpConfigJSON returns the config as indented JSON. Secrets are omitted.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer

	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint:wrapcheck
	}

	return buffer.String(), nil
}

// validate mandatory settings and fill derived defaults.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.Auth.JWTSecret == "" {
		return errors.Wrap(ErrEmptyJWTSecret, invalidErrMessage)
	}

	switch c.DB.Engine {
	case EngineMySQL, EnginePostgres, EngineSQLite:
	default:
		return errors.Wrap(ErrUnsupportedEngine, invalidErrMessage)
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return errors.Wrap(ErrEmptyRedisAddr, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = 5 // set default of 5 seconds
	}

	if c.DevMode {
		c.Auth.SecureCookies = false
	}

	return nil
}
