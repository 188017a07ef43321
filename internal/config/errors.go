package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("config webserver.port listening port can not be 0")

	// ErrEmptyJWTSecret error if no signing secret for access tokens is configured.
	ErrEmptyJWTSecret = errors.New("config auth.jwtsecret can not be empty")

	// ErrUnsupportedEngine error if db.engine is not mysql, postgres or sqlite.
	ErrUnsupportedEngine = errors.New("config db.engine must be mysql, postgres or sqlite")

	// ErrEmptyRedisAddr error if redis is enabled without address.
	ErrEmptyRedisAddr = errors.New("config redis.addr can not be empty when redis is enabled")
)
