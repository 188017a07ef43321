package config

import (
	"time"

	"github.com/orbitdesk/orbitdesk/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	Title     string
	DB        DB
	Redis     Redis
	Webserver Webserver
	Auth      Auth
	Cache     Cache
	Log       logger.Log
}

// DB holds the database configuration settings.
type DB struct {
	Engine   string // mysql, postgres or sqlite
	Host     string
	Port     int
	User     string
	Password string `json:"-"`
	Name     string // database name, file path for sqlite
	Extras   string // driver specific DSN parameters
}

// Redis configures the cache store. The cache is off when Enabled is false.
type Redis struct {
	Enabled  bool
	Addr     string
	Password string `json:"-"`
	DB       int
	PoolSize int
	Prefix   string // namespace of every cache key
}

// Webserver implement webserver settings.
type Webserver struct {
	Port         int    // listening port for the webserver
	URL          string // base url for the webserver
	ShutDownTime int    // seconds /health reports 503 before the server stops
	BodyLimit    int    // bytes
}

// Auth configures credentials and sessions.
type Auth struct {
	JWTSecret     string `json:"-"`
	Issuer        string
	TokenTTL      time.Duration // lifetime of sessions and the tokens naming them
	CookieName    string
	SecureCookies bool
	PurgeInterval time.Duration // how often the auth process removes expired sessions, 0 disables
}

// Cache holds the lifetime of cached lookups.
type Cache struct {
	RoleTTL    time.Duration
	SessionTTL time.Duration
	UserTTL    time.Duration
}
