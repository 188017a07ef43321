// Package daemon boots one server process: database, RBAC seed, cache and web service.
package daemon

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/orbitdesk/orbitdesk/internal/auth"
	"github.com/orbitdesk/orbitdesk/internal/cache"
	"github.com/orbitdesk/orbitdesk/internal/config"
	"github.com/orbitdesk/orbitdesk/internal/db/controller/session"
	"github.com/orbitdesk/orbitdesk/internal/db/dsn"
	"github.com/orbitdesk/orbitdesk/internal/db/models"
	"github.com/orbitdesk/orbitdesk/internal/db/seed"
	"github.com/orbitdesk/orbitdesk/internal/rbac"
	"github.com/orbitdesk/orbitdesk/internal/web"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	kind       web.Kind
	db         *gorm.DB
	redis      *cache.RedisStore
	webService *web.Service
}

// OpenDB connects to the configured database and migrates the schema.
func OpenDB(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := dsn.Dialector(cfg.DB)
	if err != nil {
		return nil, err
	}

	level := gormlogger.Warn
	if cfg.DevMode {
		level = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(level)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err = db.AutoMigrate(models.All()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// Seed reconciles the shipped RBAC manifest into db.
func Seed(ctx context.Context, db *gorm.DB, m *rbac.Manifest) (*seed.Result, error) {
	start := time.Now()

	res, err := seed.RBAC(ctx, db, m)
	if err != nil {
		return nil, fmt.Errorf("rbac seed failed: %w", err)
	}

	log.Info().
		Int("permissions", len(m.Permissions)).
		Int("system_roles", len(m.SystemRoles)).
		Uint("default_role_id", res.DefaultRoleID).
		Dur("took", time.Since(start)).
		Msg("rbac seed done")

	return res, nil
}

// ConnectCache returns the cache of the process. Without redis the cache is disabled and
// every lookup goes to the database.
func ConnectCache(ctx context.Context, cfg *config.Config) (*cache.Cache, *cache.RedisStore, error) {
	if !cfg.Redis.Enabled {
		log.Warn().Msg("redis disabled: running without cache")
		return nil, nil, nil
	}

	store, err := cache.NewRedisStore(ctx, cache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		return nil, nil, err
	}

	return cache.New(store, cfg.Redis.Prefix), store, nil
}

// InvalidateRoles drops every cached resolution of the given roles from the shared cache.
// Other processes may have cached rows the seed just overwrote.
func InvalidateRoles(ctx context.Context, c *cache.Cache, ids []uint) {
	if c == nil || len(ids) == 0 {
		return
	}

	tags := make([]string, 0, len(ids))
	for _, id := range ids {
		tags = append(tags, auth.RoleTag(id))
	}

	c.InvalidateByTag(ctx, tags...)

	log.Debug().Int("roles", len(ids)).Msg("seeded role cache entries dropped")
}

// New boots process kind. Seed failures are returned and must abort the process.
func New(ctx context.Context, cfg *config.Config, kind web.Kind) (*Daemon, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	db, err := OpenDB(cfg)
	if err != nil {
		return nil, err
	}

	m := rbac.DefaultManifest()

	res, err := Seed(ctx, db, &m)
	if err != nil {
		return nil, err
	}

	c, store, err := ConnectCache(ctx, cfg)
	if err != nil {
		return nil, err
	}

	InvalidateRoles(ctx, c, res.SystemRoleIDs)

	deps, err := web.NewDeps(kind, cfg, db, c, &m, res.DefaultRoleID)
	if err != nil {
		return nil, err
	}

	svc, err := web.New(kind, deps)
	if err != nil {
		return nil, err
	}

	return &Daemon{
		cfg:        cfg,
		kind:       kind,
		db:         db,
		redis:      store,
		webService: svc,
	}, nil
}

// Start serves until SIGINT or SIGTERM, then releases the database and cache connections.
func (d *Daemon) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if d.kind.OwnsSessions() && d.cfg.Auth.PurgeInterval > 0 {
		go purgeSessions(ctx, session.New(d.db), d.cfg.Auth.PurgeInterval)
	}

	go d.webService.WaitShutdown()

	err := d.webService.Start()

	cancel()
	d.close()

	return err
}

func (d *Daemon) close() {
	if d.redis != nil {
		if err := d.redis.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close redis")
		}
	}

	if sqlDB, err := d.db.DB(); err == nil {
		if err = sqlDB.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}
}

type purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// purgeSessions removes expired sessions every interval until ctx is done.
func purgeSessions(ctx context.Context, store purger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.PurgeExpired(ctx)
			if err != nil {
				log.Error().Err(err).Msg("failed to purge expired sessions")
				continue
			}

			if n > 0 {
				log.Info().Int64("sessions", n).Msg("expired sessions purged")
			}
		}
	}
}
