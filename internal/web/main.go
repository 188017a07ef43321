// Package web builds the fiber app of one process kind and runs it.
package web

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/orbitdesk/orbitdesk/internal/config"
	fiberlogger "github.com/orbitdesk/orbitdesk/internal/logger/adapter/fiber"
	"github.com/orbitdesk/orbitdesk/internal/web/handler"
)

const (
	// HealthPath reports 200 while serving and 503 during graceful shutdown.
	HealthPath = "/health"
	// MetricsPath exposes prometheus metrics.
	MetricsPath = "/metrics"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	kind         Kind
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
}

// Start serves on the configured port until the app is shut down.
func (s *Service) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Webserver.Port)

	log.Info().Str("process", string(s.kind)).Str("addr", addr).Msg("starting http server")

	if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("fiber listen error: %w", err)
	}

	return nil
}

// WaitShutdown blocks until SIGINT or SIGTERM and shuts the server down gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("")
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates the web service of process kind and registers its handlers.
func New(kind Kind, deps *handler.Deps) (*Service, error) {
	if deps == nil || deps.Cfg == nil {
		return nil, handler.ErrMissingDependency
	}

	services, err := kind.services()
	if err != nil {
		return nil, err
	}

	cfg := deps.Cfg

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title + " " + string(kind),
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			BodyLimit:      cfg.Webserver.BodyLimit,
			ErrorHandler:   handler.ErrorHandler,
		},
	)

	s := &Service{
		App:          app,
		kind:         kind,
		cfg:          cfg,
		fastShutDown: cfg.DevMode,
	}
	s.alive.Store(true)

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: HealthPath,
	}))

	app.Get(HealthPath, s.health)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	for _, svc := range services {
		if err = svc.Init(app, deps); err != nil {
			return nil, fmt.Errorf("failed to init %s handlers: %w", kind, err)
		}
	}

	return s, nil
}

func (s *Service) health(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendString("OK")
}
