// Package web assembles the fiber application serving the JSON API.
package web

import (
	"errors"
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
	"gorm.io/gorm"

	"github.com/GoBazaar/GoBazaar/internal/auth"
	"github.com/GoBazaar/GoBazaar/internal/auth/token"
	"github.com/GoBazaar/GoBazaar/internal/config"
	fiberlogger "github.com/GoBazaar/GoBazaar/internal/logger/adapter/fiber"
	"github.com/GoBazaar/GoBazaar/internal/role"
	"github.com/GoBazaar/GoBazaar/internal/taxonomy"
	"github.com/GoBazaar/GoBazaar/internal/web/handler"
	adminrole "github.com/GoBazaar/GoBazaar/internal/web/handler/admin/role"
	adminuser "github.com/GoBazaar/GoBazaar/internal/web/handler/admin/user"
	"github.com/GoBazaar/GoBazaar/internal/web/handler/catalog"
	"github.com/GoBazaar/GoBazaar/internal/web/handler/login"
	"github.com/GoBazaar/GoBazaar/internal/web/handler/search"
)

const (
	// CheckAlivePath answers 200 while the service accepts traffic and 503 during shutdown.
	CheckAlivePath = "/checkalive"
	// MetricsPath exposes the prometheus registry.
	MetricsPath = "/metrics"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	deps         *handler.Deps
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown blocks until SIGINT or SIGTERM and then stops the http server.
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

	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		if err := s.App.Shutdown(); err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// Alive reports whether checkalive answers 200.
func (s *Service) Alive() bool {
	return s.alive.Load()
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	app := fiber.New(
		fiber.Config{
			AppName:               "GoBazaar",
			CaseSensitive:         true,
			Immutable:             true,
			ReadTimeout:           cfg.Webserver.ReadTimeout,
			BodyLimit:             cfg.Webserver.BodyLimit,
			ErrorHandler:          handler.ErrorHandler,
			DisableStartupMessage: !cfg.DevMode,
		},
	)

	service := &Service{
		cfg:          cfg,
		App:          app,
		fastShutDown: cfg.DevMode,
		deps: &handler.Deps{
			Cfg:     cfg,
			DB:      db,
			Auth:    auth.NewService(db, cfg.DB.QueryTimeout),
			Issuer:  token.New(cfg.Auth),
			Roles:   role.NewService(db, cfg.DB.QueryTimeout),
			Catalog: taxonomy.NewService(db, cfg.Marketplace),
		},
	}
	service.alive.Store(true)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New())
	}

	checkAliveURI := ""
	if cfg.Log.DisableCheckAlive {
		checkAliveURI = CheckAlivePath
	}

	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: checkAliveURI,
		CallerLocal:   auth.LocalCaller,
	}))

	app.Get(CheckAlivePath, func(c *fiber.Ctx) error {
		if !service.alive.Load() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.SendString("OK")
	})

	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	// init handlers (they register their own routes with access checks)
	handlers := []handler.Service{
		&login.Handler,
		&adminrole.Handler,
		&adminuser.Handler,
		&catalog.Handler,
		&search.Handler,
	}

	for _, h := range handlers {
		if err := h.Init(app, service.deps); err != nil {
			log.Fatal().Err(err).Msg(handler.ErrNilDepsFatalLogMsg)
		}
	}

	return service
}
