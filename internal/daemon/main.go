// Package daemon opens the store, seeds it and runs the web service until shutdown.
package daemon

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoBazaar/GoBazaar/internal/config"
	"github.com/GoBazaar/GoBazaar/internal/db"
	"github.com/GoBazaar/GoBazaar/internal/web"
)

// ErrNilConfig is returned by New without a config.
var ErrNilConfig = errors.New("config is nil")

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	db         *gorm.DB
	webService *web.Service
}

// New opens and migrates the database, seeds the administrator and builds the web service.
func New(ctx context.Context, cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	gdb, err := db.Open(&cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err = db.Migrate(gdb); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	if err = Seed(ctx, gdb, cfg.Seed); err != nil {
		return nil, fmt.Errorf("failed to seed database: %w", err)
	}

	return &Daemon{
		cfg:        cfg,
		db:         gdb,
		webService: web.New(cfg, gdb),
	}, nil
}

// Start serves on the configured port and blocks until SIGINT or SIGTERM.
func (d *Daemon) Start() error {
	addr := fmt.Sprintf(":%d", d.cfg.Webserver.Port)
	log.Info().Str("addr", addr).Str("engine", d.cfg.DB.GormEngine).Msg("starting web service")

	go func() {
		_ = d.webService.Start(addr)
	}()

	d.webService.WaitShutdown()

	return d.Close()
}

// Close releases the database connections.
func (d *Daemon) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql db: %w", err)
	}

	return sqlDB.Close() //nolint:wrapcheck
}
