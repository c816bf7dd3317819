// Package db opens the gorm connection for the configured engine and migrates the schema.
package db

import (
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/GoBazaar/GoBazaar/internal/config"
	"github.com/GoBazaar/GoBazaar/internal/db/dsn"
	"github.com/GoBazaar/GoBazaar/internal/db/models"
	"github.com/GoBazaar/GoBazaar/internal/logger/adapter/gormlogger"
)

// ErrUnknownEngine is returned for an engine Open does not support.
var ErrUnknownEngine = errors.New("unknown gorm engine")

// Open connects to the configured database.
func Open(cfg *config.DB) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.GormEngine {
	case config.EngineMySQL:
		dialector = gormmysql.Open(dsn.Create(cfg))
	case config.EnginePostgres:
		dialector = postgres.Open(dsn.Create(cfg))
	case config.EngineSQLite:
		dialector = sqlite.Open(dsn.Create(cfg))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, cfg.GormEngine)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.New(log.Logger, cfg.SlowThreshold),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.GormEngine, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}

	switch {
	case cfg.MaxOpenConns > 0:
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	case cfg.GormEngine == config.EngineSQLite:
		// one writer at a time avoids SQLITE_BUSY on the row locked mutations
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

// mysqlTableOptions makes MySQL compare names case-sensitively like sqlite and postgres do.
const mysqlTableOptions = "DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_bin"

func tableOptions(dialect string) string {
	if dialect == config.EngineMySQL {
		return mysqlTableOptions
	}

	return ""
}

// Migrate creates or updates all tables. New MySQL tables use a binary collation.
func Migrate(db *gorm.DB) error {
	if opts := tableOptions(db.Dialector.Name()); opts != "" {
		db = db.Set("gorm:table_options", opts)
	}

	if err := db.AutoMigrate(
		&models.Role{},
		&models.RoleAccess{},
		&models.CatalogAccess{},
		&models.User{},
		&models.Category{},
		&models.Brand{},
		&models.Model{},
	); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	return nil
}
