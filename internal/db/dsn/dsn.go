// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"strings"

	"github.com/GoBazaar/GoBazaar/internal/config"
)

// Create builds the Data Source Name for the configured engine.
func Create(cfg *config.DB) string {
	switch cfg.GormEngine {
	case config.EnginePostgres:
		out := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
			cfg.Host,
			cfg.Port,
			cfg.User,
			cfg.Password,
			cfg.Name,
		)
		if cfg.Extras != "" {
			out += " " + cfg.Extras
		}

		return out
	case config.EngineSQLite:
		if cfg.Extras == "" {
			return cfg.Path
		}

		return cfg.Path + "?" + strings.TrimPrefix(cfg.Extras, "?")
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.Name,
			cfg.Extras,
		)
	}
}
