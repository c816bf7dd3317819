package handler

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/GoBazaar/GoBazaar/internal/auth"
	"github.com/GoBazaar/GoBazaar/internal/auth/token"
	"github.com/GoBazaar/GoBazaar/internal/config"
	"github.com/GoBazaar/GoBazaar/internal/role"
	"github.com/GoBazaar/GoBazaar/internal/taxonomy"
)

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, deps *Deps) error
}

// Deps bundles what route groups need. web.New builds it once.
type Deps struct {
	Cfg     *config.Config
	DB      *gorm.DB
	Auth    *auth.Service
	Issuer  *token.Issuer
	Roles   *role.Service
	Catalog *taxonomy.Service
}

// Valid reports whether every dependency is set.
func (d *Deps) Valid() bool {
	return d != nil && d.Cfg != nil && d.DB != nil && d.Auth != nil && d.Issuer != nil &&
		d.Roles != nil && d.Catalog != nil
}
