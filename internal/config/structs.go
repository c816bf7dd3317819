package config

import (
	"time"

	"github.com/GoBazaar/GoBazaar/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode     bool // enable dev mode for development
	DB          DB
	Log         logger.Log
	Title       string
	Webserver   Webserver
	Auth        Auth
	Marketplace Marketplace
	Seed        Seed
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover bool          // disable recover middleware
	Port           int           // listening port for the webserver
	ShutDownTime   int           // wait time for shutdown in seconds
	URL            string        // base url for the webserver
	ReadTimeout    time.Duration // fiber read timeout
	BodyLimit      int           // max request body in bytes
}

// Auth holds the bearer token settings.
type Auth struct {
	JWTSecret string        // HMAC secret used to sign access tokens
	TokenTTL  time.Duration // lifetime of an issued token
	Issuer    string        // iss claim
}

// Marketplace holds taxonomy listing settings.
type Marketplace struct {
	States       []string // allowed values for the state partition of brands and categories
	DefaultLimit int      // default page size for listings
	MaxLimit     int      // upper bound for the limit query parameter
}

// Seed holds bootstrap data created on first start.
type Seed struct {
	AdminName     string
	AdminEmail    string
	AdminPassword string // empty = generate one and log it once
}
