package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrUnknownGormEngine error if config db.gormEngine is not supported.
	ErrUnknownGormEngine = errors.New("toml config db.gormEngine must be mysql, postgres or sqlite")

	// ErrEmptyJWTSecret error if config auth.jwtSecret is empty.
	ErrEmptyJWTSecret = errors.New("toml config auth.jwtSecret can not be empty")

	// ErrNoStates error if config marketplace.states is empty.
	ErrNoStates = errors.New("toml config marketplace.states needs at least one state")
)
