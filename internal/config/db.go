package config

import "time"

// Supported gorm engines.
const (
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

// DB holds the database configuration settings.
type DB struct {
	Extras        string
	Host          string
	Port          int
	User          string
	Password      string
	Name          string
	Path          string // sqlite database file
	GormEngine    string
	MaxOpenConns  int
	QueryTimeout  time.Duration // upper bound for one request's work against the store
	SlowThreshold time.Duration // queries above are logged as warnings
}
