package handler

const (
	// RootPath is the prefix of every API route group.
	RootPath = "/api"

	// RouterRootPath is the root path inside a route group.
	RouterRootPath = "/"

	// ErrNilDepsFatalLogMsg is used if app or one of the dependencies is nil.
	ErrNilDepsFatalLogMsg = "app, cfg, db or a service is nil"
)
