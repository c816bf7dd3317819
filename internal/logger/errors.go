package logger

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrAppNameIsEmpty is returned if Log.AppName was not defined.
	ErrAppNameIsEmpty = errors.New("config Log.AppName can not be empty")

	// ErrServiceNameIsEmpty is returned if Log.ServiceName was not defined.
	ErrServiceNameIsEmpty = errors.New("config Log.ServiceName can not be empty")

	// ErrUnknownLevel is returned for a Log.LogLevel zerolog can not parse.
	ErrUnknownLevel = errors.New("unsupported log level")
)

// reportWriteError is installed as zerolog.ErrorHandler: a failing writer must not recurse into
// the logger.
func reportWriteError(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "gobazaar: log write failed: %v\n", err)
}
