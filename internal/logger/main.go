// Package logger configures the global zerolog logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelWriter routes events by level. Info, debug and events without a level share the Info stream.
// A nil destination drops the event.
type LevelWriter struct {
	Error io.Writer
	Warn  io.Writer
	Info  io.Writer
	Trace io.Writer
}

func (lw *LevelWriter) route(l zerolog.Level) io.Writer {
	switch {
	case l == zerolog.Disabled:
		return nil
	case l == zerolog.TraceLevel:
		return lw.Trace
	case l == zerolog.WarnLevel:
		return lw.Warn
	case l >= zerolog.ErrorLevel && l <= zerolog.PanicLevel:
		return lw.Error
	default:
		return lw.Info
	}
}

// Write implements io.Writer for events without a level.
func (lw *LevelWriter) Write(p []byte) (int, error) {
	return lw.WriteLevel(zerolog.NoLevel, p)
}

// WriteLevel implements zerolog.LevelWriter.
func (lw *LevelWriter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	w := lw.route(l)
	if w == nil {
		return len(p), nil
	}

	return w.Write(p) //nolint:wrapcheck
}

// Init replaces the global logger according to cfg. Without console or file output enabled
// every event is dropped.
func Init(cfg Log) error {
	return initWith(prometheus.DefaultRegisterer, cfg)
}

func initWith(reg prometheus.Registerer, cfg Log) error {
	if cfg.ServiceName == "" {
		return ErrServiceNameIsEmpty
	}

	if cfg.AppName == "" {
		return ErrAppNameIsEmpty
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownLevel, cfg.LogLevel)
	}

	if level == zerolog.NoLevel {
		level = zerolog.DebugLevel
	}

	counter, err := newLevelCounter(reg, cfg.ServiceName)
	if err != nil {
		return fmt.Errorf("register log metrics: %w", err)
	}

	var writers []io.Writer

	if cfg.Console.Enabled {
		writers = append(writers, NewConsoleWriter(cfg))
	}

	if cfg.File.Enabled {
		fw, err := newFileWriter(cfg.File)
		if err != nil {
			return err
		}

		writers = append(writers, fw)
	}

	zerolog.SetGlobalLevel(level)
	zerolog.ErrorHandler = reportWriteError

	ctx := zerolog.New(zerolog.MultiLevelWriter(writers...)).Hook(counter).With().
		Timestamp().
		Str("app", cfg.AppName).
		Str("env", cfg.LogEnv)

	if cfg.ReportCaller {
		ctx = ctx.Caller()

		// stacks are only worth their size when tracing
		if level == zerolog.TraceLevel {
			zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack //nolint:reassign
			ctx = ctx.Stack()
		}
	}

	log.Logger = ctx.Logger()

	return nil
}

// RollingFile returns a lumberjack writer for r below dir.
func RollingFile(dir string, r Rotation) io.Writer {
	return &lumberjack.Logger{
		Filename:   filepath.Join(dir, r.Name),
		MaxSize:    r.MaxSize,
		MaxAge:     r.MaxAge,
		MaxBackups: r.MaxBackups,
	}
}

func newFileWriter(f LogFile) (io.Writer, error) {
	if err := os.MkdirAll(f.Path, 0o750); err != nil { //nolint:mnd
		return nil, fmt.Errorf("create log directory %s: %w", f.Path, err)
	}

	return &LevelWriter{
		Error: RollingFile(f.Path, f.Error.WithDefaults("error.log")),
		Warn:  RollingFile(f.Path, f.Warn.WithDefaults("warn.log")),
		Info:  RollingFile(f.Path, f.Info.WithDefaults("info.log")),
		Trace: RollingFile(f.Path, f.Trace.WithDefaults("trace.log")),
	}, nil
}

// NewConsoleWriter sends info and debug to stdout, everything else to stderr.
func NewConsoleWriter(cfg Log) io.Writer {
	out, errOut := io.Writer(os.Stdout), io.Writer(os.Stderr)

	if cfg.Console.UseConsoleWriter {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: zerolog.TimeFieldFormat}
		errOut = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: zerolog.TimeFieldFormat}
	}

	return &LevelWriter{Error: errOut, Warn: errOut, Info: out, Trace: errOut}
}
