package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validLog() Log {
	return Log{LogLevel: "info", AppName: "gobazaar", ServiceName: "test"}
}

func TestInitValidation(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(l *Log)
		wantErr error
	}{
		{name: "valid", mutate: func(_ *Log) {}},
		{name: "empty level means debug", mutate: func(l *Log) { l.LogLevel = "" }},
		{name: "missing service", mutate: func(l *Log) { l.ServiceName = "" }, wantErr: ErrServiceNameIsEmpty},
		{name: "missing app", mutate: func(l *Log) { l.AppName = "" }, wantErr: ErrAppNameIsEmpty},
		{name: "bad level", mutate: func(l *Log) { l.LogLevel = "loud" }, wantErr: ErrUnknownLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validLog()
			tc.mutate(&cfg)

			err := initWith(prometheus.NewRegistry(), cfg)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestLevelWriterRoutes(t *testing.T) {
	var errBuf, warnBuf, infoBuf, traceBuf bytes.Buffer

	lw := &LevelWriter{Error: &errBuf, Warn: &warnBuf, Info: &infoBuf, Trace: &traceBuf}

	testCases := []struct {
		level zerolog.Level
		want  *bytes.Buffer
	}{
		{level: zerolog.TraceLevel, want: &traceBuf},
		{level: zerolog.DebugLevel, want: &infoBuf},
		{level: zerolog.InfoLevel, want: &infoBuf},
		{level: zerolog.NoLevel, want: &infoBuf},
		{level: zerolog.WarnLevel, want: &warnBuf},
		{level: zerolog.ErrorLevel, want: &errBuf},
		{level: zerolog.FatalLevel, want: &errBuf},
	}

	for _, tc := range testCases {
		t.Run(tc.level.String(), func(t *testing.T) {
			for _, b := range []*bytes.Buffer{&errBuf, &warnBuf, &infoBuf, &traceBuf} {
				b.Reset()
			}

			n, err := lw.WriteLevel(tc.level, []byte("x"))
			require.NoError(t, err)
			assert.Equal(t, 1, n)
			assert.Equal(t, "x", tc.want.String())
		})
	}

	// events without a level go to the info stream
	for _, b := range []*bytes.Buffer{&errBuf, &warnBuf, &infoBuf, &traceBuf} {
		b.Reset()
	}

	n, err := lw.Write([]byte("plain"))
	require.NoError(t, err)
	assert.Equal(t, len("plain"), n)
	assert.Equal(t, "plain", infoBuf.String())
	assert.Empty(t, errBuf.String())

	n, err = (&LevelWriter{}).WriteLevel(zerolog.InfoLevel, []byte("dropped"))
	require.NoError(t, err)
	assert.Equal(t, len("dropped"), n)
}

func TestFileLogging(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "log")

	cfg := validLog()
	cfg.File = LogFile{Enabled: true, Path: dir, Error: Rotation{Name: "failures.log"}}

	require.NoError(t, initWith(prometheus.NewRegistry(), cfg))

	log.Info().Msg("hello")
	log.Error().Err(errors.New("boom")).Msg("broken")
	log.Debug().Msg("filtered")

	info, err := os.ReadFile(filepath.Join(dir, "info.log"))
	require.NoError(t, err)

	var line struct {
		Level   string `json:"level"`
		App     string `json:"app"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(info), &line))
	assert.Equal(t, "info", line.Level)
	assert.Equal(t, "gobazaar", line.App)
	assert.Equal(t, "hello", line.Message)

	failures, err := os.ReadFile(filepath.Join(dir, "failures.log"))
	require.NoError(t, err)
	assert.Contains(t, string(failures), `"error":"boom"`)
	assert.NotContains(t, string(info), "filtered")
}

func TestLevelCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	cfg := validLog()

	require.NoError(t, initWith(reg, cfg))

	// a second Init reuses the registered collector
	require.NoError(t, initWith(reg, cfg))

	log.Warn().Msg("one")
	log.Warn().Msg("two")
	log.Info().Msg("three")

	expected := `
# HELP gobazaar_log_statements_total Number of log statements, differentiated by log level.
# TYPE gobazaar_log_statements_total counter
gobazaar_log_statements_total{level="info",service="test"} 1
gobazaar_log_statements_total{level="warn",service="test"} 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "gobazaar_log_statements_total"))
}

func TestRotationDefaults(t *testing.T) {
	r := Rotation{MaxSize: 5}.WithDefaults("x.log")
	assert.Equal(t, Rotation{Name: "x.log", MaxSize: 5, MaxBackups: defaultMaxBackups, MaxAge: defaultMaxAge}, r)

	kept := Rotation{Name: "y.log", MaxSize: 1, MaxBackups: 1, MaxAge: 1}
	assert.Equal(t, kept, kept.WithDefaults("x.log"))
}
