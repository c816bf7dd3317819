package logger

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// levelCounter is a zerolog hook counting events per level.
type levelCounter struct {
	events *prometheus.CounterVec
}

// Run implements zerolog.Hook.
func (h levelCounter) Run(_ *zerolog.Event, level zerolog.Level, _ string) {
	if level == zerolog.NoLevel || level == zerolog.Disabled {
		return
	}

	h.events.WithLabelValues(level.String()).Inc()
}

// newLevelCounter registers gobazaar_log_statements_total{service,level} with reg. Repeated
// calls, e.g. after a config reload, reuse the collector already registered.
func newLevelCounter(reg prometheus.Registerer, serviceName string) (levelCounter, error) {
	events := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "gobazaar_log_statements_total",
			Help:        "Number of log statements, differentiated by log level.",
			ConstLabels: prometheus.Labels{"service": serviceName},
		},
		[]string{"level"},
	)

	if err := reg.Register(events); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return levelCounter{}, err //nolint:wrapcheck
		}

		existing, ok := already.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return levelCounter{}, err //nolint:wrapcheck
		}

		events = existing
	}

	return levelCounter{events: events}, nil
}
