package auth

import "github.com/prometheus/client_golang/prometheus"

const (
	resultAllow = "allow"
	resultDeny  = "deny"
	resultError = "error"
)

var decisionsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gobazaar_authorization_decisions_total",
		Help: "Authorization decisions by result.",
	},
	[]string{"result"},
)

func init() {
	prometheus.MustRegister(decisionsTotal)
}

func observe(d Decision) {
	switch {
	case d.Allowed:
		decisionsTotal.WithLabelValues(resultAllow).Inc()
	case d.Err != nil:
		decisionsTotal.WithLabelValues(resultError).Inc()
	default:
		decisionsTotal.WithLabelValues(resultDeny).Inc()
	}
}
