// Package observability holds the Prometheus collectors for registration
// outcomes. They are registered with the default registry and served on
// /metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for registration counters.
const (
	OutcomeSuccess     = "success"
	OutcomeNotFound    = "not_found"
	OutcomeDuplicate   = "duplicate"
	OutcomeFull        = "full"
	OutcomeNotSignedUp = "not_signed_up"
	OutcomeError       = "error"
)

var (
	signupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "activities_api",
		Subsystem: "registrations",
		Name:      "signups_total",
		Help:      "Signup attempts partitioned by outcome.",
	}, []string{"outcome"})
	unregistersTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "activities_api",
		Subsystem: "registrations",
		Name:      "unregisters_total",
		Help:      "Unregister attempts partitioned by outcome.",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(signupsTotal, unregistersTotal)
}

// RecordSignup counts one signup attempt.
func RecordSignup(outcome string) {
	signupsTotal.WithLabelValues(outcome).Inc()
}

// RecordUnregister counts one unregister attempt.
func RecordUnregister(outcome string) {
	unregistersTotal.WithLabelValues(outcome).Inc()
}

// SignupCounter returns the signup counter for outcome. It exists for tests
// that read counter values with prometheus/testutil.
func SignupCounter(outcome string) prometheus.Counter {
	return signupsTotal.WithLabelValues(outcome)
}

// UnregisterCounter returns the unregister counter for outcome. Like
// SignupCounter, it is meant for tests.
func UnregisterCounter(outcome string) prometheus.Counter {
	return unregistersTotal.WithLabelValues(outcome)
}
