package metrics

import "github.com/prometheus/client_golang/prometheus"

// Match run sources.
const (
	SourceListing = "listing"
	SourceAutoID  = "auto_id"
	SourceAPI     = "api"
)

// Lost-and-found domain Prometheus metrics.
var (
	MatchCandidates = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "lostfound",
			Name:      "match_candidates",
			Help:      "Number of candidates kept per scoring run",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100, 250, 1000},
		},
	)

	MatchRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lostfound",
			Name:      "match_runs_total",
			Help:      "Total number of scoring runs",
		},
		[]string{"source"},
	)

	VerificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lostfound",
			Name:      "verifications_total",
			Help:      "Ownership verifications by outcome",
		},
		[]string{"outcome"}, // "verified" / "rejected"
	)

	ConnectionTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lostfound",
			Name:      "connection_transitions_total",
			Help:      "Connection status changes by target status",
		},
		[]string{"status"},
	)

	ReportsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lostfound",
			Name:      "reports_created_total",
			Help:      "Reports accepted by kind",
		},
		[]string{"kind"}, // "lost" / "found"
	)

	ContactMessagesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lostfound",
			Name:      "contact_messages_total",
			Help:      "Contact form messages accepted",
		},
	)
)

var domainMetricsRegistered bool

// RegisterDomainMetrics registers the lost-and-found metrics. Must be called once from main.
func RegisterDomainMetrics() {
	if domainMetricsRegistered {
		return
	}
	prometheus.MustRegister(MatchCandidates)
	prometheus.MustRegister(MatchRunsTotal)
	prometheus.MustRegister(VerificationsTotal)
	prometheus.MustRegister(ConnectionTransitionsTotal)
	prometheus.MustRegister(ReportsCreatedTotal)
	prometheus.MustRegister(ContactMessagesTotal)
	domainMetricsRegistered = true
}

// ObserveMatchRun records one scoring run and its kept candidate count.
func ObserveMatchRun(source string, kept int) {
	MatchRunsTotal.WithLabelValues(source).Inc()
	MatchCandidates.Observe(float64(kept))
}

// ObserveVerification counts a verification by its verdict.
func ObserveVerification(verified bool) {
	outcome := "rejected"
	if verified {
		outcome = "verified"
	}
	VerificationsTotal.WithLabelValues(outcome).Inc()
}
