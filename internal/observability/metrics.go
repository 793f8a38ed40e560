package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// resolution pipeline and navigation controller.
type Metrics struct {
	Resolutions        *prometheus.CounterVec // labels: service={police,fire,medical}, source={remote,local,default}
	ResolutionDuration prometheus.Histogram

	// Remote number store metrics.
	RemoteRequests *prometheus.CounterVec   // labels: op={get_all,get_by_country,put_all}, outcome={success,not_found,error}
	RemoteDuration *prometheus.HistogramVec // labels: op
	RemoteEnabled  prometheus.Gauge

	// Location acquisition metrics.
	LocationOutcomes *prometheus.CounterVec // labels: outcome={granted,denied,unavailable}

	// Navigation metrics.
	StateTransitions *prometheus.CounterVec // labels: from, to
	FlowsInFlight    prometheus.Gauge
	FlowsSuperseded  prometheus.Counter
	DialAttempts     *prometheus.CounterVec // labels: outcome={success,failure}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Resolutions,
		m.ResolutionDuration,
		m.RemoteRequests,
		m.RemoteDuration,
		m.RemoteEnabled,
		m.LocationOutcomes,
		m.StateTransitions,
		m.FlowsInFlight,
		m.FlowsSuperseded,
		m.DialAttempts,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "onetap",
			Name:      "resolutions_total",
			Help:      "Number resolutions by service type and answering source.",
		}, []string{"service", "source"}),
		ResolutionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "onetap",
			Name:      "resolution_duration_seconds",
			Help:      "Duration of a complete location-to-number resolution flow.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		RemoteRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "onetap",
			Name:      "remote_store_requests_total",
			Help:      "Remote number store requests by operation and outcome.",
		}, []string{"op", "outcome"}),
		RemoteDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "onetap",
			Name:      "remote_store_duration_seconds",
			Help:      "Remote number store request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"op"}),
		RemoteEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "onetap",
			Name:      "remote_store_enabled",
			Help:      "1 when the remote number store is configured, 0 otherwise.",
		}),
		LocationOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "onetap",
			Name:      "location_acquisitions_total",
			Help:      "Location acquisition attempts by outcome.",
		}, []string{"outcome"}),
		StateTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "onetap",
			Name:      "state_transitions_total",
			Help:      "Navigation state machine transitions.",
		}, []string{"from", "to"}),
		FlowsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "onetap",
			Name:      "resolution_flows_in_flight",
			Help:      "Resolution flows currently running.",
		}),
		FlowsSuperseded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "onetap",
			Name:      "resolution_flows_superseded_total",
			Help:      "Resolution flows abandoned because a newer flow started.",
		}),
		DialAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "onetap",
			Name:      "dial_attempts_total",
			Help:      "Dialer invocations by outcome.",
		}, []string{"outcome"}),
	}
}
