package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and gauges for the ingestion and
// notification pipeline.
type Metrics struct {
	EventsCreated prometheus.Counter

	// NotificationAttempts counts ledger entries by channel and outcome.
	// labels: channel={email,sms}, outcome={sent,failed}
	NotificationAttempts *prometheus.CounterVec

	LiveSubscribers prometheus.Gauge
	BroadcastsSent  prometheus.Counter
}

// New creates and registers all pipeline metrics with the default Prometheus
// registry.
func New() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.EventsCreated,
		m.NotificationAttempts,
		m.LiveSubscribers,
		m.BroadcastsSent,
	)

	return m
}

// NewForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		EventsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eventreport",
			Name:      "events_created_total",
			Help:      "Total events accepted by the ingestion endpoint.",
		}),
		NotificationAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eventreport",
			Name:      "notification_attempts_total",
			Help:      "Notification attempts by channel and outcome.",
		}, []string{"channel", "outcome"}),
		LiveSubscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "eventreport",
			Name:      "live_subscribers",
			Help:      "Number of currently connected live feed subscribers.",
		}),
		BroadcastsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eventreport",
			Name:      "broadcasts_sent_total",
			Help:      "Total new_event messages broadcast to the live feed.",
		}),
	}
}
