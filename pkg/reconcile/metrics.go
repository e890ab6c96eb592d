package reconcile

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus collectors for one Tracker. It uses an
// isolated prometheus.Registry, the same way pkg/p2pnet's Metrics does,
// so a process embedding more than one Tracker (or running tests in
// parallel) never collides on the default registry.
type Metrics struct {
	Registry *prometheus.Registry

	RegistrationsTotal     *prometheus.CounterVec
	ForgetsTotal           prometheus.Counter
	QueueSize              prometheus.Gauge
	RotationsTotal         prometheus.Counter
	RequestsInitiatedTotal prometheus.Counter
	QEstimate              prometheus.Histogram
	AnnouncementSetSize    prometheus.Histogram
}

// NewMetrics creates a Metrics instance with all collectors registered
// on a fresh, isolated registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,
		RegistrationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reconcile_registrations_total",
				Help: "Peer registrations, by phase reached (pre-registered, registered).",
			},
			[]string{"phase", "direction"},
		),
		ForgetsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reconcile_forgets_total",
			Help: "Peers forgotten (removed from the tracker).",
		}),
		QueueSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "reconcile_queue_size",
			Help: "Current number of registered initiator-role peers in the reconciliation queue.",
		}),
		RotationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reconcile_queue_rotations_total",
			Help: "Number of times IsPeerNextToReconcileWith granted a ticket and rotated the queue.",
		}),
		RequestsInitiatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reconcile_requests_initiated_total",
			Help: "Number of reconciliation requests initiated.",
		}),
		QEstimate: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "reconcile_q_estimate",
			Help:    "Per-peer relative set-difference density estimate after feedback.",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		}),
		AnnouncementSetSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "reconcile_announcement_set_size",
			Help:    "Announcement set size observed after each StoreTxsToAnnounce call.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
	}

	reg.MustRegister(
		m.RegistrationsTotal,
		m.ForgetsTotal,
		m.QueueSize,
		m.RotationsTotal,
		m.RequestsInitiatedTotal,
		m.QEstimate,
		m.AnnouncementSetSize,
	)
	return m
}

// MetricsRegistry returns the Tracker's isolated Prometheus registry,
// for wiring into an HTTP /metrics handler (see cmd/reconsim). It
// returns nil if the Tracker was built with WithMetrics(nil).
func (t *Tracker) MetricsRegistry() *prometheus.Registry {
	if t.metrics == nil {
		return nil
	}
	return t.metrics.Registry
}

// The observe* helpers are nil-safe so a Tracker built without metrics
// (NewTracker with WithMetrics(nil), or the zero value of *Metrics) pays
// no instrumentation cost and never panics.

func (m *Metrics) observePreRegistered() {
	if m == nil {
		return
	}
	m.RegistrationsTotal.WithLabelValues("pre-registered", "").Inc()
}

func (m *Metrics) observeRegistered(isInbound bool) {
	if m == nil {
		return
	}
	direction := "outbound"
	if isInbound {
		direction = "inbound"
	}
	m.RegistrationsTotal.WithLabelValues("registered", direction).Inc()
}

func (m *Metrics) observeForgotten() {
	if m == nil {
		return
	}
	m.ForgetsTotal.Inc()
}

func (m *Metrics) observeRotation() {
	if m == nil {
		return
	}
	m.RotationsTotal.Inc()
}

func (m *Metrics) observeRequestInitiated() {
	if m == nil {
		return
	}
	m.RequestsInitiatedTotal.Inc()
}

func (m *Metrics) observeQUpdated(q float64) {
	if m == nil {
		return
	}
	m.QEstimate.Observe(q)
}

func (m *Metrics) observeAnnouncementSetSize(_ PeerID, size int) {
	if m == nil {
		return
	}
	m.AnnouncementSetSize.Observe(float64(size))
}

func (m *Metrics) observeQueueSize(n int) {
	if m == nil {
		return
	}
	m.QueueSize.Set(float64(n))
}
