package lockserver

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/marmos91/cachefs/pkg/lockproto"
)

// Label constants for metrics.
const (
	LabelGrant = "grant"
)

// Metrics provides Prometheus metrics for the lock server. Server
// records the acquire/release/revoke/retry counters; it does not call
// SetActiveLocks or SetQueuedWaiters, so the active_locks and
// queued_waiters gauges change only when a caller sets them.
type Metrics struct {
	acquireTotal  *prometheus.CounterVec
	releaseTotal  prometheus.Counter
	revokeTotal   prometheus.Counter
	retryTotal    prometheus.Counter
	activeLocks   prometheus.Gauge
	queuedWaiters prometheus.Gauge

	registered bool
}

// NewMetrics creates and registers lock server metrics. If registry is
// nil, the metrics are created but not registered, matching NewNopMetrics'
// all-nil-safe behavior for tests.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		acquireTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cachefs",
				Subsystem: "lockserver",
				Name:      "acquire_total",
				Help:      "Total number of acquire RPCs handled, by grant kind",
			},
			[]string{LabelGrant},
		),
		releaseTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "cachefs",
				Subsystem: "lockserver",
				Name:      "release_total",
				Help:      "Total number of release RPCs handled",
			},
		),
		revokeTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "cachefs",
				Subsystem: "lockserver",
				Name:      "revoke_total",
				Help:      "Total number of revoke callbacks sent to holders",
			},
		),
		retryTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "cachefs",
				Subsystem: "lockserver",
				Name:      "retry_total",
				Help:      "Total number of retry callbacks sent to waiters",
			},
		),
		activeLocks: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "cachefs",
				Subsystem: "lockserver",
				Name:      "active_locks",
				Help:      "Number of locks currently HELD",
			},
		),
		queuedWaiters: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "cachefs",
				Subsystem: "lockserver",
				Name:      "queued_waiters",
				Help:      "Total waiters queued across all locks",
			},
		),
	}

	if registry != nil {
		registry.MustRegister(
			m.acquireTotal,
			m.releaseTotal,
			m.revokeTotal,
			m.retryTotal,
			m.activeLocks,
			m.queuedWaiters,
		)
		m.registered = true
	}

	return m
}

// NewNopMetrics returns a Metrics value that records nothing; used where
// no registry is available (tests, one-off demos).
func NewNopMetrics() *Metrics {
	return NewMetrics(nil)
}

// ObserveGrant records the outcome of an acquire RPC.
func (m *Metrics) ObserveGrant(grant lockproto.Grant) {
	if m == nil {
		return
	}
	m.acquireTotal.WithLabelValues(grant.String()).Inc()
}

// ObserveRelease records a release RPC.
func (m *Metrics) ObserveRelease() {
	if m == nil {
		return
	}
	m.releaseTotal.Inc()
}

// ObserveRevoke records a revoke callback sent.
func (m *Metrics) ObserveRevoke() {
	if m == nil {
		return
	}
	m.revokeTotal.Inc()
}

// ObserveRetry records a retry callback sent.
func (m *Metrics) ObserveRetry() {
	if m == nil {
		return
	}
	m.retryTotal.Inc()
}

// SetActiveLocks sets the gauge of currently HELD locks.
func (m *Metrics) SetActiveLocks(n float64) {
	if m == nil {
		return
	}
	m.activeLocks.Set(n)
}

// SetQueuedWaiters sets the gauge of total queued waiters across all locks.
func (m *Metrics) SetQueuedWaiters(n float64) {
	if m == nil {
		return
	}
	m.queuedWaiters.Set(n)
}

// Describe implements prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	if m == nil || !m.registered {
		return
	}
	m.acquireTotal.Describe(ch)
	ch <- m.releaseTotal.Desc()
	ch <- m.revokeTotal.Desc()
	ch <- m.retryTotal.Desc()
	ch <- m.activeLocks.Desc()
	ch <- m.queuedWaiters.Desc()
}

// Collect implements prometheus.Collector.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	if m == nil || !m.registered {
		return
	}
	m.acquireTotal.Collect(ch)
	ch <- m.releaseTotal
	ch <- m.revokeTotal
	ch <- m.retryTotal
	ch <- m.activeLocks
	ch <- m.queuedWaiters
}
