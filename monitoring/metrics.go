package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts conversation events. A nil *Metrics records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	messages        *prometheus.CounterVec
	orders          *prometheus.CounterVec
	parseFailures   prometheus.Counter
	zoneResolutions *prometheus.CounterVec
	failures        *prometheus.CounterVec
	activeSessions  prometheus.Gauge
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		messages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pizzaria_inbound_messages_total",
				Help: "Inbound customer events by kind",
			},
			[]string{"kind"},
		),
		orders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pizzaria_orders_finalized_total",
				Help: "Orders written to the ledger by status",
			},
			[]string{"status"},
		),
		parseFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pizzaria_order_parse_failures_total",
				Help: "Order texts the grammar could not read",
			},
		),
		zoneResolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pizzaria_zone_resolutions_total",
				Help: "Neighborhood lookups by match kind",
			},
			[]string{"match"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pizzaria_collaborator_failures_total",
				Help: "Failed calls to transport, ledger, proof storage or interpreter",
			},
			[]string{"collaborator"},
		),
		activeSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "pizzaria_active_sessions",
				Help: "Customers with an order in progress",
			},
		),
	}
	registry.MustRegister(m.messages, m.orders, m.parseFailures, m.zoneResolutions, m.failures, m.activeSessions)
	return m
}

// Registry exposes the collectors for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) InboundMessage(kind string) {
	if m == nil {
		return
	}
	m.messages.WithLabelValues(kind).Inc()
}

func (m *Metrics) OrderFinalized(status string) {
	if m == nil {
		return
	}
	m.orders.WithLabelValues(status).Inc()
}

func (m *Metrics) ParseFailure() {
	if m == nil {
		return
	}
	m.parseFailures.Inc()
}

func (m *Metrics) ZoneResolved(match string) {
	if m == nil {
		return
	}
	m.zoneResolutions.WithLabelValues(match).Inc()
}

func (m *Metrics) CollaboratorFailure(name string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(name).Inc()
}

func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.activeSessions.Inc()
}

func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.activeSessions.Dec()
}
