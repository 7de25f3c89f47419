package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthz(t *testing.T) {
	r := NewRouter(NewMetrics())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	m := NewMetrics()
	m.InboundMessage("text")
	m.InboundMessage("text")
	m.OrderFinalized("paid")
	m.ParseFailure()
	m.ZoneResolved("fuzzy")
	m.CollaboratorFailure("ledger")
	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()

	r := NewRouter(m)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	for _, want := range []string{
		`pizzaria_inbound_messages_total{kind="text"} 2`,
		`pizzaria_orders_finalized_total{status="paid"} 1`,
		`pizzaria_order_parse_failures_total 1`,
		`pizzaria_zone_resolutions_total{match="fuzzy"} 1`,
		`pizzaria_collaborator_failures_total{collaborator="ledger"} 1`,
		`pizzaria_active_sessions 1`,
	} {
		assert.Contains(t, body, want)
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.InboundMessage("text")
		m.OrderFinalized("paid")
		m.ParseFailure()
		m.ZoneResolved("exact")
		m.CollaboratorFailure("transport")
		m.SessionOpened()
		m.SessionClosed()
	})
	assert.Nil(t, m.Registry())

	w := httptest.NewRecorder()
	NewRouter(m).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
