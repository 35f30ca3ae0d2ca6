package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecord(t *testing.T) {
	m := New()

	m.ObserveRequest("/api/analytics", "200", 15*time.Millisecond)
	m.ObserveRequest("/api/analytics", "200", 5*time.Millisecond)
	m.ObserveSnapshot(20*time.Millisecond, 42)
	m.StoreError("query")
	m.ClickRecorded()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/api/analytics", "200")))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.eventsAggregated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeErrors.WithLabelValues("query")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.clicksRecorded))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveRequest("/health", "200", time.Millisecond)
		m.ObserveSnapshot(time.Millisecond, 1)
		m.StoreError("query")
		m.ClickRecorded()
	})
	assert.Nil(t, m.Registry())
}

func TestHandlerServesRegistry(t *testing.T) {
	m := New()
	m.ClickRecorded()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "chatlog_analytics_citation_clicks_recorded_total 1")
}
