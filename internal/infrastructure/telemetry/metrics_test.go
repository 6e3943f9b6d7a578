package telemetry

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetrics_RecordsBillingActivity(t *testing.T) {
	m := NewMetrics()

	m.ObserveRun("aggregate", 120*time.Millisecond, nil)
	m.ObserveRun("aggregate", 80*time.Millisecond, errors.New("boom"))
	m.UnitsBilled(3)
	m.UnitsBilled(0)
	m.UnitFailed("VALIDATION_ERROR")
	m.UnitFailed("")
	m.InvoiceSubmitted(nil)
	m.ObserveHTTP(http.MethodPost, "/api/v1/buildings/:id/billing-runs", http.StatusOK, 40*time.Millisecond)
	m.ObserveHTTP(http.MethodGet, "", http.StatusNotFound, time.Millisecond)

	out := scrape(t, m)
	assert.Contains(t, out, `property_billing_runs_total{operation="aggregate",result="success"} 1`)
	assert.Contains(t, out, `property_billing_runs_total{operation="aggregate",result="error"} 1`)
	assert.Contains(t, out, `property_billing_run_latency_seconds_count{operation="aggregate"} 2`)
	assert.Contains(t, out, `property_billing_units_billed_total 3`)
	assert.Contains(t, out, `property_billing_units_failed_total{code="VALIDATION_ERROR"} 1`)
	assert.Contains(t, out, `property_billing_units_failed_total{code="UNKNOWN"} 1`)
	assert.Contains(t, out, `property_billing_invoices_submitted_total{result="success"} 1`)
	assert.Contains(t, out, `property_billing_http_requests_total{method="POST",route="/api/v1/buildings/:id/billing-runs",status="200"} 1`)
	assert.Contains(t, out, `property_billing_http_requests_total{method="GET",route="unmatched",status="404"} 1`)
	assert.Contains(t, out, "go_goroutines")
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRun("aggregate", time.Second, nil)
		m.UnitsBilled(1)
		m.UnitFailed("X")
		m.InvoiceSubmitted(nil)
		m.ObserveHTTP(http.MethodGet, "/health", http.StatusOK, time.Millisecond)
	})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	a, b := NewMetrics(), NewMetrics()
	a.UnitsBilled(5)
	assert.Contains(t, scrape(t, b), "property_billing_units_billed_total 0")
}
