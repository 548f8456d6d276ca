package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentUsesRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Instrument)
	r.Get("/issues/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/issues/abc", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)

	m.FindingDetected("overtime", "medium")
	m.ImportRecords("imported", 3)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	out := string(body)
	assert.Contains(t, out, `http_requests_total{method="GET",route="/issues/{id}",status="418"} 1`)
	assert.Contains(t, out, `kintai_findings_total{severity="medium",type="overtime"} 1`)
	assert.Contains(t, out, `kintai_import_records_total{result="imported"} 3`)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.FindingDetected("overtime", "medium")
		m.ImportRecords("skipped", 1)
	})
}
