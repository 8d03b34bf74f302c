package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Resanso/smart-office/internal/simulation"
)

func TestOnGeneratedFromRun(t *testing.T) {
	m := New()
	_, err := simulation.New(simulation.ReferenceWindow(), simulation.WithObserver(m)).Generate()
	require.NoError(t, err)

	assert.Equal(t, 672.0, testutil.ToFloat64(m.instantsTotal))
	assert.Equal(t, 2016.0, testutil.ToFloat64(m.readingsTotal.WithLabelValues("temperatura")))
	assert.Equal(t, 2016.0, testutil.ToFloat64(m.readingsTotal.WithLabelValues("luminosidade")))
	assert.Equal(t, 2016.0, testutil.ToFloat64(m.readingsTotal.WithLabelValues("ocupacao")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.OnGenerated(simulation.RunStats{Instants: 1})
	m.ObserveRequest("/api/health", http.StatusOK, time.Millisecond)
}

func TestHandlerExposition(t *testing.T) {
	m := New()
	m.ObserveRequest("/api/health", http.StatusOK, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `http_requests_total{route="/api/health",status="200"} 1`))
}
