package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Resanso/smart-office/internal/metrics"
	"github.com/Resanso/smart-office/internal/simulation"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeLLM struct {
	answer  string
	err     error
	prompts []string
}

func (f *fakeLLM) GenerateText(_ context.Context, systemPrompt string, userParts ...string) (string, error) {
	f.prompts = append([]string{systemPrompt}, userParts...)
	return f.answer, f.err
}

func newTestRouter(t *testing.T, llm TextGenerator) (*gin.Engine, *simulation.Dataset) {
	t.Helper()
	ds, err := simulation.New(simulation.ReferenceWindow()).Generate()
	require.NoError(t, err)
	return NewRouter(Dependencies{Dataset: ds, RunID: "run-1", LLM: llm, Metrics: metrics.New()}), ds
}

func do(r http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	r, ds := newTestRouter(t, nil)
	rec := do(r, http.MethodGet, "/api/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "run-1", body["runId"])
	assert.Equal(t, float64(ds.Len()), body["readings"])
}

func TestNoDataset(t *testing.T) {
	r := NewRouter(Dependencies{})
	assert.Equal(t, http.StatusServiceUnavailable, do(r, http.MethodGet, "/api/health", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(r, http.MethodGet, "/api/dataset", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/metrics", nil).Code)
}

func TestReadingsFilters(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	rec := do(r, http.MethodGet, "/api/dataset?sensor_id=O01&limit=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Total    int          `json:"total"`
		Count    int          `json:"count"`
		Readings []readingDTO `json:"readings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 672, body.Total)
	assert.Equal(t, 5, body.Count)
	for _, reading := range body.Readings {
		assert.Equal(t, "O01", reading.SensorID)
		assert.Equal(t, "ocupacao", reading.Type)
	}
	assert.Equal(t, "2025-10-01 00:00", body.Readings[0].Timestamp)

	rec = do(r, http.MethodGet, "/api/dataset?tipo=luminosidade", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2016, body.Count)
}

func TestReadingsBadQuery(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/dataset?tipo=humidity", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/dataset?limit=-1", nil).Code)
}

func TestSummary(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	rec := do(r, http.MethodGet, "/api/dataset/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Window struct {
			Instants int `json:"instants"`
		} `json:"window"`
		Readings int                        `json:"readings"`
		Sensors  []simulation.SensorSummary `json:"sensors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 672, body.Window.Instants)
	assert.Equal(t, 6048, body.Readings)
	assert.Len(t, body.Sensors, 9)
}

func TestExport(t *testing.T) {
	r, ds := newTestRouter(t, nil)

	rec := do(r, http.MethodGet, "/api/dataset/export/csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "smart_office_data.csv")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "timestamp,sensor_id,tipo,valor\n"))
	assert.Equal(t, ds.Len()+1, strings.Count(rec.Body.String(), "\n"))

	rec = do(r, http.MethodGet, "/api/dataset/export/lp", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ds.Len(), strings.Count(rec.Body.String(), "\n"))

	rec = do(r, http.MethodGet, "/api/dataset/export/xlsx", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/dataset/export/parquet", nil).Code)
}

func TestChat(t *testing.T) {
	llm := &fakeLLM{answer: "  Média de 21.5 °C.  "}
	r, _ := newTestRouter(t, llm)

	rec := do(r, http.MethodPost, "/api/chat", []byte(`{"question":"Qual a temperatura média?"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Média de 21.5 °C.", body["answer"])

	require.Len(t, llm.prompts, 3)
	assert.Equal(t, analysisSystemPrompt, llm.prompts[0])
	assert.Contains(t, llm.prompts[1], "T01,temperatura,°C,672,")
	assert.Equal(t, "Question: Qual a temperatura média?", llm.prompts[2])
}

func TestChatErrors(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	assert.Equal(t, http.StatusServiceUnavailable, do(r, http.MethodPost, "/api/chat", []byte(`{"question":"x"}`)).Code)

	r, _ = newTestRouter(t, &fakeLLM{})
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/chat", []byte(`{`)).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/chat", []byte(`{"question":"  "}`)).Code)

	r, _ = newTestRouter(t, &fakeLLM{err: errors.New("quota exceeded")})
	assert.Equal(t, http.StatusBadGateway, do(r, http.MethodPost, "/api/chat", []byte(`{"question":"x"}`)).Code)
}

func TestMetricsEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	do(r, http.MethodGet, "/api/health", nil)

	rec := do(r, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{route="/api/health",status="200"} 1`)
}

func TestRequestIDPropagated(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}
