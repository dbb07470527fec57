package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	httpadapter "github.com/couchcryptid/heat-scores-dashboard/internal/adapter/http"
	"github.com/couchcryptid/heat-scores-dashboard/internal/dashboard"
	"github.com/couchcryptid/heat-scores-dashboard/internal/domain"
	"github.com/couchcryptid/heat-scores-dashboard/internal/export"
	"github.com/couchcryptid/heat-scores-dashboard/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(readyErr error) *httpadapter.Server {
	svc := dashboard.New(dashboard.DefaultOptions(), dashboard.Sources{}, nil, discardLogger(), observability.NewMetricsForTesting())
	return httpadapter.NewServer(":0", svc, &mockReadiness{err: readyErr}, discardLogger())
}

func get(t *testing.T, srv http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

// --- health ---

func TestHealthzReturns200(t *testing.T) {
	rec := get(t, newTestServer(nil), "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := get(t, newTestServer(nil), "/readyz")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	rec := get(t, newTestServer(fmt.Errorf("not ready yet")), "/readyz")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "not ready yet", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(t, newTestServer(nil), "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

// --- official ---

func TestOfficial_Defaults(t *testing.T) {
	rec := get(t, newTestServer(nil), "/api/v1/official")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var v domain.OfficialView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Equal(t, domain.DefaultYearRange(), v.Years)
	assert.Equal(t, 24, v.SST.Len())
	assert.Equal(t, domain.ProvenanceSynthetic, v.SST.Provenance)
	assert.True(t, v.Correlation.Sufficient)
	assert.NotEmpty(t, v.RenderID)
}

func TestOfficial_InvertedRangeIsSwapped(t *testing.T) {
	rec := get(t, newTestServer(nil), "/api/v1/official?start=2030&end=1980")

	require.Equal(t, http.StatusOK, rec.Code)

	var v domain.OfficialView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Equal(t, domain.YearRange{Start: 1980, End: 2030}, v.Years)
	assert.Equal(t, 24, v.SST.Len(), "full example series survives the widest range")
}

func TestOfficial_BadParams(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"non-numeric start", "start=abc"},
		{"non-numeric end", "end=2020.5"},
		{"start below bound", "start=1979"},
		{"end above bound", "end=2031"},
	}
	srv := newTestServer(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, srv, "/api/v1/official?"+tt.query)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decodeError(t, rec), "invalid parameters")
		})
	}
}

func TestOfficial_SingleYearReportsInsufficientData(t *testing.T) {
	rec := get(t, newTestServer(nil), "/api/v1/official?start=2010&end=2010")

	require.Equal(t, http.StatusOK, rec.Code)

	var v domain.OfficialView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.False(t, v.Correlation.Sufficient)
	assert.NotEmpty(t, v.Correlation.Message)
}

// --- student ---

func TestStudent_DefaultsToSleepWithTrendline(t *testing.T) {
	rec := get(t, newTestServer(nil), "/api/v1/student")

	require.Equal(t, http.StatusOK, rec.Code)

	var v domain.StudentView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Equal(t, domain.DefaultStudentQuery(), v.Query)
	assert.Len(t, v.Sleep, 19)
	assert.NotNil(t, v.Fit)
}

func TestStudent_ScoreMetric(t *testing.T) {
	rec := get(t, newTestServer(nil), "/api/v1/student?metric=english-score&trendline=false")

	require.Equal(t, http.StatusOK, rec.Code)

	var v domain.StudentView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Equal(t, domain.MetricEnglishScore, v.Query.Metric)
	assert.Len(t, v.Scores, 200)
	assert.Empty(t, v.Sleep)
	assert.Nil(t, v.Fit)
}

func TestStudent_BadParams(t *testing.T) {
	srv := newTestServer(nil)

	rec := get(t, srv, "/api/v1/student?metric=reading-score")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec), "unknown metric")

	rec = get(t, srv, "/api/v1/student?trendline=maybe")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec), "trendline")
}

// --- downloads ---

func TestDownload_CSV(t *testing.T) {
	rec := get(t, newTestServer(nil), "/api/v1/download/sst.csv?start=2010&end=2012")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.ContentTypeCSV, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="noaa_sst_example.csv"`, rec.Header().Get("Content-Disposition"))

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "date,value,group,year", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "2010-01-01,"))
}

func TestDownload_StudentDatasets(t *testing.T) {
	srv := newTestServer(nil)
	for _, ds := range []string{"sleep", "math-score", "english-score"} {
		t.Run(ds, func(t *testing.T) {
			rec := get(t, srv, "/api/v1/download/"+ds+".csv")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Disposition"), "_vs_temp_example.csv")
		})
	}
}

func TestDownload_UnknownDataset(t *testing.T) {
	srv := newTestServer(nil)

	for _, target := range []string{"/api/v1/download/rainfall.csv", "/api/v1/download/sst.json"} {
		rec := get(t, srv, target)
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
		assert.Contains(t, decodeError(t, rec), "unknown dataset")
	}
}

func TestDownload_BadRange(t *testing.T) {
	rec := get(t, newTestServer(nil), "/api/v1/download/heat-days.csv?start=1900")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// --- links ---

func TestLinks(t *testing.T) {
	rec := get(t, newTestServer(nil), "/api/v1/links")

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Links []export.Link `json:"links"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Links, len(export.Datasets()))
	for _, l := range body.Links {
		assert.True(t, strings.HasPrefix(l.Href, "data:file/csv;base64,"), l.Dataset)
	}
}

func TestUnknownMethodRejected(t *testing.T) {
	srv := newTestServer(nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/official", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
