package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "idwrcli/internal/errors"
	"idwrcli/internal/services"
	"idwrcli/internal/shared/testutil"
)

func newHealthRouter(t *testing.T, samplesDir string) (http.Handler, *testutil.CaptureHandler) {
	t.Helper()
	logger, logs := testutil.NewTestLogger(t)
	h := NewHealthHandler(services.NewHealthService("1.2.3", "", samplesDir, nil, logger), logger)

	r := chi.NewRouter()
	r.Mount("/health", h.Routes())
	r.Get("/version", h.Version)
	return r, logs
}

func TestHealthHandler_Routes(t *testing.T) {
	router, _ := newHealthRouter(t, t.TempDir())

	tests := []struct {
		path       string
		wantStatus string
	}{
		{"/health", "ok"},
		{"/health/ready", "ready"},
		{"/health/live", "alive"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.Equal(t, http.StatusOK, rec.Code)

			var got services.HealthStatus
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, "1.2.3", got.Version)
		})
	}
}

func TestHealthHandler_NotReady(t *testing.T) {
	notDir := filepath.Join(t.TempDir(), "samples")
	require.NoError(t, os.WriteFile(notDir, []byte("x"), 0o644))
	router, logs := newHealthRouter(t, notDir)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"not_ready"`)
	testutil.AssertLogged(t, logs, slog.LevelWarn, "Readiness check failed")
}

func TestHealthHandler_Version(t *testing.T) {
	router, _ := newHealthRouter(t, "")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "1.2.3", got["version"])
	assert.Contains(t, got, "go_version")
}

func TestMetricsHandler(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	errorHandler := apierrors.NewErrorHandler(logger, false)

	t.Run("disabled", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewMetricsHandler(nil, errorHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("delegates to exporter", func(t *testing.T) {
		exporter := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("idwr_chart_draws_total 1\n"))
		})
		rec := httptest.NewRecorder()
		NewMetricsHandler(exporter, errorHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "idwr_chart_draws_total")
	})
}
