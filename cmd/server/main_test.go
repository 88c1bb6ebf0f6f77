package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/houzhh15/weekly-report/cmd/server/internal/config"
	"github.com/houzhh15/weekly-report/cmd/server/internal/render"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{Env: "dev"},
		Data:   config.DataConfig{Dir: t.TempDir(), DraftBackend: backend, DraftMaxBytes: 4096},
	}
}

func TestHealthCheckHandler(t *testing.T) {
	r := gin.New()
	r.GET("/health", healthCheckHandler(testConfig(t, "file"), time.Now()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthCheckResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "weekly-report-server", resp.Service)
	assert.Equal(t, "dev", resp.Env)
}

func TestReadinessCheckHandler(t *testing.T) {
	for _, backend := range []string{"file", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			cfg := testConfig(t, backend)
			drafts, err := openDraftStore(cfg)
			require.NoError(t, err)
			t.Cleanup(func() { drafts.Close() })

			r := gin.New()
			r.GET("/readiness", readinessCheckHandler(cfg, drafts))

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readiness", nil))
			require.Equal(t, http.StatusOK, w.Code)

			var resp ReadinessCheckResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.True(t, resp.Ready)
			assert.Len(t, resp.Checks, 2)
		})
	}
}

func TestReadinessCheckHandler_MissingDataDir(t *testing.T) {
	cfg := testConfig(t, "file")
	drafts, err := openDraftStore(cfg)
	require.NoError(t, err)
	defer drafts.Close()
	cfg.Data.Dir = filepath.Join(cfg.Data.Dir, "missing")

	r := gin.New()
	r.GET("/readiness", readinessCheckHandler(cfg, drafts))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readiness", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "data directory not accessible")
}

func TestLoadPalette_BuiltinOnly(t *testing.T) {
	palette, err := loadPalette("  ")
	require.NoError(t, err)
	assert.Len(t, palette.Themes(), len(render.NewPalette().Themes()))
}
