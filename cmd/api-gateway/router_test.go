package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/silverleaf-workload-api/internal/handler"
	"github.com/noah-isme/silverleaf-workload-api/internal/repository"
	"github.com/noah-isme/silverleaf-workload-api/internal/service"
	"github.com/noah-isme/silverleaf-workload-api/pkg/config"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Env: config.EnvProduction, APIPrefix: "/api/v1"}

	demo, err := repository.DemoUser(config.AuthConfig{
		DemoEmail:    "john.smith@silverleaf.edu",
		DemoPassword: "demo123",
		DemoAdminID:  1,
	})
	require.NoError(t, err)
	authSvc := service.NewAuthService(repository.NewUserRepository(demo), nil, zap.NewNop(), service.AuthConfig{AccessTokenSecret: "secret"})
	metrics := service.NewMetricsService()

	return newRouter(cfg, routes{
		auth:      handler.NewAuthHandler(authSvc),
		dashboard: handler.NewDashboardHandler(nil),
		datasets:  handler.NewDatasetHandler(nil, 0),
		exports:   handler.NewExportHandler(nil),
		reports:   handler.NewReportHandler(nil, nil),
		metrics:   handler.NewMetricsHandler(metrics, nil),
		tokens:    authSvc,
		observer:  metrics,
	})
}

func TestRouterStubEndpoints(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/register", nil))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/forgot", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRouterProtectsDashboard(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouterHidesDocsInProduction(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/docs/index.html", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
