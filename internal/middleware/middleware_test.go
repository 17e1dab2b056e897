package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/silverleaf-workload-api/internal/models"
	appErrors "github.com/noah-isme/silverleaf-workload-api/pkg/errors"
)

type stubValidator struct {
	claims *models.JWTClaims
}

func (s stubValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	if token != "good" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	return s.claims, nil
}

type recordedRequest struct {
	method, path string
	status       int
}

type stubObserver struct {
	seen []recordedRequest
}

func (s *stubObserver) ObserveHTTPRequest(method, path string, status int, _ time.Duration) {
	s.seen = append(s.seen, recordedRequest{method, path, status})
}

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, method, target, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestJWTAndRequireRoles(t *testing.T) {
	validator := stubValidator{claims: &models.JWTClaims{UserID: "user-1", Role: models.RoleAnalyst}}
	r := gin.New()
	r.Use(JWT(validator))
	r.GET("/open", func(c *gin.Context) {
		claims, ok := Claims(c)
		require.True(t, ok)
		c.String(http.StatusOK, claims.UserID)
	})
	r.GET("/admin", RequireRoles(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/analyst", RequireRoles(models.RoleAdmin, models.RoleAnalyst), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/open", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/open", "Token good").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/open", "Bearer bad").Code)

	rec := serve(r, http.MethodGet, "/open", "Bearer good")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", rec.Body.String())

	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/admin", "bearer good").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/analyst", "Bearer good").Code)
}

func TestRequireRolesWithoutClaims(t *testing.T) {
	r := gin.New()
	r.GET("/admin", RequireRoles(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/admin", "").Code)
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	obs := &stubObserver{}
	r := gin.New()
	r.Use(Metrics(obs))
	r.GET("/reports/status/:id", func(c *gin.Context) { c.Status(http.StatusAccepted) })

	serve(r, http.MethodGet, "/reports/status/abc", "")
	serve(r, http.MethodGet, "/nowhere", "")

	require.Len(t, obs.seen, 2)
	assert.Equal(t, recordedRequest{http.MethodGet, "/reports/status/:id", http.StatusAccepted}, obs.seen[0])
	assert.Equal(t, recordedRequest{http.MethodGet, "unmatched", http.StatusNotFound}, obs.seen[1])
}

func TestResponseMeta(t *testing.T) {
	r := gin.New()
	r.Use(WithResponseMeta())
	var meta map[string]interface{}
	r.GET("/", func(c *gin.Context) {
		SetCacheHit(c, true)
		SetDataset(c, "sample", 3, nil)
		meta = ExtractMeta(c)
		c.Status(http.StatusOK)
	})

	rec := serve(r, http.MethodGet, "/", "")
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Equal(t, true, meta["cache_hit"])
	assert.Equal(t, "sample", meta["source"])
	assert.Equal(t, uint64(3), meta["dataset_version"])
	assert.Equal(t, []string{}, meta["warnings"])
	assert.Contains(t, meta, "processing_time_ms")
}

func TestAuditLogsSuccessfulRequestsOnly(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(ContextUserKey, &models.JWTClaims{UserID: "user-1", Role: models.RoleAdmin})
		c.Next()
	})
	audit := Audit(zap.New(core), "dataset.reload", "dataset")
	r.POST("/ok", audit, func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/fail", audit, func(c *gin.Context) { c.Status(http.StatusBadRequest) })

	serve(r, http.MethodPost, "/ok", "")
	serve(r, http.MethodPost, "/fail", "")

	entries := logs.FilterMessage("audit").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "dataset.reload", fields["action"])
	assert.Equal(t, "user-1", fields["user_id"])
	assert.Equal(t, "/ok", fields["path"])
}
