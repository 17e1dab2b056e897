package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/silverleaf-workload-api/internal/analytics"
	"github.com/noah-isme/silverleaf-workload-api/internal/dto"
	"github.com/noah-isme/silverleaf-workload-api/internal/middleware"
	"github.com/noah-isme/silverleaf-workload-api/internal/models"
	appErrors "github.com/noah-isme/silverleaf-workload-api/pkg/errors"
)

type fakeDashboardSrv struct {
	overview    *dto.DashboardOverview
	overviewHit bool
	table       *dto.RequestTable
	team        *models.TeamSummary
	calendar    *dto.CalendarResponse
	err         error
	meta        dto.DatasetMeta
	lastViewer  models.Viewer
	lastQuery   dto.DashboardQuery
}

func (f *fakeDashboardSrv) Overview(_ context.Context, viewer models.Viewer, query dto.DashboardQuery) (*dto.DashboardOverview, bool, error) {
	f.lastViewer, f.lastQuery = viewer, query
	return f.overview, f.overviewHit, f.err
}

func (f *fakeDashboardSrv) Requests(_ context.Context, viewer models.Viewer, query dto.DashboardQuery) (*dto.RequestTable, error) {
	f.lastViewer, f.lastQuery = viewer, query
	return f.table, f.err
}

func (f *fakeDashboardSrv) Team(_ context.Context, viewer models.Viewer, query dto.DashboardQuery) (*models.TeamSummary, bool, error) {
	f.lastViewer, f.lastQuery = viewer, query
	return f.team, false, f.err
}

func (f *fakeDashboardSrv) Calendar(_ context.Context, viewer models.Viewer, query dto.DashboardQuery) (*dto.CalendarResponse, error) {
	f.lastViewer, f.lastQuery = viewer, query
	return f.calendar, f.err
}

func (f *fakeDashboardSrv) DatasetMeta(context.Context) dto.DatasetMeta {
	return f.meta
}

func dashboardContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-7", Role: models.RoleManager, AdminID: 7, DepartmentID: 101})
	middleware.WithResponseMeta()(c)
	return c, rec
}

func TestDashboardHandlerOverviewParsesQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeDashboardSrv{
		overview: &dto.DashboardOverview{
			KPIs:    models.KPIs{TotalRequests: 3},
			Dataset: dto.DatasetMeta{Source: models.SourceCSV, Version: 2, Warnings: []string{"w"}},
		},
		overviewHit: true,
	}
	handler := NewDashboardHandler(srv)

	c, rec := dashboardContext("/dashboard?department=Finance&status=Pending&dateRange=Custom&dateStart=2024-03-01&dateEnd=2024-03-31&slaThreshold=30&useTimestamp=false")
	handler.Overview(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Equal(t, models.Viewer{Role: models.RoleManager, AdminID: 7, DepartmentID: 101}, srv.lastViewer)
	assert.Equal(t, "Finance", srv.lastQuery.Filters.Department)
	assert.Equal(t, "Pending", srv.lastQuery.Filters.Status)
	assert.Equal(t, models.DateRangeCustom, srv.lastQuery.Filters.DateRange)
	assert.Equal(t, "2024-03-31", srv.lastQuery.Filters.DateEnd)
	require.NotNil(t, srv.lastQuery.SLAThreshold)
	assert.Equal(t, 30.0, *srv.lastQuery.SLAThreshold)
	require.NotNil(t, srv.lastQuery.UseTimestamp)
	assert.False(t, *srv.lastQuery.UseTimestamp)

	var body struct {
		Data struct {
			KPIs models.KPIs `json:"kpis"`
		} `json:"data"`
		Meta map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Data.KPIs.TotalRequests)
	assert.Equal(t, true, body.Meta["cache_hit"])
	assert.Equal(t, "csv", body.Meta["source"])
	assert.Contains(t, body.Meta, "processing_time_ms")
}

func TestDashboardHandlerRejectsBadSettings(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{})

	c, rec := dashboardContext("/dashboard?slaThreshold=soon")
	handler.Overview(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = dashboardContext("/dashboard?useTimestamp=maybe")
	handler.Overview(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardHandlerRequiresClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	handler.Overview(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDashboardHandlerRequestsPagination(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeDashboardSrv{
		table: &dto.RequestTable{
			Items:      []models.Request{{RequestID: 11}},
			Pagination: models.Pagination{Page: 2, PageSize: 1, TotalCount: 3},
			Sort:       "created_at",
			Order:      "desc",
		},
	}
	handler := NewDashboardHandler(srv)

	c, rec := dashboardContext("/dashboard/requests?sort=created_at&order=desc&page=2&pageSize=1")
	handler.Requests(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "created_at", srv.lastQuery.Sort)
	assert.Equal(t, "desc", srv.lastQuery.Order)
	assert.Equal(t, 2, srv.lastQuery.Page)
	assert.Equal(t, 1, srv.lastQuery.PageSize)

	var body struct {
		Data       []models.Request       `json:"data"`
		Pagination models.Pagination      `json:"pagination"`
		Meta       map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, 3, body.Pagination.TotalCount)
	assert.Equal(t, "created_at", body.Meta["sort"])
}

func TestDashboardHandlerRequestsDefaults(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeDashboardSrv{table: &dto.RequestTable{}}
	handler := NewDashboardHandler(srv)

	c, _ := dashboardContext("/dashboard/requests")
	handler.Requests(c)

	assert.Equal(t, 1, srv.lastQuery.Page)
	assert.Equal(t, 10, srv.lastQuery.PageSize)
	assert.Nil(t, srv.lastQuery.SLAThreshold)
}

func TestDashboardHandlerCapsPageSize(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeDashboardSrv{table: &dto.RequestTable{}}
	handler := NewDashboardHandler(srv)

	c, rec := dashboardContext("/dashboard/requests?page=922337203685477582&pageSize=9223372036854775807")
	handler.Requests(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 922337203685477582, srv.lastQuery.Page)
	assert.Equal(t, analytics.MaxPageSize, srv.lastQuery.PageSize)
}

func TestDashboardHandlerTeamAndCalendar(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeDashboardSrv{
		team:     &models.TeamSummary{TotalStaff: 2},
		calendar: &dto.CalendarResponse{CalendarMonth: models.CalendarMonth{Month: "2024-03"}},
	}
	handler := NewDashboardHandler(srv)

	c, rec := dashboardContext("/dashboard/team")
	handler.Team(c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))

	c, rec = dashboardContext("/dashboard/calendar?month=2024-03&day=2024-03-04")
	handler.Calendar(c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024-03", srv.lastQuery.Month)
	assert.Equal(t, "2024-03-04", srv.lastQuery.Day)
}

func TestDashboardHandlerPropagatesServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{err: appErrors.Clone(appErrors.ErrValidation, "month must be YYYY-MM")})

	c, rec := dashboardContext("/dashboard/calendar?month=March")
	handler.Calendar(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "month must be YYYY-MM")
}
