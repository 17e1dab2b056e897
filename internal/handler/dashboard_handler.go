package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/silverleaf-workload-api/internal/analytics"
	"github.com/noah-isme/silverleaf-workload-api/internal/dto"
	"github.com/noah-isme/silverleaf-workload-api/internal/middleware"
	"github.com/noah-isme/silverleaf-workload-api/internal/models"
	appErrors "github.com/noah-isme/silverleaf-workload-api/pkg/errors"
	"github.com/noah-isme/silverleaf-workload-api/pkg/response"
)

type dashboardService interface {
	Overview(ctx context.Context, viewer models.Viewer, query dto.DashboardQuery) (*dto.DashboardOverview, bool, error)
	Requests(ctx context.Context, viewer models.Viewer, query dto.DashboardQuery) (*dto.RequestTable, error)
	Team(ctx context.Context, viewer models.Viewer, query dto.DashboardQuery) (*models.TeamSummary, bool, error)
	Calendar(ctx context.Context, viewer models.Viewer, query dto.DashboardQuery) (*dto.CalendarResponse, error)
	DatasetMeta(ctx context.Context) dto.DatasetMeta
}

// DashboardHandler wires dashboard service to HTTP endpoints.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Overview godoc
// @Summary Workload dashboard overview
// @Description KPIs, SLA, charts and descriptive statistics for the filtered, role scoped requests
// @Tags Dashboard
// @Produce json
// @Param department query string false "Department name or All"
// @Param status query string false "Status or All"
// @Param priority query string false "Priority or All"
// @Param type query string false "Request type or All"
// @Param search query string false "Free text search"
// @Param searchScope query string false "All, Departments, Requests or Admins"
// @Param dateRange query string false "Date preset, e.g. This month, Last 30 days, Custom"
// @Param dateStart query string false "Custom range start (YYYY-MM-DD)"
// @Param dateEnd query string false "Custom range end (YYYY-MM-DD)"
// @Param slaThreshold query number false "SLA threshold in minutes"
// @Param useTimestamp query bool false "Resolve SLA from timestamps"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Overview(c *gin.Context) {
	query, claims, ok := h.prepare(c)
	if !ok {
		return
	}
	overview, cacheHit, err := h.service.Overview(c.Request.Context(), claims.Viewer(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	setDatasetMeta(c, overview.Dataset)
	response.JSON(c, http.StatusOK, overview, nil, middleware.ExtractMeta(c))
}

// Requests godoc
// @Summary Filtered request table
// @Tags Dashboard
// @Produce json
// @Param sort query string false "request_id, created_at, processing_time_minutes, priority, status or request_type"
// @Param order query string false "asc or desc"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /dashboard/requests [get]
func (h *DashboardHandler) Requests(c *gin.Context) {
	query, claims, ok := h.prepare(c)
	if !ok {
		return
	}
	table, err := h.service.Requests(c.Request.Context(), claims.Viewer(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	setDatasetMeta(c, h.service.DatasetMeta(c.Request.Context()))
	meta := middleware.ExtractMeta(c)
	meta["sort"] = table.Sort
	meta["order"] = table.Order
	response.JSON(c, http.StatusOK, table.Items, &table.Pagination, meta)
}

// Team godoc
// @Summary Team productivity
// @Description Per admin productivity, top performer, department workload and insights
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/team [get]
func (h *DashboardHandler) Team(c *gin.Context) {
	query, claims, ok := h.prepare(c)
	if !ok {
		return
	}
	team, cacheHit, err := h.service.Team(c.Request.Context(), claims.Viewer(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	setDatasetMeta(c, h.service.DatasetMeta(c.Request.Context()))
	response.JSON(c, http.StatusOK, team, nil, middleware.ExtractMeta(c))
}

// Calendar godoc
// @Summary Monthly request calendar
// @Tags Dashboard
// @Produce json
// @Param month query string false "Month (YYYY-MM)"
// @Param day query string false "Day drill-down (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /dashboard/calendar [get]
func (h *DashboardHandler) Calendar(c *gin.Context) {
	query, claims, ok := h.prepare(c)
	if !ok {
		return
	}
	calendar, err := h.service.Calendar(c.Request.Context(), claims.Viewer(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	setDatasetMeta(c, h.service.DatasetMeta(c.Request.Context()))
	response.JSON(c, http.StatusOK, calendar, nil, middleware.ExtractMeta(c))
}

func (h *DashboardHandler) prepare(c *gin.Context) (dto.DashboardQuery, *models.JWTClaims, bool) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return dto.DashboardQuery{}, nil, false
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return dto.DashboardQuery{}, nil, false
	}
	query, err := parseDashboardQuery(c)
	if err != nil {
		response.Error(c, err)
		return dto.DashboardQuery{}, nil, false
	}
	return query, claims, true
}

func parseDashboardQuery(c *gin.Context) (dto.DashboardQuery, error) {
	var query dto.DashboardQuery
	if err := c.ShouldBindQuery(&query.Filters); err != nil {
		return query, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid filter parameters")
	}
	if raw := strings.TrimSpace(c.Query("slaThreshold")); raw != "" {
		threshold, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return query, appErrors.Clone(appErrors.ErrValidation, "slaThreshold must be a number")
		}
		query.SLAThreshold = &threshold
	}
	if raw := strings.TrimSpace(c.Query("useTimestamp")); raw != "" {
		use, err := strconv.ParseBool(raw)
		if err != nil {
			return query, appErrors.Clone(appErrors.ErrValidation, "useTimestamp must be a boolean")
		}
		query.UseTimestamp = &use
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		query.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("pageSize", "10")); err == nil {
		query.PageSize = min(size, analytics.MaxPageSize)
	}
	query.Sort = c.Query("sort")
	query.Order = c.Query("order")
	query.Month = strings.TrimSpace(c.Query("month"))
	query.Day = strings.TrimSpace(c.Query("day"))
	return query, nil
}

func setDatasetMeta(c *gin.Context, meta dto.DatasetMeta) {
	middleware.SetDataset(c, string(meta.Source), meta.Version, meta.Warnings)
}
