package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/silverleaf-workload-api/internal/analytics"
	"github.com/noah-isme/silverleaf-workload-api/internal/dto"
	"github.com/noah-isme/silverleaf-workload-api/internal/models"
	"github.com/noah-isme/silverleaf-workload-api/pkg/cache"
	appErrors "github.com/noah-isme/silverleaf-workload-api/pkg/errors"
)

const dashboardCachePrefix = "dashboard"

const (
	monthLayout = "2006-01"
	dayLayout   = "2006-01-02"
)

type snapshotProvider interface {
	Current(ctx context.Context) *DatasetSnapshot
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL               time.Duration
	SLAThreshold           float64
	UseTimestampResolution bool
	HourlyRate             float64
	DefaultAdminRate       float64
	RoleScope              string
	Location               *time.Location
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Datasets snapshotProvider
	Cache    *CacheService
	Logger   *zap.Logger
	Config   DashboardServiceConfig
}

// DashboardService composes dashboard payloads from the current dataset snapshot.
type DashboardService struct {
	datasets snapshotProvider
	cache    *CacheService
	logger   *zap.Logger
	pipeline *analytics.Pipeline
	now      func() time.Time
	cfg      DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.SLAThreshold <= 0 {
		cfg.SLAThreshold = 60
	}
	if cfg.HourlyRate <= 0 {
		cfg.HourlyRate = 25
	}
	if cfg.DefaultAdminRate <= 0 {
		cfg.DefaultAdminRate = 25
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &DashboardService{
		datasets: params.Datasets,
		cache:    params.Cache,
		logger:   logger,
		now:      time.Now,
		cfg:      cfg,
	}
	s.pipeline = analytics.NewPipeline(cfg.RoleScope)
	s.pipeline.Now = func() time.Time { return s.now().In(s.cfg.Location) }
	return s
}

// Settings resolves the analytic settings for a query.
func (s *DashboardService) Settings(query dto.DashboardQuery) (dto.Settings, error) {
	settings := dto.Settings{
		SLAThreshold:           s.cfg.SLAThreshold,
		UseTimestampResolution: s.cfg.UseTimestampResolution,
	}
	if query.SLAThreshold != nil {
		if *query.SLAThreshold <= 0 {
			return settings, appErrors.Clone(appErrors.ErrValidation, "slaThreshold must be positive")
		}
		settings.SLAThreshold = *query.SLAThreshold
	}
	if query.UseTimestamp != nil {
		settings.UseTimestampResolution = *query.UseTimestamp
	}
	return settings, nil
}

// Overview returns the main dashboard payload and whether it came from cache.
func (s *DashboardService) Overview(ctx context.Context, viewer models.Viewer, query dto.DashboardQuery) (*dto.DashboardOverview, bool, error) {
	settings, err := s.Settings(query)
	if err != nil {
		return nil, false, err
	}
	snap := s.snapshot(ctx)
	key := s.cacheKey(snap, "overview", viewer, query.Filters, settings)
	return cached(ctx, s, key, func() (*dto.DashboardOverview, error) {
		return s.composeOverview(snap, viewer, query.Filters, settings), nil
	})
}

// Requests returns one page of the filtered request table.
func (s *DashboardService) Requests(ctx context.Context, viewer models.Viewer, query dto.DashboardQuery) (*dto.RequestTable, error) {
	sortField := strings.TrimSpace(query.Sort)
	if sortField == "" {
		sortField = "request_id"
	}
	if !analytics.SortableField(sortField) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported sort field "+sortField)
	}
	order := strings.ToLower(strings.TrimSpace(query.Order))
	switch order {
	case "":
		order = "asc"
	case "asc", "desc":
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "order must be asc or desc")
	}

	snap := s.snapshot(ctx)
	filtered := s.pipeline.Apply(snap.Bundle.Requests, viewer, query.Filters)
	sorted := analytics.SortRequests(filtered, sortField, order)
	page, meta := analytics.Paginate(sorted, query.Page, query.PageSize)
	return &dto.RequestTable{Items: page, Pagination: meta, Sort: sortField, Order: order}, nil
}

// Team returns the team management view for the filtered requests.
func (s *DashboardService) Team(ctx context.Context, viewer models.Viewer, query dto.DashboardQuery) (*models.TeamSummary, bool, error) {
	snap := s.snapshot(ctx)
	key := s.cacheKey(snap, "team", viewer, query.Filters, dto.Settings{})
	return cached(ctx, s, key, func() (*models.TeamSummary, error) {
		filtered := s.pipeline.Apply(snap.Bundle.Requests, viewer, query.Filters)
		summary := analytics.Team(snap.Bundle.Admins, filtered)
		return &summary, nil
	})
}

// Calendar returns per-day volume for a month and, when query.Day is set, that day's detail.
// The date range filter is ignored since the month selects the window.
func (s *DashboardService) Calendar(ctx context.Context, viewer models.Viewer, query dto.DashboardQuery) (*dto.CalendarResponse, error) {
	loc := s.cfg.Location
	var month, day time.Time
	var err error
	if query.Month != "" {
		if month, err = time.ParseInLocation(monthLayout, query.Month, loc); err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "month must be formatted YYYY-MM")
		}
	}
	if query.Day != "" {
		if day, err = time.ParseInLocation(dayLayout, query.Day, loc); err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "day must be formatted YYYY-MM-DD")
		}
	}

	filters := query.Filters
	filters.DateRange = models.DateRangeAll
	filters.DateStart, filters.DateEnd = "", ""

	snap := s.snapshot(ctx)
	filtered := s.pipeline.Apply(snap.Bundle.Requests, viewer, filters)
	if month.IsZero() {
		if !day.IsZero() {
			month = time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, loc)
		} else {
			month = analytics.DefaultCalendarMonth(filtered, s.now().In(loc))
		}
	}
	resp := &dto.CalendarResponse{CalendarMonth: analytics.CalendarFor(filtered, month, loc)}
	if !day.IsZero() {
		detail := analytics.DayDetail(filtered, day, loc)
		resp.Day = &detail
	}
	return resp, nil
}

// DatasetMeta describes the snapshot currently served.
func (s *DashboardService) DatasetMeta(ctx context.Context) dto.DatasetMeta {
	return datasetMeta(s.snapshot(ctx))
}

func (s *DashboardService) composeOverview(snap *DatasetSnapshot, viewer models.Viewer, filters models.FilterState, settings dto.Settings) *dto.DashboardOverview {
	loc := s.cfg.Location
	now := s.now().In(loc)
	requests := s.pipeline.Apply(snap.Bundle.Requests, viewer, filters)
	useTs := settings.UseTimestampResolution

	return &dto.DashboardOverview{
		KPIs:                 analytics.CalculateKPIsAt(requests, s.cfg.HourlyRate),
		SLACompliance:        analytics.SLACompliance(requests, settings.SLAThreshold, useTs),
		AvgResolutionMinutes: analytics.AvgResolutionMinutes(requests, useTs),
		MonthlyVolume:        analytics.MonthlyVolume(requests, now),
		MonthlyCost:          analytics.MonthlyCost(requests, snap.Bundle.Admins, s.cfg.DefaultAdminRate, useTs, now),
		Stats:                analytics.DescriptiveStats(requests),
		Charts: dto.DashboardCharts{
			RequestTypes:       analytics.RequestTypeData(requests),
			AvgTimeByType:      analytics.AvgTimeByType(requests),
			Trend:              analytics.FixedCalendarTrend(requests, loc),
			RollingTrend:       analytics.RollingYearTrend(requests, now),
			Heatmap:            analytics.HeatmapData(requests, loc),
			DepartmentWorkload: analytics.DepartmentWorkload(requests),
		},
		VisibleRequests: len(requests),
		TotalRequests:   len(snap.Bundle.Requests),
		Filters:         filters,
		Settings:        settings,
		Dataset:         datasetMeta(snap),
	}
}

func (s *DashboardService) snapshot(ctx context.Context) *DatasetSnapshot {
	return s.datasets.Current(ctx)
}

// cacheKey scopes an entry to the dataset version and the calendar day so relative date presets
// never outlive the day they were computed on.
func (s *DashboardService) cacheKey(snap *DatasetSnapshot, kind string, viewer models.Viewer, filters models.FilterState, settings dto.Settings) string {
	payload, _ := json.Marshal(struct {
		Filters  models.FilterState `json:"f"`
		Viewer   models.Viewer      `json:"v"`
		Settings dto.Settings       `json:"s"`
		Day      string             `json:"d"`
	}{filters, viewer, settings, s.now().In(s.cfg.Location).Format(dayLayout)})
	sum := sha256.Sum256(payload)
	version := "v" + strconv.FormatUint(snap.Version, 10)
	return cache.Key(dashboardCachePrefix, version, kind, hex.EncodeToString(sum[:8]))
}

func cached[T any](ctx context.Context, s *DashboardService, key string, build func() (*T, error)) (*T, bool, error) {
	var hit T
	if s.cache.Get(ctx, key, &hit) {
		return &hit, true, nil
	}
	value, err := build()
	if err != nil {
		return nil, false, err
	}
	s.cache.Set(ctx, key, value, s.cfg.CacheTTL)
	return value, false, nil
}

func datasetMeta(snap *DatasetSnapshot) dto.DatasetMeta {
	return dto.DatasetMeta{
		Source:   snap.Bundle.Source,
		Version:  snap.Version,
		LoadedAt: snap.Bundle.LoadedAt,
		Warnings: snap.Warnings,
	}
}
