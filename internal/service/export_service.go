package service

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/silverleaf-workload-api/internal/analytics"
	"github.com/noah-isme/silverleaf-workload-api/internal/models"
	appErrors "github.com/noah-isme/silverleaf-workload-api/pkg/errors"
	"github.com/noah-isme/silverleaf-workload-api/pkg/export"
	"github.com/noah-isme/silverleaf-workload-api/pkg/storage"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix              string
	ResultTTL              time.Duration
	SLAThreshold           float64
	UseTimestampResolution bool
	RoleScope              string
	Location               *time.Location
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ReportFormat
	ExpiresAt    time.Time
}

// RenderedExport is an export produced in memory for immediate download.
type RenderedExport struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportServiceParams groups constructor dependencies.
type ExportServiceParams struct {
	Datasets snapshotProvider
	Storage  fileStorage
	Signer   *storage.SignedURLSigner
	Metrics  *MetricsService
	Logger   *zap.Logger
	Config   ExportConfig
}

// ExportService builds report datasets from the current snapshot and renders them.
type ExportService struct {
	datasets snapshotProvider
	storage  fileStorage
	signer   *storage.SignedURLSigner
	metrics  *MetricsService
	pipeline *analytics.Pipeline
	logger   *zap.Logger
	cfg      ExportConfig
	now      func() time.Time
}

// NewExportService constructs an ExportService. Storage and Signer are only needed for Generate.
func NewExportService(params ExportServiceParams) *ExportService {
	cfg := params.Config
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if cfg.SLAThreshold <= 0 {
		cfg.SLAThreshold = 60
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ExportService{
		datasets: params.Datasets,
		storage:  params.Storage,
		signer:   params.Signer,
		metrics:  params.Metrics,
		pipeline: analytics.NewPipeline(cfg.RoleScope),
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
	}
	s.pipeline.Now = func() time.Time { return s.now().In(s.cfg.Location) }
	return s
}

// ValidReportType reports whether t names a known export dataset.
func ValidReportType(t models.ReportType) bool {
	switch t {
	case models.ReportTypeRequests, models.ReportTypeMonthlySummary,
		models.ReportTypeDepartmentPerformance, models.ReportTypeAdminProductivity:
		return true
	default:
		return false
	}
}

// Render builds and encodes an export for immediate download.
func (s *ExportService) Render(ctx context.Context, reportType models.ReportType, params models.ReportJobParams) (*RenderedExport, error) {
	data, err := s.BuildDataset(ctx, reportType, params)
	if err != nil {
		return nil, err
	}
	renderer, err := export.For(string(params.Format))
	if err != nil {
		return nil, err
	}
	payload, err := s.render(renderer, params.Format, data)
	if err != nil {
		return nil, err
	}
	return &RenderedExport{
		Filename:    s.buildFilename(reportType, renderer.Extension()),
		ContentType: renderer.ContentType(),
		Data:        payload,
	}, nil
}

// Generate renders the job's export, stores it and signs a download URL.
func (s *ExportService) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	if s.storage == nil || s.signer == nil {
		return nil, fmt.Errorf("export storage not configured")
	}
	rendered, err := s.Render(ctx, job.Type, job.Params)
	if err != nil {
		return nil, err
	}

	relPath, err := s.storage.Save(job.ID+"_"+rendered.Filename, rendered.Data)
	if err != nil {
		return nil, err
	}
	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	signedURL := strings.TrimRight(s.cfg.APIPrefix, "/")
	if signedURL == "" {
		signedURL = "/api/v1"
	}
	signedURL = fmt.Sprintf("%s/export/%s", signedURL, token)

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          signedURL,
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

// BuildDataset filters the current snapshot for the viewer and shapes it as reportType.
func (s *ExportService) BuildDataset(ctx context.Context, reportType models.ReportType, params models.ReportJobParams) (export.Dataset, error) {
	if !ValidReportType(reportType) {
		return export.Dataset{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported report type %q", reportType))
	}
	snap := s.datasets.Current(ctx)
	requests := s.pipeline.Apply(snap.Bundle.Requests, params.Viewer, params.Filters)

	switch reportType {
	case models.ReportTypeRequests:
		return requestsDataset(requests), nil
	case models.ReportTypeMonthlySummary:
		return s.monthlySummaryDataset(requests), nil
	case models.ReportTypeDepartmentPerformance:
		return departmentPerformanceDataset(requests), nil
	default:
		return adminProductivityDataset(requests), nil
	}
}

func (s *ExportService) render(renderer export.Renderer, format models.ReportFormat, data export.Dataset) ([]byte, error) {
	start := time.Now()
	payload, err := renderer.Render(data)
	s.metrics.ObserveExport(format, time.Since(start))
	if err != nil {
		s.logger.Error("export render failed", zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return payload, nil
}

func (s *ExportService) buildFilename(reportType models.ReportType, ext string) string {
	return fmt.Sprintf("%s_%s.%s", reportType, s.now().UTC().Format("20060102_150405"), ext)
}

func requestsDataset(requests []models.Request) export.Dataset {
	rows := make([][]string, 0, len(requests))
	for _, r := range requests {
		rows = append(rows, []string{
			strconv.Itoa(r.RequestID),
			r.RequestNumber,
			r.RequestType,
			r.DepartmentName,
			r.Status,
			r.Priority,
			formatNumber(r.ProcessingTimeMinutes),
			r.CreatedAt.String(),
			r.ResolvedAt.String(),
			strconv.Itoa(r.AssignedAdminID),
			r.AssignedAdminName,
		})
	}
	return export.Dataset{
		Title: "Requests",
		Headers: []string{
			"request_id", "request_number", "request_type", "department_name", "status", "priority",
			"processing_time_minutes", "created_at", "resolved_at", "assigned_admin_id", "assigned_admin_name",
		},
		Rows: rows,
	}
}

func (s *ExportService) monthlySummaryDataset(requests []models.Request) export.Dataset {
	resolved := 0
	for _, r := range requests {
		if r.IsCompleted() {
			resolved++
		}
	}
	sla := analytics.SLACompliance(requests, s.cfg.SLAThreshold, s.cfg.UseTimestampResolution)
	rows := [][]string{
		{"KPIs", "Total Requests", strconv.Itoa(len(requests))},
		{"KPIs", "Resolved", strconv.Itoa(resolved)},
		{"KPIs", "SLA %", formatNumber(sla) + "%"},
	}

	byType := newTally()
	byDept := newTally()
	for _, r := range requests {
		byType.add(r.RequestType, 0, 0)
		byDept.add(r.DepartmentName, 0, 0)
	}
	for _, key := range byType.order {
		rows = append(rows, []string{"By Type", key, strconv.Itoa(byType.groups[key].total)})
	}
	for _, key := range byDept.order {
		rows = append(rows, []string{"By Department", key, strconv.Itoa(byDept.groups[key].total)})
	}
	return export.Dataset{Title: "Monthly Operations Summary", Headers: []string{"Section", "Metric", "Value"}, Rows: rows}
}

func departmentPerformanceDataset(requests []models.Request) export.Dataset {
	by := newTally()
	for _, r := range requests {
		name := r.DepartmentName
		if strings.TrimSpace(name) == "" {
			name = "Unknown"
		}
		by.add(name, r.ErrorCount, r.ProcessingTimeMinutes)
	}
	rows := make([][]string, 0, len(by.order))
	for _, key := range by.order {
		g := by.groups[key]
		rows = append(rows, []string{key, strconv.Itoa(g.total), strconv.Itoa(g.errors), formatNumber(g.avgTime())})
	}
	return export.Dataset{
		Title:   "Department Performance",
		Headers: []string{"Department", "Total", "Errors", "Avg Time (min)"},
		Rows:    rows,
	}
}

func adminProductivityDataset(requests []models.Request) export.Dataset {
	by := newTally()
	for _, r := range requests {
		name := r.AssignedAdminName
		if strings.TrimSpace(name) == "" {
			name = "Admin " + strconv.Itoa(r.AssignedAdminID)
		}
		g := by.add(name, 0, r.ProcessingTimeMinutes)
		switch {
		case r.IsCompleted():
			g.approvals++
		case r.Status == models.StatusRejected:
			g.rejections++
		default:
			g.pending++
		}
	}
	rows := make([][]string, 0, len(by.order))
	for _, key := range by.order {
		g := by.groups[key]
		rows = append(rows, []string{
			key, strconv.Itoa(g.total), formatNumber(g.avgTime()),
			strconv.Itoa(g.approvals), strconv.Itoa(g.rejections), strconv.Itoa(g.pending),
		})
	}
	return export.Dataset{
		Title:   "Admin Productivity",
		Headers: []string{"Admin", "Total", "Avg Time (min)", "Approvals", "Rejections", "Pending"},
		Rows:    rows,
	}
}

type tallyGroup struct {
	total, errors                  int
	minutes                        float64
	approvals, rejections, pending int
}

func (g *tallyGroup) avgTime() float64 {
	if g.total == 0 {
		return 0
	}
	return analytics.Round2(g.minutes / float64(g.total))
}

// tally groups rows by key in first-seen order.
type tally struct {
	order  []string
	groups map[string]*tallyGroup
}

func newTally() *tally {
	return &tally{groups: map[string]*tallyGroup{}}
}

func (t *tally) add(key string, errors int, minutes float64) *tallyGroup {
	g, ok := t.groups[key]
	if !ok {
		g = &tallyGroup{}
		t.groups[key] = g
		t.order = append(t.order, key)
	}
	g.total++
	g.errors += errors
	g.minutes += minutes
	return g
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
