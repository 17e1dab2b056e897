package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/silverleaf-workload-api/internal/dataset"
	"github.com/noah-isme/silverleaf-workload-api/internal/models"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type requestRecord struct {
	RequestID             int64           `db:"request_id"`
	RequestNumber         sql.NullString  `db:"request_number"`
	StudentID             sql.NullInt64   `db:"student_id"`
	RequestType           sql.NullString  `db:"request_type"`
	DepartmentID          sql.NullInt64   `db:"department_id"`
	DepartmentName        sql.NullString  `db:"department_name"`
	Priority              sql.NullString  `db:"priority"`
	Status                sql.NullString  `db:"status"`
	CreatedAt             sql.NullTime    `db:"created_at"`
	ResolvedAt            sql.NullTime    `db:"resolved_at"`
	ProcessingTimeMinutes sql.NullFloat64 `db:"processing_time_minutes"`
	EstimatedTimeMinutes  sql.NullFloat64 `db:"estimated_time_minutes"`
	AssignedAdminID       sql.NullInt64   `db:"assigned_admin_id"`
	AssignedAdminName     sql.NullString  `db:"assigned_admin_name"`
	ErrorCount            sql.NullInt64   `db:"error_count"`
	ComplexityScore       sql.NullFloat64 `db:"complexity_score"`
	ManualStepsCount      sql.NullInt64   `db:"manual_steps_count"`
	RequiresManualReview  sql.NullBool    `db:"requires_manual_review"`
}

func (r requestRecord) model() models.Request {
	req := models.Request{
		RequestID:             int(r.RequestID),
		RequestNumber:         r.RequestNumber.String,
		StudentID:             int(r.StudentID.Int64),
		RequestType:           r.RequestType.String,
		DepartmentID:          int(r.DepartmentID.Int64),
		DepartmentName:        r.DepartmentName.String,
		Priority:              r.Priority.String,
		Status:                r.Status.String,
		ProcessingTimeMinutes: r.ProcessingTimeMinutes.Float64,
		EstimatedTimeMinutes:  r.EstimatedTimeMinutes.Float64,
		AssignedAdminID:       int(r.AssignedAdminID.Int64),
		AssignedAdminName:     r.AssignedAdminName.String,
		ErrorCount:            int(r.ErrorCount.Int64),
		ComplexityScore:       r.ComplexityScore.Float64,
		ManualStepsCount:      int(r.ManualStepsCount.Int64),
		RequiresManualReview:  r.RequiresManualReview.Bool,
	}
	if r.CreatedAt.Valid {
		req.CreatedAt = models.NewTimestamp(r.CreatedAt.Time)
	}
	if r.ResolvedAt.Valid && req.Status != models.StatusPending {
		req.ResolvedAt = models.NewTimestamp(r.ResolvedAt.Time)
	}
	if req.ProcessingTimeMinutes < 0 {
		req.ProcessingTimeMinutes = 0
	}
	if req.ErrorCount < 0 {
		req.ErrorCount = 0
	}
	return req
}

type adminRecord struct {
	AdminID         int64           `db:"admin_id"`
	Name            sql.NullString  `db:"admin_name"`
	Email           sql.NullString  `db:"email"`
	DepartmentID    sql.NullInt64   `db:"department_id"`
	DepartmentName  sql.NullString  `db:"department_name"`
	Role            sql.NullString  `db:"role"`
	HourlyRate      sql.NullFloat64 `db:"hourly_rate"`
	EfficiencyScore sql.NullFloat64 `db:"efficiency_score"`
}

type departmentRecord struct {
	DepartmentID   int64          `db:"department_id"`
	DepartmentName sql.NullString `db:"department_name"`
	DepartmentCode sql.NullString `db:"department_code"`
	DepartmentHead sql.NullString `db:"department_head"`
	HeadCount      sql.NullInt64  `db:"head_count"`
}

// WarehouseRepository reads the request, admin and department tables of a reporting database.
// It never writes.
type WarehouseRepository struct {
	db *sqlx.DB
}

// NewWarehouseRepository constructs the repository.
func NewWarehouseRepository(db *sqlx.DB) *WarehouseRepository {
	return &WarehouseRepository{db: db}
}

// Requests returns requests created at or after since (all when since is zero) ordered by id.
// Department and admin names fall back to the joined tables when the request row lacks them.
func (r *WarehouseRepository) Requests(ctx context.Context, since time.Time) ([]models.Request, error) {
	builder := psql.Select(
		"r.request_id", "r.request_number", "r.student_id", "r.request_type", "r.department_id",
		"COALESCE(NULLIF(r.department_name, ''), d.department_name) AS department_name",
		"r.priority", "r.status", "r.created_at", "r.resolved_at",
		"r.processing_time_minutes", "r.estimated_time_minutes", "r.assigned_admin_id",
		"COALESCE(NULLIF(r.assigned_admin_name, ''), a.admin_name) AS assigned_admin_name",
		"r.error_count", "r.complexity_score", "r.manual_steps_count", "r.requires_manual_review",
	).
		From("requests r").
		LeftJoin("departments d ON d.department_id = r.department_id").
		LeftJoin("admins a ON a.admin_id = r.assigned_admin_id").
		OrderBy("r.request_id")
	if !since.IsZero() {
		builder = builder.Where(sq.GtOrEq{"r.created_at": since})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build requests query: %w", err)
	}
	var records []requestRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	out := make([]models.Request, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.model())
	}
	return out, nil
}

// Admins returns every admin ordered by id.
func (r *WarehouseRepository) Admins(ctx context.Context) ([]models.Admin, error) {
	query, args, err := psql.Select(
		"a.admin_id", "a.admin_name", "a.email", "a.department_id", "d.department_name",
		"a.role", "a.hourly_rate", "a.efficiency_score",
	).
		From("admins a").
		LeftJoin("departments d ON d.department_id = a.department_id").
		OrderBy("a.admin_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build admins query: %w", err)
	}
	var records []adminRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	out := make([]models.Admin, 0, len(records))
	for _, rec := range records {
		out = append(out, models.Admin{
			AdminID:         int(rec.AdminID),
			Name:            rec.Name.String,
			Email:           rec.Email.String,
			DepartmentID:    int(rec.DepartmentID.Int64),
			DepartmentName:  rec.DepartmentName.String,
			Role:            rec.Role.String,
			HourlyRate:      rec.HourlyRate.Float64,
			EfficiencyScore: rec.EfficiencyScore.Float64,
		})
	}
	return out, nil
}

// Departments returns every department ordered by id.
func (r *WarehouseRepository) Departments(ctx context.Context) ([]models.Department, error) {
	query, args, err := psql.Select("department_id", "department_name", "department_code", "department_head", "head_count").
		From("departments").
		OrderBy("department_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build departments query: %w", err)
	}
	var records []departmentRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	out := make([]models.Department, 0, len(records))
	for _, rec := range records {
		out = append(out, models.Department{
			DepartmentID:   int(rec.DepartmentID),
			DepartmentName: rec.DepartmentName.String,
			DepartmentCode: rec.DepartmentCode.String,
			DepartmentHead: rec.DepartmentHead.String,
			HeadCount:      int(rec.HeadCount.Int64),
		})
	}
	return out, nil
}

type warehouseReader interface {
	Requests(ctx context.Context, since time.Time) ([]models.Request, error)
	Admins(ctx context.Context) ([]models.Admin, error)
	Departments(ctx context.Context) ([]models.Department, error)
}

// WarehouseSource adapts WarehouseRepository to dataset.DataSource. Only the requests query is
// fatal; admin and department failures become warnings.
type WarehouseSource struct {
	repo   warehouseReader
	window time.Duration
	now    func() time.Time
	logger *zap.Logger
}

// NewWarehouseSource builds a source reading requests from the last window (all when window <= 0).
func NewWarehouseSource(repo warehouseReader, window time.Duration, logger *zap.Logger) *WarehouseSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WarehouseSource{repo: repo, window: window, now: time.Now, logger: logger}
}

// Name implements dataset.DataSource.
func (s *WarehouseSource) Name() string { return "postgres" }

// Load implements dataset.DataSource.
func (s *WarehouseSource) Load(ctx context.Context) (*dataset.LoadResult, error) {
	var since time.Time
	if s.window > 0 {
		since = s.now().Add(-s.window)
	}
	requests, err := s.repo.Requests(ctx, since)
	if err != nil {
		return nil, err
	}

	result := &dataset.LoadResult{Warnings: []string{}}
	admins, err := s.repo.Admins(ctx)
	if err != nil {
		s.logger.Warn("warehouse admins unavailable", zap.Error(err))
		result.Warn("admins unavailable: %v", err)
		admins = []models.Admin{}
	}
	departments, err := s.repo.Departments(ctx)
	if err != nil {
		s.logger.Warn("warehouse departments unavailable", zap.Error(err))
		result.Warn("departments unavailable: %v", err)
		departments = []models.Department{}
	}
	for i := range departments {
		for _, req := range requests {
			if req.DepartmentID == departments[i].DepartmentID {
				departments[i].TotalRequests++
			}
		}
	}

	result.Bundle = &models.Bundle{
		Requests:     requests,
		Admins:       admins,
		Departments:  departments,
		RequestTypes: dataset.RequestTypeRows(requests, nil),
		WorkloadLog:  []models.Row{},
		DailySummary: []models.Row{},
		Source:       models.SourceDatabase,
	}
	if len(requests) == 0 {
		return result, dataset.ErrNoRequests
	}
	return result, nil
}
