package dto

import "github.com/noah-isme/silverleaf-workload-api/internal/models"

// ReportRequest captures POST /reports/generate payload.
type ReportRequest struct {
	Type    models.ReportType   `json:"type" validate:"required,oneof=requests monthly_summary department_performance admin_productivity"`
	Format  models.ReportFormat `json:"format" validate:"required,oneof=csv pdf xlsx"`
	Filters *models.FilterState `json:"filters,omitempty"`
}

// ReportJobResponse is returned after enqueueing a report.
type ReportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ReportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ReportStatusResponse exposes job progress metadata.
type ReportStatusResponse struct {
	ID        string              `json:"id"`
	Type      models.ReportType   `json:"type"`
	Format    models.ReportFormat `json:"format"`
	Status    models.ReportStatus `json:"status"`
	Progress  int                 `json:"progress"`
	ResultURL *string             `json:"resultUrl,omitempty"`
	Error     *string             `json:"error,omitempty"`
}
