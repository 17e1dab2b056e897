package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/silverleaf-workload-api/internal/models"
	"github.com/noah-isme/silverleaf-workload-api/internal/service"
	appErrors "github.com/noah-isme/silverleaf-workload-api/pkg/errors"
	"github.com/noah-isme/silverleaf-workload-api/pkg/response"
)

type exportRenderer interface {
	Render(ctx context.Context, reportType models.ReportType, params models.ReportJobParams) (*service.RenderedExport, error)
}

// ExportHandler serves synchronous downloads of the filtered view.
type ExportHandler struct {
	exports exportRenderer
}

// NewExportHandler constructs the handler.
func NewExportHandler(exports exportRenderer) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Download godoc
// @Summary Download an export of the filtered requests
// @Tags Exports
// @Produce octet-stream
// @Param type path string true "requests, monthly_summary, department_performance or admin_productivity"
// @Param format query string false "csv, pdf or xlsx" default(csv)
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Failure 415 {object} response.Envelope
// @Router /exports/{type} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "export service not configured"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	query, err := parseDashboardQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	params := models.ReportJobParams{
		Format:  models.ReportFormat(strings.ToLower(c.DefaultQuery("format", string(models.ReportFormatCSV)))),
		Filters: query.Filters,
		Viewer:  claims.Viewer(),
	}
	rendered, err := h.exports.Render(c.Request.Context(), models.ReportType(c.Param("type")), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, rendered.Filename, rendered.ContentType, rendered.Data)
}
