package handler

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/silverleaf-workload-api/internal/dataset"
	"github.com/noah-isme/silverleaf-workload-api/internal/service"
	appErrors "github.com/noah-isme/silverleaf-workload-api/pkg/errors"
	"github.com/noah-isme/silverleaf-workload-api/pkg/response"
)

const defaultMaxUploadBytes = 10 << 20

type datasetService interface {
	Current(ctx context.Context) *service.DatasetSnapshot
	Reload(ctx context.Context) *service.DatasetSnapshot
	Upload(ctx context.Context, files []dataset.UploadFile) (*service.DatasetSnapshot, error)
	ClearOverride(ctx context.Context) *service.DatasetSnapshot
}

// DatasetHandler manages the dataset served by the dashboard.
type DatasetHandler struct {
	service        datasetService
	maxUploadBytes int64
}

// NewDatasetHandler constructs the handler. maxUploadBytes caps the multipart body.
func NewDatasetHandler(svc datasetService, maxUploadBytes int64) *DatasetHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &DatasetHandler{service: svc, maxUploadBytes: maxUploadBytes}
}

// Info godoc
// @Summary Current dataset snapshot
// @Tags Dataset
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dataset [get]
func (h *DatasetHandler) Info(c *gin.Context) {
	h.respond(c, http.StatusOK, h.service.Current(c.Request.Context()))
}

// Reload godoc
// @Summary Reload the dataset from its sources
// @Tags Dataset
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dataset/reload [post]
func (h *DatasetHandler) Reload(c *gin.Context) {
	h.respond(c, http.StatusOK, h.service.Reload(c.Request.Context()))
}

// Upload godoc
// @Summary Replace the dataset with uploaded CSV files
// @Description Files are matched by name against requests.csv, admins.csv, departments.csv, request_types.csv, workload_log.csv and daily_summary.csv
// @Tags Dataset
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "CSV files"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /dataset/upload [post]
func (h *DatasetHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, appErrors.ErrPayloadTooLarge)
			return
		}
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid multipart upload"))
		return
	}
	var headers []*multipart.FileHeader
	for _, files := range form.File {
		headers = append(headers, files...)
	}
	if len(headers) == 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "at least one file is required"))
		return
	}

	uploads := make([]dataset.UploadFile, 0, len(headers))
	for _, header := range headers {
		content, err := readUpload(header)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to read "+header.Filename))
			return
		}
		uploads = append(uploads, dataset.UploadFile{Name: header.Filename, Content: content})
	}

	snap, err := h.service.Upload(c.Request.Context(), uploads)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c, http.StatusOK, snap)
}

// ClearOverride godoc
// @Summary Drop the uploaded dataset
// @Tags Dataset
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dataset/override [delete]
func (h *DatasetHandler) ClearOverride(c *gin.Context) {
	h.respond(c, http.StatusOK, h.service.ClearOverride(c.Request.Context()))
}

func (h *DatasetHandler) respond(c *gin.Context, status int, snap *service.DatasetSnapshot) {
	info := snap.Info()
	meta := map[string]interface{}{
		"source":          info.Source,
		"dataset_version": info.Version,
		"warnings":        info.Warnings,
	}
	response.JSON(c, status, info, nil, meta)
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close() //nolint:errcheck
	return io.ReadAll(file)
}
