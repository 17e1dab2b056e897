package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/silverleaf-workload-api/internal/models"
	appErrors "github.com/noah-isme/silverleaf-workload-api/pkg/errors"
	"github.com/noah-isme/silverleaf-workload-api/pkg/storage"
)

func newExportServiceForTest(t *testing.T) (*ExportService, *storage.LocalStorage) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	svc := NewExportService(ExportServiceParams{
		Datasets: &fakeSnapshots{snap: scenarioSnapshot(t)},
		Storage:  store,
		Signer:   storage.NewSignedURLSigner("secret", time.Hour),
		Metrics:  NewMetricsService(),
		Logger:   zap.NewNop(),
		Config:   ExportConfig{APIPrefix: "/api/v1", ResultTTL: time.Hour, UseTimestampResolution: true},
	})
	svc.now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }
	return svc, store
}

func csvParams() models.ReportJobParams {
	return models.ReportJobParams{
		Format:  models.ReportFormatCSV,
		Filters: models.FilterState{DateRange: models.DateRangeAll},
	}
}

func readExportCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	require.True(t, bytes.HasPrefix(data, []byte("\ufeff")))
	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\ufeff")))).ReadAll()
	require.NoError(t, err)
	return records
}

func TestExportServiceRenderRequestsCSV(t *testing.T) {
	svc, _ := newExportServiceForTest(t)

	rendered, err := svc.Render(context.Background(), models.ReportTypeRequests, csvParams())
	require.NoError(t, err)
	assert.Equal(t, "requests_20240315_120000.csv", rendered.Filename)
	assert.True(t, strings.HasPrefix(rendered.ContentType, "text/csv"))

	records := readExportCSV(t, rendered.Data)
	require.Len(t, records, 4)
	assert.Len(t, records[0], 11)
	assert.Equal(t, "request_id", records[0][0])
	assert.Equal(t, "1", records[1][0])
	assert.Equal(t, "2024-03-04T09:00:00.000Z", records[1][7])
	assert.Equal(t, "", records[2][8])
}

func TestExportServiceDatasets(t *testing.T) {
	svc, _ := newExportServiceForTest(t)
	ctx := context.Background()

	summary, err := svc.BuildDataset(ctx, models.ReportTypeMonthlySummary, csvParams())
	require.NoError(t, err)
	assert.Equal(t, []string{"Section", "Metric", "Value"}, summary.Headers)
	assert.Equal(t, []string{"KPIs", "Total Requests", "3"}, summary.Rows[0])
	assert.Equal(t, []string{"KPIs", "Resolved", "1"}, summary.Rows[1])
	assert.Equal(t, []string{"KPIs", "SLA %", "100%"}, summary.Rows[2])
	assert.Contains(t, summary.Rows, []string{"By Type", "Transcript Request", "2"})
	assert.Contains(t, summary.Rows, []string{"By Department", "Finance", "1"})

	depts, err := svc.BuildDataset(ctx, models.ReportTypeDepartmentPerformance, csvParams())
	require.NoError(t, err)
	require.Len(t, depts.Rows, 2)
	assert.Equal(t, []string{"Registrar", "2", "2", "45"}, depts.Rows[0])
	assert.Equal(t, []string{"Finance", "1", "0", "0"}, depts.Rows[1])

	admins, err := svc.BuildDataset(ctx, models.ReportTypeAdminProductivity, csvParams())
	require.NoError(t, err)
	require.Len(t, admins.Rows, 2)
	assert.Equal(t, []string{"Ada", "1", "0", "1", "0", "0"}, admins.Rows[0])
	assert.Equal(t, []string{"Ben", "2", "45", "0", "1", "1"}, admins.Rows[1])
}

func TestExportServiceRejectsUnknownTypeAndFormat(t *testing.T) {
	svc, _ := newExportServiceForTest(t)

	_, err := svc.Render(context.Background(), models.ReportType("payroll"), csvParams())
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation.Code))

	params := csvParams()
	params.Format = "docx"
	_, err = svc.Render(context.Background(), models.ReportTypeRequests, params)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrUnsupportedFormat.Code))
}

func TestExportServiceGenerateStoresAndSigns(t *testing.T) {
	svc, store := newExportServiceForTest(t)
	job := &models.ReportJob{
		ID:     "job-1",
		Type:   models.ReportTypeAdminProductivity,
		Params: models.ReportJobParams{Format: models.ReportFormatXLSX},
	}

	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.URL, "/api/v1/export/"))
	assert.Equal(t, models.ReportFormatXLSX, result.Format)
	assert.Equal(t, ".xlsx", filepath.Ext(result.RelativePath))

	jobID, relPath, _, err := svc.ParseToken(result.Token, false)
	require.NoError(t, err)
	assert.Equal(t, "job-1", jobID)
	assert.Equal(t, result.RelativePath, relPath)

	file, err := store.Open(relPath)
	require.NoError(t, err)
	info, err := file.Stat()
	require.NoError(t, err)
	assert.Positive(t, info.Size())
	require.NoError(t, file.Close())

	require.NoError(t, svc.Delete(relPath))
	_, err = store.Open(relPath)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
