package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/silverleaf-workload-api/internal/dto"
	"github.com/noah-isme/silverleaf-workload-api/internal/models"
	"github.com/noah-isme/silverleaf-workload-api/internal/repository"
	appErrors "github.com/noah-isme/silverleaf-workload-api/pkg/errors"
	"github.com/noah-isme/silverleaf-workload-api/pkg/jobs"
)

type queueStub struct {
	jobs []jobs.Job
	err  error
}

func (q *queueStub) Enqueue(job jobs.Job) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

type exportStub struct {
	result *ExportResult
	err    error
}

func (e exportStub) Generate(context.Context, *models.ReportJob) (*ExportResult, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.result, nil
}

func newReportServiceForTest(t *testing.T) (*ReportService, *repository.ReportRepository, *queueStub, *ExportService) {
	t.Helper()
	repo := repository.NewReportRepository()
	queue := &queueStub{}
	exportSvc, _ := newExportServiceForTest(t)
	svc := NewReportService(repo, queue, exportSvc, NewMetricsService(), zap.NewNop(), ReportServiceConfig{
		ResultTTL:       time.Hour,
		CleanupInterval: time.Hour,
	})
	return svc, repo, queue, exportSvc
}

func TestReportServiceCreateJob(t *testing.T) {
	svc, repo, queue, _ := newReportServiceForTest(t)
	filters := models.FilterState{Status: models.StatusPending}
	viewer := models.Viewer{Role: models.RoleManager, DepartmentID: 101}

	resp, err := svc.CreateJob(context.Background(), dto.ReportRequest{
		Type:    models.ReportTypeRequests,
		Format:  models.ReportFormatPDF,
		Filters: &filters,
	}, "user-1", viewer)
	require.NoError(t, err)
	require.NotEmpty(t, resp.ID)
	assert.Equal(t, models.ReportStatusQueued, resp.Status)
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, resp.ID, queue.jobs[0].ID)

	stored, err := repo.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "user-1", stored.CreatedBy)
	assert.Equal(t, filters, stored.Params.Filters)
	assert.Equal(t, viewer, stored.Params.Viewer)
}

func TestReportServiceCreateJobValidation(t *testing.T) {
	svc, _, queue, _ := newReportServiceForTest(t)

	_, err := svc.CreateJob(context.Background(), dto.ReportRequest{Type: "payroll", Format: models.ReportFormatCSV}, "u", models.Viewer{})
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation.Code))

	_, err = svc.CreateJob(context.Background(), dto.ReportRequest{Type: models.ReportTypeRequests, Format: "docx"}, "u", models.Viewer{})
	assert.True(t, appErrors.HasCode(err, appErrors.ErrUnsupportedFormat.Code))
	assert.Empty(t, queue.jobs)
}

func TestReportServiceCreateJobEnqueueFailure(t *testing.T) {
	repo := repository.NewReportRepository()
	svc := NewReportService(repo, &queueStub{err: errors.New("queue full")}, nil, nil, nil, ReportServiceConfig{})

	_, err := svc.CreateJob(context.Background(), dto.ReportRequest{Type: models.ReportTypeRequests, Format: models.ReportFormatCSV}, "u", models.Viewer{})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrInternal.Code))

	failed, err := repo.ListFinishedBefore(context.Background(), time.Now().Add(time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, models.ReportStatusFailed, failed[0].Status)
}

func TestReportServiceGetStatusOwnership(t *testing.T) {
	svc, repo, _, _ := newReportServiceForTest(t)
	job := &models.ReportJob{ID: "job-1", Type: models.ReportTypeRequests, CreatedBy: "owner"}
	require.NoError(t, repo.Create(context.Background(), job))

	resp, err := svc.GetStatus(context.Background(), "job-1", "owner", models.RoleAnalyst)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusQueued, resp.Status)

	_, err = svc.GetStatus(context.Background(), "job-1", "someone", models.RoleAnalyst)
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	_, err = svc.GetStatus(context.Background(), "job-1", "someone", models.RoleAdmin)
	require.NoError(t, err)

	_, err = svc.GetStatus(context.Background(), "missing", "owner", models.RoleAdmin)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound.Code))
}

func TestReportWorkerAndDownload(t *testing.T) {
	svc, repo, _, exportSvc := newReportServiceForTest(t)
	job := &models.ReportJob{
		ID:        "job-download",
		Type:      models.ReportTypeDepartmentPerformance,
		Params:    models.ReportJobParams{Format: models.ReportFormatCSV},
		CreatedBy: "admin",
	}
	require.NoError(t, repo.Create(context.Background(), job))

	worker := NewReportWorker(repo, exportSvc, nil, zap.NewNop())
	require.NoError(t, worker.Handle(context.Background(), jobs.Job{ID: job.ID}))

	stored, err := repo.GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusFinished, stored.Status)
	assert.Equal(t, 100, stored.Progress)
	require.NotNil(t, stored.ResultURL)
	require.NotNil(t, stored.FinishedAt)

	token := extractToken(*stored.ResultURL)
	download, err := svc.ResolveDownload(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, models.ReportFormatCSV, download.Format)
	assert.Equal(t, ".csv", filepath.Ext(download.Filename))
	require.NoError(t, download.File.Close())

	_, err = svc.ResolveDownload(context.Background(), "not-a-token")
	assert.True(t, appErrors.HasCode(err, appErrors.ErrForbidden.Code))
}

func TestReportWorkerFailureRequeuesThenExhausts(t *testing.T) {
	svc, repo, _, _ := newReportServiceForTest(t)
	job := &models.ReportJob{ID: "job-fail", Type: models.ReportTypeRequests, Params: models.ReportJobParams{Format: models.ReportFormatCSV}}
	require.NoError(t, repo.Create(context.Background(), job))

	worker := NewReportWorker(repo, exportStub{err: errors.New("disk full")}, nil, zap.NewNop())
	err := worker.Handle(context.Background(), jobs.Job{ID: job.ID})
	require.Error(t, err)

	stored, err := repo.GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusQueued, stored.Status)
	require.NotNil(t, stored.ErrorMessage)
	assert.Equal(t, "disk full", *stored.ErrorMessage)

	svc.MarkExhausted(jobs.Job{ID: job.ID}, errors.New("disk full"))
	stored, err = repo.GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusFailed, stored.Status)
	assert.NotNil(t, stored.FinishedAt)
}

func TestReportServiceCleanupExpired(t *testing.T) {
	svc, repo, _, exportSvc := newReportServiceForTest(t)
	job := &models.ReportJob{ID: "job-old", Type: models.ReportTypeRequests, Params: models.ReportJobParams{Format: models.ReportFormatCSV}}
	require.NoError(t, repo.Create(context.Background(), job))
	require.NoError(t, NewReportWorker(repo, exportSvc, nil, nil).Handle(context.Background(), jobs.Job{ID: job.ID}))

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	assert.Equal(t, 1, svc.CleanupExpired(context.Background()))

	_, err := repo.GetByID(context.Background(), job.ID)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound.Code))
}
