package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/silverleaf-workload-api/internal/dataset"
	"github.com/noah-isme/silverleaf-workload-api/internal/models"
	appErrors "github.com/noah-isme/silverleaf-workload-api/pkg/errors"
)

type stubSource struct {
	bundle *models.Bundle
	err    error
	loads  int
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Load(context.Context) (*dataset.LoadResult, error) {
	s.loads++
	if s.err != nil {
		return nil, s.err
	}
	return &dataset.LoadResult{Bundle: s.bundle}, nil
}

// ctxSource fails the way a remote fetch does once its context is done.
type ctxSource struct {
	bundle *models.Bundle
}

func (s *ctxSource) Name() string { return "remote" }

func (s *ctxSource) Load(ctx context.Context) (*dataset.LoadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &dataset.LoadResult{Bundle: s.bundle}, nil
}

type fakeOverrides struct {
	bundle  *models.Bundle
	getErr  error
	saveErr error
	cleared int
}

func (f *fakeOverrides) Get(context.Context) (*models.Bundle, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.bundle == nil {
		return nil, appErrors.ErrNoOverride
	}
	return f.bundle, nil
}

func (f *fakeOverrides) Save(_ context.Context, bundle *models.Bundle) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.bundle = bundle
	return nil
}

func (f *fakeOverrides) Clear(context.Context) error {
	f.cleared++
	f.bundle = nil
	return nil
}

func csvBundle(ids ...int) *models.Bundle {
	requests := make([]models.Request, 0, len(ids))
	for _, id := range ids {
		requests = append(requests, models.Request{RequestID: id, Status: models.StatusPending})
	}
	return &models.Bundle{Source: models.SourceCSV, Requests: requests}
}

func newTestDatasets(source *stubSource, overrides OverrideRepository, cacheRepo *fakeCacheRepo) *DatasetService {
	var cacheSvc *CacheService
	if cacheRepo != nil {
		cacheSvc = NewCacheService(cacheRepo, nil, 0, nil, true)
	}
	loader := dataset.NewLoader(nil, dataset.NewSampleSource(dataset.SampleConfig{Requests: 7}), source)
	return NewDatasetService(DatasetServiceParams{Loader: loader, Overrides: overrides, Cache: cacheSvc})
}

func TestDatasetServiceLoadsLazilyOnce(t *testing.T) {
	source := &stubSource{bundle: csvBundle(1, 2)}
	svc := newTestDatasets(source, nil, nil)

	first := svc.Current(context.Background())
	second := svc.Current(context.Background())

	assert.Same(t, first, second)
	assert.Equal(t, 1, source.loads)
	assert.Equal(t, uint64(1), first.Version)
	assert.Len(t, first.Bundle.Requests, 2)
	assert.Empty(t, first.Warnings)
}

func TestDatasetServiceFirstLoadSurvivesCancelledCaller(t *testing.T) {
	loader := dataset.NewLoader(nil, dataset.NewSampleSource(dataset.SampleConfig{Requests: 7}), &ctxSource{bundle: csvBundle(1, 2, 3)})
	svc := NewDatasetService(DatasetServiceParams{Loader: loader})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	first := svc.Current(ctx)
	later := svc.Current(context.Background())

	assert.Equal(t, models.SourceCSV, first.Bundle.Source)
	assert.Empty(t, first.Warnings)
	assert.Same(t, first, later)
	assert.Len(t, later.Bundle.Requests, 3)
}

func TestDatasetServiceFallsBackToSample(t *testing.T) {
	svc := newTestDatasets(&stubSource{err: errors.New("disk gone")}, nil, nil)

	snap := svc.Current(context.Background())

	assert.Equal(t, models.SourceSample, snap.Bundle.Source)
	assert.Len(t, snap.Bundle.Requests, 7)
	assert.Contains(t, snap.Warnings, "stub source failed: disk gone")
	assert.Contains(t, snap.Warnings, "using generated sample data")
}

func TestDatasetServiceReloadBumpsVersionAndInvalidatesCache(t *testing.T) {
	repo := newFakeCacheRepo()
	source := &stubSource{bundle: csvBundle(1)}
	svc := newTestDatasets(source, nil, repo)

	svc.Current(context.Background())
	source.bundle = csvBundle(1, 2, 3)
	snap := svc.Reload(context.Background())

	assert.Equal(t, uint64(2), snap.Version)
	assert.Len(t, snap.Bundle.Requests, 3)
	require.Len(t, repo.invalidated, 2)
	assert.Equal(t, "silverleaf:dashboard:*", repo.invalidated[1])
}

func TestDatasetServiceLogsFailedInvalidationWithVersion(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	repo := newFakeCacheRepo()
	repo.delErr = errors.New("redis down")
	loader := dataset.NewLoader(nil, dataset.NewSampleSource(dataset.SampleConfig{Requests: 7}), &stubSource{bundle: csvBundle(1)})
	svc := NewDatasetService(DatasetServiceParams{
		Loader: loader,
		Cache:  NewCacheService(repo, nil, 0, nil, true),
		Logger: zap.New(core),
	})

	snap := svc.Current(context.Background())

	require.NotNil(t, snap)
	entries := logs.FilterMessage("dashboard cache not cleared after dataset swap").All()
	require.Len(t, entries, 1)
	assert.Equal(t, uint64(1), entries[0].ContextMap()["version"])
}

func TestDatasetServiceUploadStoresOverride(t *testing.T) {
	overrides := &fakeOverrides{}
	source := &stubSource{bundle: csvBundle(1)}
	svc := newTestDatasets(source, overrides, nil)

	snap, err := svc.Upload(context.Background(), []dataset.UploadFile{{
		Name:    "requests.csv",
		Content: []byte("request_id,request_type,status,assigned_admin_id\n10,Transcript Request,Approved,1\n11,Degree Audit,Pending,2\n"),
	}})
	require.NoError(t, err)

	assert.Equal(t, models.SourceUploaded, snap.Bundle.Source)
	assert.Len(t, snap.Bundle.Requests, 2)
	require.NotNil(t, overrides.bundle)
	assert.False(t, snap.Bundle.LoadedAt.IsZero())

	reloaded := svc.Reload(context.Background())
	assert.Equal(t, models.SourceUploaded, reloaded.Bundle.Source)
	assert.Equal(t, 0, source.loads)

	cleared := svc.ClearOverride(context.Background())
	assert.Equal(t, 1, overrides.cleared)
	assert.Equal(t, models.SourceCSV, cleared.Bundle.Source)
	assert.Equal(t, 1, source.loads)
}

func TestDatasetServiceUploadWithoutRecognizedFiles(t *testing.T) {
	svc := newTestDatasets(&stubSource{bundle: csvBundle(1)}, nil, nil)

	_, err := svc.Upload(context.Background(), []dataset.UploadFile{{Name: "notes.txt", Content: []byte("hello\n")}})

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestDatasetServiceKeepsUploadWhenOverrideSaveFails(t *testing.T) {
	overrides := &fakeOverrides{saveErr: errors.New("redis down")}
	svc := newTestDatasets(&stubSource{bundle: csvBundle(1)}, overrides, nil)

	snap, err := svc.Upload(context.Background(), []dataset.UploadFile{{
		Name:    "requests.csv",
		Content: []byte("request_id,request_type,status,assigned_admin_id\n10,Transcript Request,Approved,1\n"),
	}})
	require.NoError(t, err)

	assert.Equal(t, models.SourceUploaded, snap.Bundle.Source)
	assert.Contains(t, snap.Warnings, "override not persisted: redis down")
}

func TestDatasetServiceOverrideReadFailureIsAWarning(t *testing.T) {
	overrides := &fakeOverrides{getErr: errors.New("timeout")}
	svc := newTestDatasets(&stubSource{bundle: csvBundle(1)}, overrides, nil)

	snap := svc.Current(context.Background())

	assert.Equal(t, models.SourceCSV, snap.Bundle.Source)
	assert.Contains(t, snap.Warnings, "override unavailable: timeout")
}

func TestDatasetSnapshotInfo(t *testing.T) {
	snap := &DatasetSnapshot{Bundle: csvBundle(1, 2), Warnings: []string{"w"}, Version: 3}

	info := snap.Info()

	assert.Equal(t, models.SourceCSV, info.Source)
	assert.Equal(t, 2, info.Requests)
	assert.Equal(t, []string{"w"}, info.Warnings)
}
