package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/silverleaf-workload-api/internal/dataset"
	"github.com/noah-isme/silverleaf-workload-api/internal/models"
	"github.com/noah-isme/silverleaf-workload-api/pkg/cache"
	appErrors "github.com/noah-isme/silverleaf-workload-api/pkg/errors"
)

// OverrideRepository stores the uploaded dataset that replaces the configured source.
type OverrideRepository interface {
	Get(ctx context.Context) (*models.Bundle, error)
	Save(ctx context.Context, bundle *models.Bundle) error
	Clear(ctx context.Context) error
}

// DatasetSnapshot is one immutable generation of the dataset. Callers must not modify Bundle.
type DatasetSnapshot struct {
	Bundle   *models.Bundle
	Warnings []string
	Version  uint64
}

// Info summarises the snapshot.
func (s *DatasetSnapshot) Info() models.DatasetInfo {
	b := s.Bundle
	return models.DatasetInfo{
		Source:       b.Source,
		Version:      s.Version,
		LoadedAt:     b.LoadedAt,
		Requests:     len(b.Requests),
		Admins:       len(b.Admins),
		Departments:  len(b.Departments),
		RequestTypes: len(b.RequestTypes),
		WorkloadLog:  len(b.WorkloadLog),
		DailySummary: len(b.DailySummary),
		Warnings:     s.Warnings,
	}
}

// DatasetServiceParams groups constructor dependencies.
type DatasetServiceParams struct {
	Loader    *dataset.Loader
	Overrides OverrideRepository
	Cache     *CacheService
	Metrics   *MetricsService
	Logger    *zap.Logger
	Location  *time.Location
}

// DatasetService owns the current dataset. Readers get the snapshot under a read lock; loads
// and uploads are serialised and swap the snapshot wholesale.
type DatasetService struct {
	loader    *dataset.Loader
	overrides OverrideRepository
	cache     *CacheService
	metrics   *MetricsService
	logger    *zap.Logger
	loc       *time.Location
	now       func() time.Time

	loadMu  sync.Mutex
	mu      sync.RWMutex
	current *DatasetSnapshot
	version uint64
}

// NewDatasetService constructs the service. A nil loader falls back to sample data only.
func NewDatasetService(params DatasetServiceParams) *DatasetService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	loader := params.Loader
	if loader == nil {
		loader = dataset.NewLoader(logger, nil)
	}
	loc := params.Location
	if loc == nil {
		loc = time.UTC
	}
	return &DatasetService{
		loader:    loader,
		overrides: params.Overrides,
		cache:     params.Cache,
		metrics:   params.Metrics,
		logger:    logger,
		loc:       loc,
		now:       time.Now,
	}
}

// Current returns the snapshot, loading it on first use. The first load ignores cancellation of
// ctx, otherwise a dropped request would leave the sample fallback cached for every later caller.
func (s *DatasetService) Current(ctx context.Context) *DatasetSnapshot {
	s.mu.RLock()
	current := s.current
	s.mu.RUnlock()
	if current != nil {
		return current
	}

	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	s.mu.RLock()
	current = s.current
	s.mu.RUnlock()
	if current != nil {
		return current
	}
	return s.reloadLocked(context.WithoutCancel(ctx), nil)
}

// Reload re-runs the loader. A stored override takes precedence over the configured sources.
func (s *DatasetService) Reload(ctx context.Context) *DatasetSnapshot {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	return s.reloadLocked(ctx, nil)
}

func (s *DatasetService) reloadLocked(ctx context.Context, warnings []string) *DatasetSnapshot {
	loader := s.loader
	if s.overrides != nil {
		override, err := s.overrides.Get(ctx)
		switch {
		case err == nil:
			loader = loader.WithSources(dataset.NewOverrideSource(override))
		case errors.Is(err, appErrors.ErrNoOverride):
		default:
			s.logger.Warn("override unavailable", zap.Error(err))
			warnings = append(warnings, fmt.Sprintf("override unavailable: %v", err))
		}
	}
	result := loader.Load(ctx)
	return s.swap(ctx, result.Bundle, append(warnings, result.Warnings...))
}

// Upload replaces the dataset with user supplied CSV files and stores them as the override.
func (s *DatasetService) Upload(ctx context.Context, files []dataset.UploadFile) (*DatasetSnapshot, error) {
	result, err := dataset.ParseUpload(files, s.loc)
	if err != nil {
		if errors.Is(err, dataset.ErrNoRecognizedFiles) {
			appErr := appErrors.Clone(appErrors.ErrValidation, err.Error())
			return nil, appErrors.WithDetail(appErr, "warnings", result.Warnings)
		}
		return nil, err
	}
	result.Bundle.LoadedAt = s.now()

	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	warnings := result.Warnings
	if s.overrides != nil {
		if err := s.overrides.Save(ctx, result.Bundle); err != nil {
			s.logger.Warn("override not persisted", zap.Error(err))
			warnings = append(warnings, fmt.Sprintf("override not persisted: %v", err))
		}
	}
	return s.swap(ctx, result.Bundle, warnings), nil
}

// ClearOverride forgets the uploaded dataset and reloads from the configured sources.
func (s *DatasetService) ClearOverride(ctx context.Context) *DatasetSnapshot {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	var warnings []string
	if s.overrides != nil {
		if err := s.overrides.Clear(ctx); err != nil {
			s.logger.Warn("override not cleared", zap.Error(err))
			warnings = append(warnings, fmt.Sprintf("override not cleared: %v", err))
		}
	}
	return s.reloadLocked(ctx, warnings)
}

func (s *DatasetService) swap(ctx context.Context, bundle *models.Bundle, warnings []string) *DatasetSnapshot {
	if warnings == nil {
		warnings = []string{}
	}
	s.mu.Lock()
	s.version++
	snap := &DatasetSnapshot{Bundle: bundle, Warnings: warnings, Version: s.version}
	s.current = snap
	s.mu.Unlock()

	s.metrics.RecordDatasetLoad(bundle.Source, len(warnings), len(bundle.Requests))
	if err := s.cache.Invalidate(ctx, cache.Key(dashboardCachePrefix, "*")); err != nil {
		s.logger.Warn("dashboard cache not cleared after dataset swap", zap.Uint64("version", snap.Version), zap.Error(err))
	}
	return snap
}
