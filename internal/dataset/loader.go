package dataset

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/silverleaf-workload-api/internal/models"
)

// Loader tries data sources in order and falls back to a sample source. Load never returns a nil
// bundle.
type Loader struct {
	sources  []DataSource
	fallback DataSource
	logger   *zap.Logger
	now      func() time.Time
}

// NewLoader builds a loader. A nil fallback means a default SampleSource.
func NewLoader(logger *zap.Logger, fallback DataSource, sources ...DataSource) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	if fallback == nil {
		fallback = NewSampleSource(SampleConfig{})
	}
	return &Loader{sources: sources, fallback: fallback, logger: logger, now: time.Now}
}

// WithSources returns a copy of the loader that tries sources before the configured ones.
func (l *Loader) WithSources(sources ...DataSource) *Loader {
	clone := *l
	clone.sources = append(append([]DataSource{}, sources...), l.sources...)
	return &clone
}

// Load returns the first successful source's bundle. Failures, including panics, are recorded as
// warnings and the next source is tried.
func (l *Loader) Load(ctx context.Context) *LoadResult {
	var warnings []string
	for _, source := range l.sources {
		result, err := l.safeLoad(ctx, source)
		if result != nil {
			warnings = append(warnings, result.Warnings...)
		}
		if err == nil && result != nil && result.Bundle != nil {
			return l.finish(result.Bundle, warnings)
		}
		if err != nil && !errors.Is(err, ErrNoRequests) {
			warnings = append(warnings, fmt.Sprintf("%s source failed: %v", source.Name(), err))
		}
		l.logger.Warn("dataset source skipped", zap.String("source", source.Name()), zap.Error(err))
	}

	result, err := l.safeLoad(context.WithoutCancel(ctx), l.fallback)
	if err != nil || result == nil || result.Bundle == nil {
		l.logger.Error("fallback dataset source failed", zap.Error(err))
		warnings = append(warnings, fmt.Sprintf("%s source failed: %v", l.fallback.Name(), err))
		return l.finish(emptyBundle(models.SourceSample), warnings)
	}
	if len(l.sources) > 0 {
		warnings = append(warnings, "using generated sample data")
	}
	warnings = append(warnings, result.Warnings...)
	return l.finish(result.Bundle, warnings)
}

func (l *Loader) safeLoad(ctx context.Context, source DataSource) (result *LoadResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return source.Load(ctx)
}

func (l *Loader) finish(bundle *models.Bundle, warnings []string) *LoadResult {
	if bundle.LoadedAt.IsZero() {
		bundle.LoadedAt = l.now()
	}
	for _, warning := range warnings {
		l.logger.Warn("dataset warning", zap.String("source", string(bundle.Source)), zap.String("warning", warning))
	}
	l.logger.Info("dataset loaded",
		zap.String("source", string(bundle.Source)),
		zap.Int("requests", len(bundle.Requests)),
		zap.Int("admins", len(bundle.Admins)),
		zap.Int("warnings", len(warnings)),
	)
	if warnings == nil {
		warnings = []string{}
	}
	return &LoadResult{Bundle: bundle, Warnings: warnings}
}

func emptyBundle(source models.DatasetSource) *models.Bundle {
	return Assemble(nil, source)
}
