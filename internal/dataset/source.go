package dataset

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/silverleaf-workload-api/internal/models"
)

// ErrNoRequests is returned by a source whose requests table came back empty.
var ErrNoRequests = errors.New("no requests available")

// LoadResult carries a bundle and the non-fatal problems met while producing it.
type LoadResult struct {
	Bundle   *models.Bundle `json:"-"`
	Warnings []string       `json:"warnings"`
}

// Warn appends a formatted warning.
func (r *LoadResult) Warn(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// DataSource produces a bundle. A source may return a partial result alongside an error so the
// caller can keep its warnings.
type DataSource interface {
	Name() string
	Load(ctx context.Context) (*LoadResult, error)
}

// RemoteSource fetches the six CSV resources through a Fetcher.
type RemoteSource struct {
	fetcher Fetcher
	loc     *time.Location
	tag     models.DatasetSource
}

// NewRemoteSource builds a source tagged csv. loc is used for timestamps without a zone.
func NewRemoteSource(fetcher Fetcher, loc *time.Location) *RemoteSource {
	if loc == nil {
		loc = time.UTC
	}
	return &RemoteSource{fetcher: fetcher, loc: loc, tag: models.SourceCSV}
}

// Name implements DataSource.
func (s *RemoteSource) Name() string { return "remote" }

// Load fetches every resource concurrently. A failing resource becomes an empty table and a
// warning. Only cancellation of ctx aborts the batch.
func (s *RemoteSource) Load(ctx context.Context) (*LoadResult, error) {
	var (
		mu       sync.Mutex
		tables   = make(map[Resource]*Table, len(Resources))
		problems = make(map[Resource]string, len(Resources))
	)

	group, groupCtx := errgroup.WithContext(ctx)
	for _, resource := range Resources {
		resource := resource
		group.Go(func() error {
			table, err := s.loadResource(groupCtx, resource)
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			mu.Lock()
			defer mu.Unlock()
			if table != nil {
				tables[resource] = table
			}
			if err != nil {
				problems[resource] = err.Error()
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("load resources: %w", err)
	}

	result := &LoadResult{Bundle: Assemble(tables, s.tag)}
	unavailable := 0
	for _, resource := range Resources {
		msg, failed := problems[resource]
		if !failed {
			continue
		}
		if tables[resource] == nil {
			unavailable++
			result.Warn("%s unavailable: %s", resource.FileName(), msg)
		} else {
			result.Warn("%s partially parsed: %s", resource.FileName(), msg)
		}
	}
	if unavailable > 0 {
		result.Warn("%d of %d resources unavailable", unavailable, len(Resources))
	}
	if len(result.Bundle.Requests) == 0 {
		return result, ErrNoRequests
	}
	return result, nil
}

func (s *RemoteSource) loadResource(ctx context.Context, resource Resource) (*Table, error) {
	body, err := s.fetcher.Fetch(ctx, resource.FileName())
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return ReadTable(body, resource, s.loc)
}

// OverrideSource serves a previously stored bundle verbatim.
type OverrideSource struct {
	bundle *models.Bundle
}

// NewOverrideSource wraps an override bundle.
func NewOverrideSource(bundle *models.Bundle) *OverrideSource {
	return &OverrideSource{bundle: bundle}
}

// Name implements DataSource.
func (s *OverrideSource) Name() string { return "override" }

// Load returns the override without normalizing it. An untagged bundle is tagged uploaded.
func (s *OverrideSource) Load(ctx context.Context) (*LoadResult, error) {
	if s.bundle == nil {
		return nil, errors.New("override bundle is empty")
	}
	bundle := *s.bundle
	if bundle.Source == "" {
		bundle.Source = models.SourceUploaded
	}
	return &LoadResult{Bundle: &bundle}, nil
}

// SampleSource generates a synthetic bundle.
type SampleSource struct {
	config func() SampleConfig
}

// NewSampleSource builds a source that calls GenerateSampleData with cfg on every load.
func NewSampleSource(cfg SampleConfig) *SampleSource {
	return &SampleSource{config: func() SampleConfig { return cfg }}
}

// Name implements DataSource.
func (s *SampleSource) Name() string { return "sample" }

// Load implements DataSource.
func (s *SampleSource) Load(ctx context.Context) (*LoadResult, error) {
	return &LoadResult{Bundle: GenerateSampleData(s.config())}, nil
}
