package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/silverleaf-workload-api/internal/models"
	appErrors "github.com/noah-isme/silverleaf-workload-api/pkg/errors"
)

// RedisOverrideRepository keeps the uploaded dataset as one JSON document under a fixed key. The
// TTL stands in for a browser session lifetime.
type RedisOverrideRepository struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

// NewRedisOverrideRepository constructs the repository. ttl <= 0 stores without expiry.
func NewRedisOverrideRepository(client redis.UniversalClient, key string, ttl time.Duration) *RedisOverrideRepository {
	return &RedisOverrideRepository{client: client, key: key, ttl: ttl}
}

// Get returns the stored bundle or ErrNoOverride.
func (r *RedisOverrideRepository) Get(ctx context.Context) (*models.Bundle, error) {
	raw, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, appErrors.ErrNoOverride
		}
		return nil, fmt.Errorf("redis get override: %w", err)
	}
	return decodeBundle(raw)
}

// Save replaces the stored bundle.
func (r *RedisOverrideRepository) Save(ctx context.Context, bundle *models.Bundle) error {
	raw, err := json.Marshal(bundle)
	if err != nil {
		return fmt.Errorf("encode override: %w", err)
	}
	if err := r.client.Set(ctx, r.key, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set override: %w", err)
	}
	return nil
}

// Clear drops the stored bundle; clearing an absent override is not an error.
func (r *RedisOverrideRepository) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("redis delete override: %w", err)
	}
	return nil
}

// MemoryOverrideRepository is the in-process override store used when Redis is disabled.
type MemoryOverrideRepository struct {
	mu    sync.RWMutex
	entry *memoryEntry
	ttl   time.Duration
	now   func() time.Time
}

// NewMemoryOverrideRepository constructs an empty store. ttl <= 0 keeps the override until cleared.
func NewMemoryOverrideRepository(ttl time.Duration) *MemoryOverrideRepository {
	return &MemoryOverrideRepository{ttl: ttl, now: time.Now}
}

func (r *MemoryOverrideRepository) Get(context.Context) (*models.Bundle, error) {
	r.mu.RLock()
	entry := r.entry
	r.mu.RUnlock()
	if entry == nil || entry.expired(r.now()) {
		return nil, appErrors.ErrNoOverride
	}
	return decodeBundle(entry.payload)
}

func (r *MemoryOverrideRepository) Save(_ context.Context, bundle *models.Bundle) error {
	raw, err := json.Marshal(bundle)
	if err != nil {
		return fmt.Errorf("encode override: %w", err)
	}
	entry := &memoryEntry{payload: raw}
	if r.ttl > 0 {
		entry.expiresAt = r.now().Add(r.ttl)
	}
	r.mu.Lock()
	r.entry = entry
	r.mu.Unlock()
	return nil
}

func (r *MemoryOverrideRepository) Clear(context.Context) error {
	r.mu.Lock()
	r.entry = nil
	r.mu.Unlock()
	return nil
}

func decodeBundle(raw []byte) (*models.Bundle, error) {
	var bundle models.Bundle
	if err := json.Unmarshal(raw, &bundle); err != nil {
		return nil, fmt.Errorf("decode override: %w", err)
	}
	if bundle.Requests == nil {
		bundle.Requests = []models.Request{}
	}
	if bundle.Admins == nil {
		bundle.Admins = []models.Admin{}
	}
	if bundle.Departments == nil {
		bundle.Departments = []models.Department{}
	}
	if bundle.RequestTypes == nil {
		bundle.RequestTypes = []models.Row{}
	}
	if bundle.WorkloadLog == nil {
		bundle.WorkloadLog = []models.Row{}
	}
	if bundle.DailySummary == nil {
		bundle.DailySummary = []models.Row{}
	}
	return &bundle, nil
}
