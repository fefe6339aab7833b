package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/zatekoja/goldenhour/internal/domain/entities"
	"github.com/zatekoja/goldenhour/internal/domain/providers"
	"github.com/zatekoja/goldenhour/internal/domain/repositories"
	"github.com/zatekoja/goldenhour/internal/infrastructure/observability"
)

const (
	facilitiesListCacheKey = "facilities:catalog"
	catalogCacheName       = "facility_catalog"
)

func facilityCacheKey(id string) string {
	return fmt.Sprintf("facility:%s", id)
}

// CachedFacilityAdapter wraps a FacilityRepository with a short-lived cache.
// Bed counts change often, so the TTL should stay in the order of seconds.
type CachedFacilityAdapter struct {
	adapter repositories.FacilityRepository
	cache   providers.CacheProvider
	ttl     time.Duration
	metrics *observability.Metrics
}

// NewCachedFacilityAdapter creates a new cached facility adapter
func NewCachedFacilityAdapter(adapter repositories.FacilityRepository, cache providers.CacheProvider, ttl time.Duration, metrics *observability.Metrics) *CachedFacilityAdapter {
	return &CachedFacilityAdapter{
		adapter: adapter,
		cache:   cache,
		ttl:     ttl,
		metrics: metrics,
	}
}

// ListFacilities returns the cached catalog snapshot or loads and caches a fresh one
func (a *CachedFacilityAdapter) ListFacilities(ctx context.Context) ([]*entities.Facility, error) {
	var facilities []*entities.Facility
	if a.lookup(ctx, facilitiesListCacheKey, &facilities) {
		return facilities, nil
	}

	facilities, err := a.adapter.ListFacilities(ctx)
	if err != nil {
		return nil, err
	}
	a.store(ctx, facilitiesListCacheKey, facilities)
	return facilities, nil
}

// GetByID retrieves a facility by ID with caching
func (a *CachedFacilityAdapter) GetByID(ctx context.Context, id string) (*entities.Facility, error) {
	key := facilityCacheKey(id)

	var facility entities.Facility
	if a.lookup(ctx, key, &facility) {
		return &facility, nil
	}

	fresh, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a.store(ctx, key, fresh)
	return fresh, nil
}

// lookup decodes a cached value into dst. Any cache failure counts as a miss.
func (a *CachedFacilityAdapter) lookup(ctx context.Context, key string, dst interface{}) bool {
	cached, err := a.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, providers.ErrCacheMiss) {
			observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key).Msg("facility cache read failed")
		}
		observability.RecordCacheMiss(ctx, a.metrics, catalogCacheName)
		return false
	}

	if err := json.Unmarshal(cached, dst); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key).Msg("failed to decode cached facility data")
		observability.RecordCacheMiss(ctx, a.metrics, catalogCacheName)
		return false
	}

	observability.RecordCacheHit(ctx, a.metrics, catalogCacheName)
	return true
}

func (a *CachedFacilityAdapter) store(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key).Msg("failed to encode facility data for cache")
		return
	}
	if err := a.cache.Set(ctx, key, data, a.ttl); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key).Msg("facility cache write failed")
	}
}

// Invalidate drops the cached catalog and the given facilities
func (a *CachedFacilityAdapter) Invalidate(ctx context.Context, ids ...string) error {
	errs := []error{a.cache.Delete(ctx, facilitiesListCacheKey)}
	for _, id := range ids {
		errs = append(errs, a.cache.Delete(ctx, facilityCacheKey(id)))
	}
	return errors.Join(errs...)
}
