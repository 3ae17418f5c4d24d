package restaurant

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/pourrice/pourrice/internal/storage"
	apperrors "github.com/pourrice/pourrice/pkg/errors"
	"github.com/pourrice/pourrice/pkg/logger"
)

const catalogKey = "catalog:restaurants"

// Catalog memoizes the last successfully fetched restaurant list. A copy is
// kept in Redis so a restart or an upstream outage can still serve data.
type Catalog struct {
	source   Source
	redis    storage.RedisClient
	cacheTTL time.Duration
	logger   logger.Logger

	mu          sync.RWMutex
	restaurants []Restaurant
	byID        map[string]int
	refreshedAt time.Time
}

func NewCatalog(source Source, redisClient storage.RedisClient, cacheTTL time.Duration, log logger.Logger) *Catalog {
	return &Catalog{
		source:   source,
		redis:    redisClient,
		cacheTTL: cacheTTL,
		logger:   log,
		byID:     map[string]int{},
	}
}

// Refresh fetches the list from the source. When the source fails it falls
// back to the Redis copy, which another instance may have written more
// recently. The error is returned only when neither works, and the previous
// in-memory list is kept in that case.
func (c *Catalog) Refresh(ctx context.Context) error {
	list, err := c.source.List(ctx)
	if err == nil {
		c.store(list, time.Now())
		if cacheErr := c.saveToCache(ctx, list); cacheErr != nil {
			c.logger.Warn("Failed to cache catalog", "error", cacheErr)
		}
		c.logger.Info("Catalog refreshed", "restaurants", len(list))
		return nil
	}

	c.logger.Warn("Catalog source failed, trying cache", "error", err)

	cached, cacheErr := c.loadFromCache(ctx)
	if cacheErr != nil {
		return fmt.Errorf("%w: %v (cache: %v)", apperrors.ErrCatalogUnavailable, err, cacheErr)
	}

	c.store(cached, time.Now())
	c.logger.Info("Catalog restored from cache", "restaurants", len(cached))
	return nil
}

// Snapshot returns a copy of the current list.
func (c *Catalog) Snapshot() []Restaurant {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Restaurant, len(c.restaurants))
	copy(out, c.restaurants)
	return out
}

// Get looks a restaurant up by ID.
func (c *Catalog) Get(id string) (Restaurant, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	idx, ok := c.byID[id]
	if !ok {
		return Restaurant{}, apperrors.ErrRestaurantNotFound
	}
	return c.restaurants[idx], nil
}

// Lookup is Get with a fallback to the source for restaurants added since
// the last refresh.
func (c *Catalog) Lookup(ctx context.Context, id string) (Restaurant, error) {
	if r, err := c.Get(id); err == nil {
		return r, nil
	}

	getter, ok := c.source.(Getter)
	if !ok {
		return Restaurant{}, apperrors.ErrRestaurantNotFound
	}
	r, err := getter.Get(ctx, id)
	if err != nil {
		return Restaurant{}, err
	}
	return *r, nil
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.restaurants)
}

// RefreshedAt is the time of the last successful load, zero before any.
func (c *Catalog) RefreshedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refreshedAt
}

func (c *Catalog) store(list []Restaurant, at time.Time) {
	restaurants := make([]Restaurant, len(list))
	copy(restaurants, list)

	byID := make(map[string]int, len(restaurants))
	for i, r := range restaurants {
		if r.ID != "" {
			byID[r.ID] = i
		}
	}

	c.mu.Lock()
	c.restaurants = restaurants
	c.byID = byID
	c.refreshedAt = at
	c.mu.Unlock()
}

func (c *Catalog) saveToCache(ctx context.Context, list []Restaurant) error {
	if c.redis == nil {
		return nil
	}
	data, err := msgpack.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}
	return c.redis.Set(ctx, catalogKey, data, c.cacheTTL)
}

func (c *Catalog) loadFromCache(ctx context.Context) ([]Restaurant, error) {
	if c.redis == nil {
		return nil, apperrors.ErrStorageUnavailable
	}
	data, err := c.redis.Get(ctx, catalogKey)
	if err != nil {
		if storage.IsNil(err) {
			return nil, apperrors.ErrDataNotFound
		}
		return nil, fmt.Errorf("failed to get cached catalog: %w", err)
	}

	var list []Restaurant
	if err := msgpack.Unmarshal([]byte(data), &list); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached catalog: %w", err)
	}
	return list, nil
}
