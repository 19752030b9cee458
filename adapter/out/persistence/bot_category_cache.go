package persistence

import (
	"context"
	"time"

	"github.com/ArthurBash/telegramBot/core/domain"
	"github.com/ArthurBash/telegramBot/pkg/cache"
)

// categoryListKey is the cache key for the full category snapshot. The
// categorizer reads the whole set on every message, so a single list
// entry is the only hot path worth caching.
const categoryListKey = "categories:all"

// CachedCategoryAdapter wraps CategoryAdapter with Redis caching of the
// category list. Writes invalidate the snapshot; a nil cache degrades
// to plain delegation.
type CachedCategoryAdapter struct {
	delegate *CategoryAdapter
	cache    *cache.RedisCache
	ttl      time.Duration
}

// NewCachedCategoryAdapter creates a new cached category adapter.
func NewCachedCategoryAdapter(delegate *CategoryAdapter, redisCache *cache.RedisCache, ttl time.Duration) *CachedCategoryAdapter {
	return &CachedCategoryAdapter{
		delegate: delegate,
		cache:    redisCache,
		ttl:      ttl,
	}
}

// List retrieves all categories, serving from cache when possible.
func (a *CachedCategoryAdapter) List(ctx context.Context) ([]domain.Category, error) {
	if a.cache == nil {
		return a.delegate.List(ctx)
	}

	var cached []domain.Category
	found, err := a.cache.GetJSON(ctx, categoryListKey, &cached)
	if err == nil && found {
		return cached, nil
	}

	categories, err := a.delegate.List(ctx)
	if err != nil {
		return nil, err
	}

	_ = a.cache.SetJSON(ctx, categoryListKey, categories, a.ttl)
	return categories, nil
}

// Create inserts a category and invalidates the snapshot.
func (a *CachedCategoryAdapter) Create(ctx context.Context, category *domain.Category) error {
	if err := a.delegate.Create(ctx, category); err != nil {
		return err
	}
	a.invalidate(ctx)
	return nil
}

// Delete removes a category and invalidates the snapshot.
func (a *CachedCategoryAdapter) Delete(ctx context.Context, name string) error {
	if err := a.delegate.Delete(ctx, name); err != nil {
		return err
	}
	a.invalidate(ctx)
	return nil
}

// GetByName delegates to the underlying adapter. Name lookups happen
// only on administrative commands, not per message.
func (a *CachedCategoryAdapter) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	return a.delegate.GetByName(ctx, name)
}

// Count delegates to the underlying adapter.
func (a *CachedCategoryAdapter) Count(ctx context.Context) (int64, error) {
	return a.delegate.Count(ctx)
}

func (a *CachedCategoryAdapter) invalidate(ctx context.Context) {
	if a.cache != nil {
		_ = a.cache.Delete(ctx, categoryListKey)
	}
}

// Ensure both adapters implement the repository interface.
var _ domain.CategoryRepository = (*CategoryAdapter)(nil)
var _ domain.CategoryRepository = (*CachedCategoryAdapter)(nil)
var _ domain.MessageRepository = (*MessageAdapter)(nil)
