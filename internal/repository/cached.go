package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"shortly/internal/cache"
	"shortly/internal/entities"
)

const linkCacheTTL = time.Hour

func linkCacheKey(slug string) string {
	return "link:" + slug
}

// CachedLinkRepository puts a cache-aside layer in front of another
// LinkRepository. Only committed records are cached and absence is never
// cached, so Exists cannot miss a committed slug. Visit counts returned by
// a cache hit are a snapshot; IncrementVisits and listings always go to
// the backing store.
type CachedLinkRepository struct {
	next  LinkRepository
	cache cache.Cache
}

// NewCachedLinkRepository wraps next; a nil cache returns next unchanged
func NewCachedLinkRepository(next LinkRepository, c cache.Cache) LinkRepository {
	if c == nil {
		return next
	}
	return &CachedLinkRepository{next: next, cache: c}
}

func (r *CachedLinkRepository) Exists(ctx context.Context, slug string) (bool, error) {
	hit, err := r.cache.Exists(ctx, linkCacheKey(slug))
	if err != nil {
		slog.WarnContext(ctx, "cache exists failed", "slug", slug, "error", err)
	}
	if hit {
		return true, nil
	}
	return r.next.Exists(ctx, slug)
}

func (r *CachedLinkRepository) Insert(ctx context.Context, link *entities.Link) error {
	if err := r.next.Insert(ctx, link); err != nil {
		return err
	}
	r.store(ctx, link)
	return nil
}

func (r *CachedLinkRepository) IncrementVisits(ctx context.Context, slug string) error {
	return r.next.IncrementVisits(ctx, slug)
}

func (r *CachedLinkRepository) FindBySlug(ctx context.Context, slug string) (*entities.Link, error) {
	var link entities.Link
	err := r.cache.GetJSON(ctx, linkCacheKey(slug), &link)
	if err == nil {
		return &link, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		slog.WarnContext(ctx, "cache read failed", "slug", slug, "error", err)
	}

	found, err := r.next.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	r.store(ctx, found)
	return found, nil
}

func (r *CachedLinkRepository) ListRecent(ctx context.Context, limit int) ([]*entities.Link, error) {
	return r.next.ListRecent(ctx, limit)
}

func (r *CachedLinkRepository) ListTop(ctx context.Context, limit int) ([]*entities.Link, error) {
	return r.next.ListTop(ctx, limit)
}

func (r *CachedLinkRepository) ForEach(ctx context.Context, fn func(*entities.Link) error) error {
	return r.next.ForEach(ctx, fn)
}

func (r *CachedLinkRepository) store(ctx context.Context, link *entities.Link) {
	if err := r.cache.SetJSON(ctx, linkCacheKey(link.Slug), link, linkCacheTTL); err != nil {
		slog.WarnContext(ctx, "cache write failed", "slug", link.Slug, "error", err)
	}
}
