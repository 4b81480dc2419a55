package repository

import (
	"context"
	"sort"
	"sync"

	"shortly/internal/entities"
)

// MemoryLinkRepository keeps links in process memory. Used when no
// DATABASE_URL is configured and in tests.
type MemoryLinkRepository struct {
	mu    sync.RWMutex
	links map[string]*entities.Link
}

// NewMemoryLinkRepository creates an empty in-memory repository
func NewMemoryLinkRepository() *MemoryLinkRepository {
	return &MemoryLinkRepository{
		links: make(map[string]*entities.Link),
	}
}

func (r *MemoryLinkRepository) Exists(ctx context.Context, slug string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.links[slug]
	return ok, nil
}

// Insert checks and stores under one write lock
func (r *MemoryLinkRepository) Insert(ctx context.Context, link *entities.Link) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.links[link.Slug]; ok {
		return entities.ErrDuplicateSlug
	}
	r.links[link.Slug] = link.Clone()
	return nil
}

func (r *MemoryLinkRepository) IncrementVisits(ctx context.Context, slug string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	link, ok := r.links[slug]
	if !ok {
		return entities.ErrNotFound
	}
	link.Visits++
	return nil
}

func (r *MemoryLinkRepository) FindBySlug(ctx context.Context, slug string) (*entities.Link, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	link, ok := r.links[slug]
	if !ok {
		return nil, entities.ErrNotFound
	}
	return link.Clone(), nil
}

func (r *MemoryLinkRepository) ListRecent(ctx context.Context, limit int) ([]*entities.Link, error) {
	return r.sorted(ctx, limit, func(a, b *entities.Link) bool {
		return a.CreatedAt.After(b.CreatedAt)
	})
}

func (r *MemoryLinkRepository) ListTop(ctx context.Context, limit int) ([]*entities.Link, error) {
	return r.sorted(ctx, limit, func(a, b *entities.Link) bool {
		if a.Visits != b.Visits {
			return a.Visits > b.Visits
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}

func (r *MemoryLinkRepository) ForEach(ctx context.Context, fn func(*entities.Link) error) error {
	links, err := r.sorted(ctx, 0, func(a, b *entities.Link) bool {
		return a.CreatedAt.Before(b.CreatedAt)
	})
	if err != nil {
		return err
	}

	for _, link := range links {
		if err := fn(link); err != nil {
			return err
		}
	}
	return nil
}

// sorted snapshots the records, orders them by less and truncates to limit (0 means all)
func (r *MemoryLinkRepository) sorted(ctx context.Context, limit int, less func(a, b *entities.Link) bool) ([]*entities.Link, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	links := make([]*entities.Link, 0, len(r.links))
	for _, link := range r.links {
		links = append(links, link.Clone())
	}
	r.mu.RUnlock()

	sort.SliceStable(links, func(i, j int) bool {
		if less(links[i], links[j]) {
			return true
		}
		if less(links[j], links[i]) {
			return false
		}
		return links[i].Slug < links[j].Slug
	})

	if limit > 0 && len(links) > limit {
		links = links[:limit]
	}
	return links, nil
}

var _ LinkRepository = (*MemoryLinkRepository)(nil)
