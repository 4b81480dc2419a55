package repository_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"shortly/internal/entities"
	"shortly/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLink(slug string, createdAt time.Time) *entities.Link {
	return &entities.Link{
		Slug:      slug,
		URL:       "https://example.org/" + slug,
		CreatedAt: createdAt,
		CreatedBy: "snlght",
	}
}

func TestMemoryLinkRepository_InsertAndFind(t *testing.T) {
	repo := repository.NewMemoryLinkRepository()
	ctx := context.Background()

	err := repo.Insert(ctx, newLink("abc12", time.Now()))
	require.NoError(t, err)

	found, err := repo.FindBySlug(ctx, "abc12")
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/abc12", found.URL)
	assert.Equal(t, int64(0), found.Visits)

	exists, err := repo.Exists(ctx, "abc12")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMemoryLinkRepository_Insert_Duplicate(t *testing.T) {
	repo := repository.NewMemoryLinkRepository()
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newLink("abc12", time.Now())))

	dup := newLink("abc12", time.Now())
	dup.URL = "https://example.org/other"
	err := repo.Insert(ctx, dup)
	assert.ErrorIs(t, err, entities.ErrDuplicateSlug)

	found, err := repo.FindBySlug(ctx, "abc12")
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/abc12", found.URL)
}

func TestMemoryLinkRepository_Insert_ConcurrentSameSlug(t *testing.T) {
	repo := repository.NewMemoryLinkRepository()
	ctx := context.Background()

	const writers = 50
	var wins atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.Insert(ctx, newLink("race1", time.Now())); err == nil {
				wins.Add(1)
			} else {
				assert.ErrorIs(t, err, entities.ErrDuplicateSlug)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}

func TestMemoryLinkRepository_FindBySlug_NotFound(t *testing.T) {
	repo := repository.NewMemoryLinkRepository()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := repo.FindBySlug(ctx, "nope1")
		assert.ErrorIs(t, err, entities.ErrNotFound)
	}
}

func TestMemoryLinkRepository_StoresClone(t *testing.T) {
	repo := repository.NewMemoryLinkRepository()
	ctx := context.Background()

	link := newLink("abc12", time.Now())
	require.NoError(t, repo.Insert(ctx, link))

	link.URL = "https://mutated.example"

	found, err := repo.FindBySlug(ctx, "abc12")
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/abc12", found.URL)
}

func TestMemoryLinkRepository_IncrementVisits_Concurrent(t *testing.T) {
	for _, n := range []int{1, 10, 100} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			repo := repository.NewMemoryLinkRepository()
			ctx := context.Background()
			require.NoError(t, repo.Insert(ctx, newLink("hot01", time.Now())))

			var wg sync.WaitGroup
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					assert.NoError(t, repo.IncrementVisits(ctx, "hot01"))
				}()
			}
			wg.Wait()

			found, err := repo.FindBySlug(ctx, "hot01")
			require.NoError(t, err)
			assert.Equal(t, int64(n), found.Visits)
		})
	}
}

func TestMemoryLinkRepository_IncrementVisits_NotFound(t *testing.T) {
	repo := repository.NewMemoryLinkRepository()

	err := repo.IncrementVisits(context.Background(), "ghost")
	assert.ErrorIs(t, err, entities.ErrNotFound)

	exists, err := repo.Exists(context.Background(), "ghost")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryLinkRepository_Listing(t *testing.T) {
	repo := repository.NewMemoryLinkRepository()
	ctx := context.Background()
	base := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Insert(ctx, newLink("first", base)))
	require.NoError(t, repo.Insert(ctx, newLink("second", base.Add(time.Hour))))
	require.NoError(t, repo.Insert(ctx, newLink("third", base.Add(2*time.Hour))))

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.IncrementVisits(ctx, "first"))
	}
	require.NoError(t, repo.IncrementVisits(ctx, "third"))

	recent, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "third", recent[0].Slug)
	assert.Equal(t, "second", recent[1].Slug)

	top, err := repo.ListTop(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, []string{"first", "third", "second"}, []string{top[0].Slug, top[1].Slug, top[2].Slug})

	var all []string
	err = repo.ForEach(ctx, func(l *entities.Link) error {
		all = append(all, l.Slug)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, all)
}

func TestMemoryLinkRepository_CancelledContext(t *testing.T) {
	repo := repository.NewMemoryLinkRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.Insert(ctx, newLink("abc12", time.Now()))
	assert.ErrorIs(t, err, context.Canceled)
}
