package importer_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"shortly/internal/entities"
	"shortly/internal/importer"
	"shortly/internal/repository"
	"shortly/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const history = `{
  "status_code": 200,
  "data": {
    "link_history": [
      {"link": "http://bit.ly/abc12", "long_url": "https://example.org/page", "title": "Page", "created_at": 1325376000, "archived": false, "private": true},
      {"link": "http://bit.ly/abc12", "long_url": "https://example.org/dupe", "title": "Dupe", "created_at": 1325376001, "archived": false, "private": false},
      {"link": "http://bit.ly/Old1/", "long_url": "https://example.org/old", "title": "", "created_at": 1325379600, "archived": true, "private": false},
      {"link": "http://bit.ly/nourl", "long_url": "", "title": "x", "created_at": 1325379600, "archived": false, "private": false},
      {"link": "http://bit.ly/bad-slug", "long_url": "https://example.org/bad", "title": "x", "created_at": 1325379600, "archived": false, "private": false},
      {"link": "http://bit.ly/there", "long_url": "https://example.org/again", "title": "x", "created_at": 1325379600, "archived": false, "private": false}
    ]
  }
}`

func TestEntry_Slug(t *testing.T) {
	assert.Equal(t, "abc12", importer.Entry{Link: "http://bit.ly/abc12"}.Slug())
	assert.Equal(t, "abc12", importer.Entry{Link: "http://bit.ly/abc12/"}.Slug())
	assert.Equal(t, "abc12", importer.Entry{Link: "abc12"}.Slug())
}

func TestImport(t *testing.T) {
	repo := repository.NewMemoryLinkRepository()
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, &entities.Link{
		Slug:      "there",
		URL:       "https://example.org/there",
		CreatedAt: time.Now(),
		CreatedBy: "someone",
	}))

	links := service.NewLinkService(repo, service.NewSlugService(repo), nil, service.LinkServiceConfig{})
	im := importer.New(links, "snlght", 2)

	res, err := im.Import(ctx, strings.NewReader(history))
	require.NoError(t, err)
	assert.Equal(t, importer.Result{Imported: 2, Skipped: 1, Failed: 2}, res)

	page, err := repo.FindBySlug(ctx, "abc12")
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/page", page.URL)
	assert.Equal(t, "Page", page.Title)
	assert.Equal(t, time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC), page.CreatedAt)
	assert.Equal(t, "snlght", page.CreatedBy)
	assert.True(t, page.Private)
	assert.False(t, page.Archived)
	assert.Zero(t, page.Visits)

	old, err := repo.FindBySlug(ctx, "Old1")
	require.NoError(t, err)
	assert.True(t, old.Archived)
	assert.Empty(t, old.Title)

	there, err := repo.FindBySlug(ctx, "there")
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/there", there.URL)

	_, err = repo.FindBySlug(ctx, "nourl")
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestImport_RerunSkipsEverything(t *testing.T) {
	repo := repository.NewMemoryLinkRepository()
	links := service.NewLinkService(repo, service.NewSlugService(repo), nil, service.LinkServiceConfig{})
	im := importer.New(links, "snlght", 0)
	ctx := context.Background()

	_, err := im.Import(ctx, strings.NewReader(history))
	require.NoError(t, err)

	res, err := im.Import(ctx, strings.NewReader(history))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Imported)
	assert.Equal(t, 3, res.Skipped)
}

func TestImport_BadDocument(t *testing.T) {
	repo := repository.NewMemoryLinkRepository()
	links := service.NewLinkService(repo, service.NewSlugService(repo), nil, service.LinkServiceConfig{})

	_, err := importer.New(links, "snlght", 1).Import(context.Background(), strings.NewReader("{not json"))
	assert.Error(t, err)
}

// unreachableRepo fails every lookup as if the database were down
type unreachableRepo struct {
	*repository.MemoryLinkRepository
}

func (r *unreachableRepo) Exists(ctx context.Context, slug string) (bool, error) {
	return false, errors.New("connection refused")
}

func TestImport_StorageFailureAborts(t *testing.T) {
	repo := &unreachableRepo{MemoryLinkRepository: repository.NewMemoryLinkRepository()}
	links := service.NewLinkService(repo, service.NewSlugService(repo), nil, service.LinkServiceConfig{})

	res, err := importer.New(links, "snlght", 2).Import(context.Background(), strings.NewReader(history))
	assert.ErrorContains(t, err, "connection refused")
	assert.Zero(t, res.Imported)
	assert.Zero(t, res.Failed)

	all, err := repo.ListRecent(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, all)
}
