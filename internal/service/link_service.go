package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"shortly/internal/entities"
	"shortly/internal/repository"
)

// DefaultCreatedBy is written to every record's created_by
const DefaultCreatedBy = "snlght"

// CreateLinkInput carries the fields a caller may supply for a new link
type CreateLinkInput struct {
	URL   string
	Slug  string // empty means generate one
	Title string // empty means fetch one (Create only)
}

// LinkServiceConfig holds the knobs of LinkService
type LinkServiceConfig struct {
	CreatedBy    string
	SlugLength   int
	SlugAttempts int
	ListLimit    int
	Now          func() time.Time
}

// LinkService defines the link creation, redirect and listing operations
type LinkService interface {
	// Build validates input and assembles a record without persisting it
	Build(ctx context.Context, in CreateLinkInput) (*entities.Link, error)
	// Save persists a record produced by Build
	Save(ctx context.Context, link *entities.Link) error
	// Create builds, fetches a missing title and persists
	Create(ctx context.Context, in CreateLinkInput) (*entities.Link, error)
	// Resolve returns the destination of slug and counts the visit
	Resolve(ctx context.Context, slug string) (string, error)
	Get(ctx context.Context, slug string) (*entities.Link, error)
	Recent(ctx context.Context, limit int) ([]*entities.Link, error)
	Top(ctx context.Context, limit int) ([]*entities.Link, error)
	ForEach(ctx context.Context, fn func(*entities.Link) error) error
}

type linkService struct {
	repo   repository.LinkRepository
	slugs  SlugService
	titles TitleFetcher
	cfg    LinkServiceConfig
}

// NewLinkService creates a new link service. titles may be nil to disable title lookup.
func NewLinkService(repo repository.LinkRepository, slugs SlugService, titles TitleFetcher, cfg LinkServiceConfig) LinkService {
	if cfg.CreatedBy == "" {
		cfg.CreatedBy = DefaultCreatedBy
	}
	if cfg.SlugLength <= 0 {
		cfg.SlugLength = entities.DefaultSlugLength
	}
	if cfg.SlugAttempts <= 0 {
		cfg.SlugAttempts = entities.DefaultSlugAttempts
	}
	if cfg.ListLimit <= 0 {
		cfg.ListLimit = 20
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &linkService{
		repo:   repo,
		slugs:  slugs,
		titles: titles,
		cfg:    cfg,
	}
}

func (s *linkService) Build(ctx context.Context, in CreateLinkInput) (*entities.Link, error) {
	url := strings.TrimSpace(in.URL)
	if url == "" {
		return nil, entities.ErrMissingURL
	}

	var slug string
	var err error
	if in.Slug != "" {
		slug, err = s.slugs.Validate(ctx, in.Slug)
	} else {
		slug, err = s.slugs.Generate(ctx, s.cfg.SlugLength, s.cfg.SlugAttempts)
	}
	if err != nil {
		return nil, err
	}

	return &entities.Link{
		Slug:      slug,
		URL:       url,
		Title:     in.Title,
		Visits:    0,
		CreatedAt: s.cfg.Now().UTC(),
		CreatedBy: s.cfg.CreatedBy,
		Archived:  false,
		Private:   false,
	}, nil
}

func (s *linkService) Save(ctx context.Context, link *entities.Link) error {
	err := s.repo.Insert(ctx, link)
	if errors.Is(err, entities.ErrDuplicateSlug) {
		return fmt.Errorf("slug '%s': %w", link.Slug, entities.ErrSlugTaken)
	}
	return err
}

func (s *linkService) Create(ctx context.Context, in CreateLinkInput) (*entities.Link, error) {
	link, err := s.Build(ctx, in)
	if err != nil {
		return nil, err
	}

	if link.Title == "" && s.titles != nil {
		if title, ok := s.titles.FetchTitle(ctx, link.URL); ok {
			link.Title = title
		}
	}

	if in.Slug != "" {
		if err := s.Save(ctx, link); err != nil {
			return nil, err
		}
		return link, nil
	}

	// The caller never saw a generated slug, so a lost commit race gets
	// one fresh slug before giving up.
	attempt := 0
	backoff := retry.WithMaxRetries(1, retry.NewConstant(10*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if attempt > 0 {
			slug, err := s.slugs.Generate(ctx, s.cfg.SlugLength, s.cfg.SlugAttempts)
			if err != nil {
				return err
			}
			slog.InfoContext(ctx, "regenerated slug after commit race", "lost", link.Slug, "slug", slug)
			link.Slug = slug
		}
		attempt++

		err := s.repo.Insert(ctx, link)
		if errors.Is(err, entities.ErrDuplicateSlug) {
			return retry.RetryableError(err)
		}
		return err
	})
	if errors.Is(err, entities.ErrDuplicateSlug) {
		return nil, fmt.Errorf("%w: %w", entities.ErrExhaustedAttempts, err)
	}
	if err != nil {
		return nil, err
	}

	return link, nil
}

func (s *linkService) Resolve(ctx context.Context, slug string) (string, error) {
	link, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return "", err
	}

	// A client disconnect must not revoke a visit that is already being counted
	if err := s.repo.IncrementVisits(context.WithoutCancel(ctx), slug); err != nil {
		return "", fmt.Errorf("failed to record visit: %w", err)
	}

	return link.URL, nil
}

func (s *linkService) Get(ctx context.Context, slug string) (*entities.Link, error) {
	return s.repo.FindBySlug(ctx, slug)
}

func (s *linkService) Recent(ctx context.Context, limit int) ([]*entities.Link, error) {
	return s.repo.ListRecent(ctx, s.limit(limit))
}

func (s *linkService) Top(ctx context.Context, limit int) ([]*entities.Link, error) {
	return s.repo.ListTop(ctx, s.limit(limit))
}

func (s *linkService) ForEach(ctx context.Context, fn func(*entities.Link) error) error {
	return s.repo.ForEach(ctx, fn)
}

func (s *linkService) limit(n int) int {
	if n <= 0 {
		return s.cfg.ListLimit
	}
	return n
}
