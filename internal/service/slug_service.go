package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"shortly/internal/entities"
	"shortly/internal/repository"
)

// SlugService hands out slugs that are free in the repository at the time
// of the check. It reserves nothing: the repository's Insert is the
// uniqueness authority.
type SlugService interface {
	// Validate returns candidate if it is well-formed and unused
	Validate(ctx context.Context, candidate string) (string, error)

	// Generate draws random slugs of length until one is unused or
	// attempts draws have been made
	Generate(ctx context.Context, length, attempts int) (string, error)

	// IsAvailable reports whether candidate could be claimed right now
	IsAvailable(ctx context.Context, candidate string) (bool, error)
}

type slugService struct {
	repo repository.LinkRepository
	intN func(n int) int
}

// NewSlugService creates a slug service drawing from math/rand/v2
func NewSlugService(repo repository.LinkRepository) SlugService {
	return NewSlugServiceWithRand(repo, rand.IntN)
}

// NewSlugServiceWithRand creates a slug service with a custom index source (for testing).
// intN must return a value in [0, n).
func NewSlugServiceWithRand(repo repository.LinkRepository, intN func(n int) int) SlugService {
	return &slugService{
		repo: repo,
		intN: intN,
	}
}

func (s *slugService) Validate(ctx context.Context, candidate string) (string, error) {
	if !entities.IsValidSlug(candidate) {
		return "", fmt.Errorf("%w %q: only letters and digits are allowed", entities.ErrInvalidSlug, candidate)
	}
	if entities.IsReservedSlug(candidate) {
		return "", fmt.Errorf("%w %q: the name is reserved", entities.ErrInvalidSlug, candidate)
	}

	exists, err := s.repo.Exists(ctx, candidate)
	if err != nil {
		return "", fmt.Errorf("failed to check slug availability: %w", err)
	}
	if exists {
		return "", fmt.Errorf("slug '%s': %w", candidate, entities.ErrSlugTaken)
	}

	return candidate, nil
}

func (s *slugService) Generate(ctx context.Context, length, attempts int) (string, error) {
	if length <= 0 {
		length = entities.DefaultSlugLength
	}
	if length > entities.MaxSlugLength {
		length = entities.MaxSlugLength
	}
	if attempts <= 0 {
		attempts = entities.DefaultSlugAttempts
	}

	for i := 0; i < attempts; i++ {
		slug := s.draw(length)
		if entities.IsReservedSlug(slug) {
			continue
		}

		exists, err := s.repo.Exists(ctx, slug)
		if err != nil {
			return "", fmt.Errorf("failed to check slug availability: %w", err)
		}
		if !exists {
			return slug, nil
		}
	}

	return "", fmt.Errorf("after %d attempts at length %d: %w", attempts, length, entities.ErrExhaustedAttempts)
}

func (s *slugService) IsAvailable(ctx context.Context, candidate string) (bool, error) {
	if !entities.IsValidSlug(candidate) || entities.IsReservedSlug(candidate) {
		return false, nil
	}

	exists, err := s.repo.Exists(ctx, candidate)
	if err != nil {
		return false, fmt.Errorf("failed to check slug availability: %w", err)
	}
	return !exists, nil
}

func (s *slugService) draw(length int) string {
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		b.WriteByte(entities.SlugAlphabet[s.intN(len(entities.SlugAlphabet))])
	}
	return b.String()
}
