package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"shortly/internal/entities"
)

// uniqueViolation is the Postgres SQLSTATE for a unique constraint violation
const uniqueViolation = "23505"

// LinkRepository defines the interface for link storage operations.
// Implementations must be safe for concurrent use.
type LinkRepository interface {
	// Exists reports whether a committed record uses slug
	Exists(ctx context.Context, slug string) (bool, error)

	// Insert persists a new record. Returns entities.ErrDuplicateSlug if
	// the slug is already in use at commit time.
	Insert(ctx context.Context, link *entities.Link) error

	// IncrementVisits atomically adds one to the visit counter.
	// Returns entities.ErrNotFound if no record uses slug.
	IncrementVisits(ctx context.Context, slug string) error

	// FindBySlug returns entities.ErrNotFound if no record uses slug
	FindBySlug(ctx context.Context, slug string) (*entities.Link, error)

	ListRecent(ctx context.Context, limit int) ([]*entities.Link, error)
	ListTop(ctx context.Context, limit int) ([]*entities.Link, error)

	// ForEach calls fn for every record ordered by created_at ascending,
	// stopping at the first error fn returns.
	ForEach(ctx context.Context, fn func(*entities.Link) error) error
}

const linkColumns = `slug, url, title, visits, created_at, created_by, archived, private`

type linkRepository struct {
	db *sql.DB
}

// NewLinkRepository creates a Postgres-backed link repository
func NewLinkRepository(db *sql.DB) LinkRepository {
	return &linkRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLink(row scanner) (*entities.Link, error) {
	var link entities.Link
	err := row.Scan(
		&link.Slug,
		&link.URL,
		&link.Title,
		&link.Visits,
		&link.CreatedAt,
		&link.CreatedBy,
		&link.Archived,
		&link.Private,
	)
	if err != nil {
		return nil, err
	}
	link.CreatedAt = link.CreatedAt.UTC()
	return &link, nil
}

// Exists checks whether a slug is already used
func (r *linkRepository) Exists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM links WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return exists, nil
}

// Insert adds a new link; the links_slug_key constraint is the uniqueness authority
func (r *linkRepository) Insert(ctx context.Context, link *entities.Link) error {
	query := `
		INSERT INTO links (` + linkColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		link.Slug,
		link.URL,
		link.Title,
		link.Visits,
		link.CreatedAt.UTC(),
		link.CreatedBy,
		link.Archived,
		link.Private,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("insert %q: %w", link.Slug, entities.ErrDuplicateSlug)
		}
		return fmt.Errorf("failed to insert link: %w", err)
	}

	return nil
}

// IncrementVisits bumps the counter in a single UPDATE so concurrent redirects never lose a visit
func (r *linkRepository) IncrementVisits(ctx context.Context, slug string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE links SET visits = visits + 1 WHERE slug = $1`, slug)
	if err != nil {
		return fmt.Errorf("failed to increment visits: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entities.ErrNotFound
	}

	return nil
}

// FindBySlug finds a link by its slug
func (r *linkRepository) FindBySlug(ctx context.Context, slug string) (*entities.Link, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+linkColumns+` FROM links WHERE slug = $1`, slug)

	link, err := scanLink(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entities.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find link: %w", err)
	}

	return link, nil
}

// ListRecent returns the newest links first; limit 0 means all
func (r *linkRepository) ListRecent(ctx context.Context, limit int) ([]*entities.Link, error) {
	return r.list(ctx, `SELECT `+linkColumns+` FROM links ORDER BY created_at DESC, slug LIMIT NULLIF($1::int, 0)`, limit)
}

// ListTop returns the most visited links first
func (r *linkRepository) ListTop(ctx context.Context, limit int) ([]*entities.Link, error) {
	return r.list(ctx, `SELECT `+linkColumns+` FROM links ORDER BY visits DESC, created_at DESC, slug LIMIT NULLIF($1::int, 0)`, limit)
}

func (r *linkRepository) list(ctx context.Context, query string, limit int) ([]*entities.Link, error) {
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer rows.Close()

	var links []*entities.Link
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, link)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating links: %w", err)
	}

	return links, nil
}

// ForEach streams every link ordered by creation time
func (r *linkRepository) ForEach(ctx context.Context, fn func(*entities.Link) error) error {
	rows, err := r.db.QueryContext(ctx, `SELECT `+linkColumns+` FROM links ORDER BY created_at ASC, slug`)
	if err != nil {
		return fmt.Errorf("failed to query links: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return fmt.Errorf("failed to scan link: %w", err)
		}
		if err := fn(link); err != nil {
			return err
		}
	}

	return rows.Err()
}
