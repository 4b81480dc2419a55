// Package importer loads link history exported from a legacy shortener.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"shortly/internal/entities"
	"shortly/internal/service"
)

// Entry is one element of data.link_history
type Entry struct {
	Link      string  `json:"link"`
	LongURL   string  `json:"long_url"`
	Title     string  `json:"title"`
	CreatedAt float64 `json:"created_at"` // unix seconds
	Archived  bool    `json:"archived"`
	Private   bool    `json:"private"`
}

// Slug is the last path segment of the legacy short link
func (e Entry) Slug() string {
	link := strings.TrimRight(e.Link, "/")
	return link[strings.LastIndex(link, "/")+1:]
}

type document struct {
	Data struct {
		LinkHistory []Entry `json:"link_history"`
	} `json:"data"`
}

// Decode reads a link history document
func Decode(r io.Reader) ([]Entry, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode link history: %w", err)
	}
	return doc.Data.LinkHistory, nil
}

// Builder is the subset of service.LinkService the importer needs
type Builder interface {
	Build(ctx context.Context, in service.CreateLinkInput) (*entities.Link, error)
	Save(ctx context.Context, link *entities.Link) error
}

// Result counts what happened to each distinct slug
type Result struct {
	Imported int
	Skipped  int // already stored
	Failed   int // rejected entries, e.g. missing URL or bad slug
}

type Importer struct {
	links     Builder
	createdBy string
	workers   int
}

// New creates an importer. Records are built by up to workers goroutines
// and saved one at a time in input order.
func New(links Builder, createdBy string, workers int) *Importer {
	if workers <= 0 {
		workers = 4
	}
	return &Importer{
		links:     links,
		createdBy: createdBy,
		workers:   workers,
	}
}

// Import decodes r and stores every entry whose slug appears for the first time
func (im *Importer) Import(ctx context.Context, r io.Reader) (Result, error) {
	entries, err := Decode(r)
	if err != nil {
		return Result{}, err
	}

	seen := make(map[string]bool, len(entries))
	unique := entries[:0:0]
	for _, e := range entries {
		slug := e.Slug()
		if seen[slug] {
			continue
		}
		seen[slug] = true
		unique = append(unique, e)
	}

	var res Result
	built := make([]*entities.Link, len(unique))
	errs := make([]error, len(unique))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(im.workers)
	for i, e := range unique {
		g.Go(func() error {
			link, err := im.links.Build(gctx, service.CreateLinkInput{
				URL:   e.LongURL,
				Slug:  e.Slug(),
				Title: e.Title,
			})
			if err != nil {
				if !isEntryError(err) {
					return fmt.Errorf("failed to build %q: %w", e.Slug(), err)
				}
				// a bad entry does not stop the others
				errs[i] = err
				return nil
			}

			link.Title = e.Title
			link.CreatedAt = unixUTC(e.CreatedAt)
			link.CreatedBy = im.createdBy
			link.Archived = e.Archived
			link.Private = e.Private
			built[i] = link
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}

	for i, link := range built {
		if link == nil {
			im.reject(ctx, &res, unique[i], errs[i])
			continue
		}

		if err := im.links.Save(ctx, link); err != nil {
			if errors.Is(err, entities.ErrSlugTaken) {
				im.reject(ctx, &res, unique[i], err)
				continue
			}
			return res, fmt.Errorf("failed to save %q: %w", link.Slug, err)
		}

		res.Imported++
		slog.InfoContext(ctx, "imported link", "index", i, "slug", link.Slug)
	}

	return res, nil
}

func (im *Importer) reject(ctx context.Context, res *Result, e Entry, err error) {
	if errors.Is(err, entities.ErrSlugTaken) {
		res.Skipped++
		slog.InfoContext(ctx, "slug already stored", "slug", e.Slug())
		return
	}
	res.Failed++
	slog.WarnContext(ctx, "rejected link", "slug", e.Slug(), "link", e.Link, "error", err)
}

// isEntryError reports whether err condemns a single entry rather than the run
func isEntryError(err error) bool {
	return errors.Is(err, entities.ErrMissingURL) ||
		errors.Is(err, entities.ErrInvalidSlug) ||
		errors.Is(err, entities.ErrSlugTaken)
}

func unixUTC(sec float64) time.Time {
	whole, frac := math.Modf(sec)
	return time.Unix(int64(whole), int64(frac*1e9)).UTC()
}
