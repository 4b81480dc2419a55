// Package export renders the link table for download.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"shortly/internal/entities"
)

// Header is the first row of every CSV export
var Header = []string{"slug", "url", "title", "created_at", "created_by", "visits"}

// Source iterates links oldest first
type Source interface {
	ForEach(ctx context.Context, fn func(*entities.Link) error) error
}

// WriteCSV streams every link in src to w. It returns the number of rows written.
func WriteCSV(ctx context.Context, w io.Writer, src Source) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	rows := 0
	err := src.ForEach(ctx, func(link *entities.Link) error {
		rows++
		return cw.Write([]string{
			link.Slug,
			link.URL,
			link.Title,
			link.CreatedAt.UTC().Format(time.RFC3339),
			link.CreatedBy,
			strconv.FormatInt(link.Visits, 10),
		})
	})
	if err != nil {
		return rows, fmt.Errorf("failed to export links: %w", err)
	}

	cw.Flush()
	return rows, cw.Error()
}
