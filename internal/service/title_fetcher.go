package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// maxTitleBody caps how much of a destination page is read looking for <title>
const maxTitleBody = 1 << 20

// TitleFetcher looks up a page title. It never fails: any network, status
// or parse problem yields ok == false.
type TitleFetcher interface {
	FetchTitle(ctx context.Context, url string) (title string, ok bool)
}

type httpTitleFetcher struct {
	client *http.Client
}

// NewTitleFetcher creates a fetcher whose requests give up after timeout
func NewTitleFetcher(timeout time.Duration) TitleFetcher {
	return NewTitleFetcherWithClient(&http.Client{Timeout: timeout})
}

// NewTitleFetcherWithClient creates a fetcher using client (for testing)
func NewTitleFetcherWithClient(client *http.Client) TitleFetcher {
	return &httpTitleFetcher{client: client}
}

func (f *httpTitleFetcher) FetchTitle(ctx context.Context, url string) (string, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		slog.DebugContext(ctx, "title fetch skipped", "url", url, "error", err)
		return "", false
	}

	resp, err := f.client.Do(req)
	if err != nil {
		slog.DebugContext(ctx, "title fetch failed", "url", url, "error", err)
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.DebugContext(ctx, "title fetch non-200", "url", url, "status", resp.StatusCode)
		return "", false
	}

	return extractTitle(io.LimitReader(resp.Body, maxTitleBody))
}

// extractTitle returns the text of the first non-empty <title> element
func extractTitle(r io.Reader) (string, bool) {
	z := html.NewTokenizer(r)
	inTitle := false
	var title strings.Builder

	for {
		switch z.Next() {
		case html.ErrorToken:
			// EOF or malformed input
			if inTitle && title.Len() > 0 {
				return strings.TrimSpace(title.String()), true
			}
			return "", false
		case html.StartTagToken:
			name, _ := z.TagName()
			if string(name) == "title" {
				inTitle = true
			}
		case html.TextToken:
			if inTitle {
				title.Write(z.Text())
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if inTitle && string(name) == "title" {
				if t := strings.TrimSpace(title.String()); t != "" {
					return t, true
				}
				// empty titles (e.g. inside <svg>) do not count
				inTitle = false
				title.Reset()
			}
		}
	}
}
