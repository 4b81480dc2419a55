package models

import (
	"time"

	"shortly/internal/entities"
)

// LinkResponse is a stored link as returned by the API
type LinkResponse struct {
	Slug      string    `json:"slug"`
	ShortURL  string    `json:"short_url"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Visits    int64     `json:"visits"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by"`
	Archived  bool      `json:"archived"`
	Private   bool      `json:"private"`
}

// SlugResponse carries a freshly generated slug suggestion
type SlugResponse struct {
	Slug string `json:"slug"`
}

// SlugCheckResponse reports whether a candidate slug can be claimed
type SlugCheckResponse struct {
	Slug      string `json:"slug"`
	Available bool   `json:"available"`
}

// NewLinkResponse converts link, prefixing its slug with baseURL
func NewLinkResponse(link *entities.Link, baseURL string) LinkResponse {
	return LinkResponse{
		Slug:      link.Slug,
		ShortURL:  baseURL + "/" + link.Slug,
		URL:       link.URL,
		Title:     link.Title,
		Visits:    link.Visits,
		CreatedAt: link.CreatedAt,
		CreatedBy: link.CreatedBy,
		Archived:  link.Archived,
		Private:   link.Private,
	}
}

// NewLinkResponses converts a listing
func NewLinkResponses(links []*entities.Link, baseURL string) []LinkResponse {
	out := make([]LinkResponse, 0, len(links))
	for _, l := range links {
		out = append(out, NewLinkResponse(l, baseURL))
	}
	return out
}
