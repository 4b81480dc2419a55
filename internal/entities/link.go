package entities

import "time"

// Link represents a shortened link record in the database
type Link struct {
	Slug      string    `json:"slug"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Visits    int64     `json:"visits"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by"`
	// Archived and Private are stored as-is; nothing filters on them.
	Archived bool `json:"archived"`
	Private  bool `json:"private"`
}

// Clone returns a copy of the record
func (l *Link) Clone() *Link {
	c := *l
	return &c
}
