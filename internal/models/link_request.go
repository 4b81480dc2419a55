package models

// CreateLinkRequest represents the body of POST /make, as JSON or form fields
type CreateLinkRequest struct {
	URL   string `json:"url" form:"url"`
	Slug  string `json:"slug,omitempty" form:"slug"`
	Title string `json:"title,omitempty" form:"title"`
}
