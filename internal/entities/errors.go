package entities

import "errors"

var (
	// ErrMissingURL is returned when a link is created without a destination
	ErrMissingURL = errors.New("URL is required")

	// ErrInvalidSlug is returned for slugs outside [A-Za-z0-9] or reserved route names
	ErrInvalidSlug = errors.New("invalid slug")

	// ErrSlugTaken is returned when a requested slug is already in use
	ErrSlugTaken = errors.New("slug is already taken")

	// ErrExhaustedAttempts is returned when no free random slug was found
	ErrExhaustedAttempts = errors.New("could not generate a unique slug")

	// ErrDuplicateSlug is returned by the store when an insert loses the uniqueness race
	ErrDuplicateSlug = errors.New("duplicate slug")

	// ErrNotFound is returned when no link exists for a slug
	ErrNotFound = errors.New("link not found")
)
