package entities

import "strings"

// SlugAlphabet is the character set random slugs are drawn from
const SlugAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const (
	DefaultSlugLength   = 5
	DefaultSlugAttempts = 100
	// MaxSlugLength bounds requested lengths of generated slugs
	MaxSlugLength = 64
)

// Slugs that would shadow a top-level route
var reservedSlugs = map[string]bool{
	"make":   true,
	"slug":   true,
	"recent": true,
	"top":    true,
	"dump":   true,
	"login":  true,
	"logout": true,
	"health": true,
	"qr":     true,
}

// IsValidSlug reports whether s is non-empty and made only of [A-Za-z0-9]
func IsValidSlug(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(SlugAlphabet, s[i]) < 0 {
			return false
		}
	}
	return true
}

// IsReservedSlug reports whether s collides with a route name (case-insensitive)
func IsReservedSlug(s string) bool {
	return reservedSlugs[strings.ToLower(s)]
}
