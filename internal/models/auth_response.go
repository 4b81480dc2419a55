package models

import "time"

// AuthResponse represents the response after successful authentication
type AuthResponse struct {
	Subject   string    `json:"subject"`
	Token     string    `json:"token"` // JWT token, also set as the session cookie
	ExpiresAt time.Time `json:"expires_at"`
}
