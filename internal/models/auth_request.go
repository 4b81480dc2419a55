package models

// LoginRequest represents the request body for admin login
type LoginRequest struct {
	Password string `json:"password" form:"password" binding:"required"`
}
