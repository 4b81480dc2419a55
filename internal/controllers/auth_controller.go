package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shortly/internal/middleware"
	"shortly/internal/models"
	"shortly/internal/service"
)

type AuthController struct {
	authService  service.AuthService
	secureCookie bool
}

// NewAuthController creates the login handlers. secureCookie marks the
// session cookie HTTPS-only.
func NewAuthController(authService service.AuthService, secureCookie bool) *AuthController {
	return &AuthController{
		authService:  authService,
		secureCookie: secureCookie,
	}
}

// Login handles POST /login
func (ac *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	response, err := ac.authService.Login(&req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrLoginDisabled) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": err.Error(),
			})
			return
		}
		respondError(c, err)
		return
	}

	maxAge := int(time.Until(response.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, response.Token, maxAge, "/", "", ac.secureCookie, true)

	c.JSON(http.StatusOK, response)
}

// Logout handles GET /logout
func (ac *AuthController) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", ac.secureCookie, true)

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out",
	})
}
