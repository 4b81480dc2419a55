package controllers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"shortly/internal/jwt"
	"shortly/internal/middleware"
)

// RouterConfig wires controllers and middleware into the HTTP surface.
// Nil limiters leave the matching routes unthrottled.
type RouterConfig struct {
	Logger *slog.Logger
	JWT    *jwt.JWTService

	Links  *LinkController
	Auth   *AuthController
	QRCode *QRCodeController

	GeneralLimiter  *middleware.RateLimiter
	AuthLimiter     *middleware.RateLimiter
	RedirectLimiter *middleware.RateLimiter
}

func limit(rl *middleware.RateLimiter) gin.HandlerFunc {
	if rl == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return rl.LimitMiddleware()
}

// NewRouter builds the gin engine
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	router.Use(middleware.RequestLogger(logger), gin.Recovery())

	// Health check endpoint (no rate limiting)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	router.GET("/", cfg.Links.Index)
	router.GET("/:slug", limit(cfg.RedirectLimiter), cfg.Links.Redirect)

	auth := router.Group("")
	auth.Use(limit(cfg.AuthLimiter))
	{
		auth.POST("/login", cfg.Auth.Login)
		auth.GET("/logout", cfg.Auth.Logout)
	}

	// Protected routes - require a session
	protected := router.Group("")
	protected.Use(limit(cfg.GeneralLimiter), middleware.AuthMiddleware(cfg.JWT))
	{
		protected.GET("/make", cfg.Links.Suggest)
		protected.POST("/make", cfg.Links.Make)
		protected.GET("/slug", cfg.Links.Suggest)
		protected.GET("/slug/:candidate", cfg.Links.SlugCheck)
		protected.GET("/recent", cfg.Links.Recent)
		protected.GET("/top", cfg.Links.Top)
		protected.GET("/dump", cfg.Links.Dump)
		protected.GET("/qr/:slug", cfg.QRCode.GenerateQRCode)
	}

	return router
}
