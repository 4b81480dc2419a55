package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"shortly/internal/jwt"
)

const (
	// SessionCookie carries the session token for browser clients
	SessionCookie = "session"
	// SubjectKey is the gin context key holding the authenticated subject
	SubjectKey = "subject"
)

// AuthMiddleware accepts a session token from the SessionCookie cookie or
// an "Authorization: Bearer" header
func AuthMiddleware(jwtService *jwt.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				token = cookie
			}
		}

		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": err.Error(),
			})
			return
		}

		c.Set(SubjectKey, claims.Subject)
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
