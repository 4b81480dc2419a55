package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortly/internal/jwt"
)

func TestAuthMiddleware(t *testing.T) {
	jwtService := jwt.NewJWTService("testservlet", time.Hour)
	valid, _, err := jwtService.GenerateToken("admin")
	require.NoError(t, err)
	forged, _, err := jwt.NewJWTService("other", time.Hour).GenerateToken("admin")
	require.NoError(t, err)

	tests := []struct {
		name           string
		cookie         string
		header         string
		expectedStatus int
	}{
		{
			name:           "No credentials",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Invalid cookie",
			cookie:         "invalid",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Forged cookie",
			cookie:         forged,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Valid cookie",
			cookie:         valid,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Valid bearer",
			header:         "Bearer " + valid,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Lowercase bearer",
			header:         "bearer " + valid,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Basic scheme",
			header:         "Basic " + valid,
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			var subject string
			r.GET("/recent", AuthMiddleware(jwtService), func(c *gin.Context) {
				subject = c.GetString(SubjectKey)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/recent", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, "admin", subject)
			}
		})
	}
}
