package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("testservlet", time.Hour)

	token, expiresAt, err := svc.GenerateToken("admin")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
}

func TestJWTService_DefaultTTL(t *testing.T) {
	svc := NewJWTService("testservlet", 0)
	assert.Equal(t, 24*time.Hour, svc.TTL())
}

func TestJWTService_Rejects(t *testing.T) {
	svc := NewJWTService("testservlet", time.Hour)

	expired := NewJWTService("testservlet", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, _, err := expired.GenerateToken("admin")
	require.NoError(t, err)

	otherSecret, _, err := NewJWTService("other", time.Hour).GenerateToken("admin")
	require.NoError(t, err)

	none := gojwt.NewWithClaims(gojwt.SigningMethodNone, gojwt.RegisteredClaims{Subject: "admin"})
	noneToken, err := none.SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "invalid"},
		{"empty", ""},
		{"expired", expiredToken},
		{"wrong secret", otherSecret},
		{"alg none", noneToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.ValidateToken(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}
