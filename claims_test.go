package ewaste_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/ecoloop/ewaste"
)

func TestJWTClaims(t *testing.T) {
	now := time.Now().Truncate(time.Second)

	t.Run("exposes registered claims", func(t *testing.T) {
		claims := &ewaste.JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "user-123",
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
			UID:   "user-123",
			Uname: "testuser",
		}

		assert.Equal(t, "user-123", claims.Subject())
		assert.Equal(t, "testuser", claims.Username())
		assert.Equal(t, now, claims.IssuedAt())
		assert.Equal(t, now.Add(time.Hour), claims.Expires())
	})

	t.Run("username falls back to subject", func(t *testing.T) {
		claims := &ewaste.JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "user-123"},
		}
		assert.Equal(t, "user-123", claims.Username())
	})

	t.Run("zero times for absent timestamps", func(t *testing.T) {
		claims := &ewaste.JWTClaims{}
		assert.True(t, claims.IssuedAt().IsZero())
		assert.True(t, claims.Expires().IsZero())
	})
}
