package ewaste_test

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoloop/ewaste"
)

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("successful login mints a verifiable token", func(t *testing.T) {
		mockProvider := new(MockIdentityProvider)
		identity := TestIdentity{id: "user-123", username: "testuser"}

		mockProvider.On("VerifyIdentity", ctx, "testuser", "password123").
			Return(identity, nil).Once()

		authenticator := ewaste.NewAuthenticator(mockProvider, newMockConfig())

		token, err := authenticator.Login(ctx, "testuser", "password123")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		// token parses with the configured key and carries the username claim
		parsed, err := jwt.ParseWithClaims(token, &ewaste.JWTClaims{}, func(t *jwt.Token) (any, error) {
			return []byte("test-signing-key"), nil
		})
		require.NoError(t, err)

		claims, ok := parsed.Claims.(*ewaste.JWTClaims)
		require.True(t, ok)
		assert.Equal(t, "user-123", claims.Subject())
		assert.Equal(t, "testuser", claims.Username())

		mockProvider.AssertExpectations(t)
	})

	t.Run("failed verification yields no token", func(t *testing.T) {
		mockProvider := new(MockIdentityProvider)
		mockProvider.On("VerifyIdentity", ctx, "testuser", "wrong-password").
			Return(nil, ewaste.ErrMismatchedHashAndPassword).Once()

		authenticator := ewaste.NewAuthenticator(mockProvider, newMockConfig())

		token, err := authenticator.Login(ctx, "testuser", "wrong-password")
		assert.Empty(t, token)
		assert.ErrorIs(t, err, ewaste.ErrMismatchedHashAndPassword)
	})

	t.Run("nil identity without error still fails login", func(t *testing.T) {
		mockProvider := new(MockIdentityProvider)
		mockProvider.On("VerifyIdentity", ctx, "testuser", "password123").
			Return(nil, nil).Once()

		authenticator := ewaste.NewAuthenticator(mockProvider, newMockConfig())

		token, err := authenticator.Login(ctx, "testuser", "password123")
		assert.Empty(t, token)
		assert.ErrorIs(t, err, ewaste.ErrMismatchedHashAndPassword)
	})
}

func TestSessionFromToken(t *testing.T) {
	ctx := context.Background()
	mockProvider := new(MockIdentityProvider)
	identity := TestIdentity{id: "user-123", username: "testuser"}

	mockProvider.On("VerifyIdentity", ctx, "testuser", "password123").
		Return(identity, nil)

	authenticator := ewaste.NewAuthenticator(mockProvider, newMockConfig())

	t.Run("returns session for a minted token", func(t *testing.T) {
		token, err := authenticator.Login(ctx, "testuser", "password123")
		require.NoError(t, err)

		session, err := authenticator.SessionFromToken(token)
		require.NoError(t, err)
		assert.Equal(t, "user-123", session.GetUserID())
		assert.Equal(t, "testuser", session.GetUsername())
		assert.Equal(t, "test-issuer", session.GetIssuer())
		assert.Equal(t, []string{"test:audience"}, session.GetAudience())
		require.NotNil(t, session.GetIssuedAt())
	})

	t.Run("rejects garbage tokens", func(t *testing.T) {
		session, err := authenticator.SessionFromToken("not-a-token")
		assert.Nil(t, session)
		assert.True(t, ewaste.IsMalformedError(err))
	})
}
