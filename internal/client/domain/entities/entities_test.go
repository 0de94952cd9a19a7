package entities_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialclient/internal/client/domain/apierr"
	"socialclient/internal/client/domain/entities"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-secret"))
	require.NoError(t, err)
	return token
}

func TestParseAccessClaims(t *testing.T) {
	exp := time.Now().Add(10 * time.Minute).Truncate(time.Second)

	t.Run("subject and expiry", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{"sub": "user-1", "username": "ada", "exp": exp.Unix()})

		claims, err := entities.ParseAccessClaims(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.Subject)
		assert.Equal(t, "ada", claims.Username)
		assert.True(t, exp.Equal(claims.ExpiresAt))
	})

	t.Run("user_id fallback", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{"user_id": "user-2"})

		claims, err := entities.ParseAccessClaims(token)
		require.NoError(t, err)
		assert.Equal(t, "user-2", claims.Subject)
		assert.True(t, claims.ExpiresAt.IsZero())
	})

	t.Run("opaque token", func(t *testing.T) {
		_, err := entities.ParseAccessClaims("opaque-token")
		assert.ErrorIs(t, err, entities.ErrOpaqueToken)
	})
}

func TestExpiresWithin(t *testing.T) {
	now := time.Now()
	claims := &entities.AccessClaims{ExpiresAt: now.Add(30 * time.Second)}

	assert.True(t, claims.ExpiresWithin(time.Minute, now))
	assert.False(t, claims.ExpiresWithin(10*time.Second, now))
	assert.False(t, (&entities.AccessClaims{}).ExpiresWithin(time.Hour, now))
}

func TestResponseErr(t *testing.T) {
	var empty *entities.Response
	assert.NoError(t, empty.Err())
	assert.Nil(t, empty.FirstError())

	resp := &entities.Response{
		StatusCode: 200,
		Errors:     []apierr.GraphQLError{*apierr.NewGraphQLError(apierr.CodeTokenExpired, "jwt expired")},
	}
	require.Error(t, resp.Err())
	assert.ErrorIs(t, resp.Err(), apierr.ErrNotAuthenticated)
	assert.Equal(t, apierr.CodeTokenExpired, resp.FirstError().Code())
}
