package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/online-bookstore/internal/model"
)

const testSecret = "unit-test-secret"

func parseToken(t *testing.T, raw, secret string) (*jwt.Token, jwt.MapClaims) {
	t.Helper()
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	claims, ok := tok.Claims.(jwt.MapClaims)
	require.True(t, ok)
	return tok, claims
}

func TestNewAccessTokenRoundTrip(t *testing.T) {
	at, err := NewAccessToken(testSecret, 77, model.RoleSeller, 240)
	require.NoError(t, err)
	require.NotEmpty(t, at.Token)

	tok, claims := parseToken(t, at.Token, testSecret)
	assert.True(t, tok.Valid)
	assert.Equal(t, float64(77), claims["sub"])
	assert.Equal(t, "seller", claims["role"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC().Add(240*time.Minute), exp.Time, time.Minute)
	assert.WithinDuration(t, at.Exp, exp.Time, time.Second)
}

func TestNewAccessTokenWrongSecretRejected(t *testing.T) {
	at, err := NewAccessToken(testSecret, 1, model.RoleUser, 5)
	require.NoError(t, err)

	_, err = jwt.Parse(at.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	})
	assert.Error(t, err)
}

func TestNewAccessTokenExpiredRejected(t *testing.T) {
	// negative TTL puts exp in the past
	at, err := NewAccessToken(testSecret, 1, model.RoleUser, -1)
	require.NoError(t, err)

	_, err = jwt.Parse(at.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestHashToken(t *testing.T) {
	a := HashToken("some-token")
	b := HashToken("some-token")
	c := HashToken("other-token")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64) // sha256 hex
	assert.NotContains(t, a, "some-token")
}
