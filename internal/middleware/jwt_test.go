package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/online-bookstore/internal/auth"
	"github.com/iliyamo/online-bookstore/internal/model"
	"github.com/iliyamo/online-bookstore/internal/repository"
	"github.com/iliyamo/online-bookstore/internal/utils"
)

const mwSecret = "middleware-test-secret"

// stubUsers serves identity lookups from a fixed map.
type stubUsers struct {
	users map[uint64]model.User
}

func (s *stubUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func authedRequest(token string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func TestJWTAuthValidToken(t *testing.T) {
	users := &stubUsers{users: map[uint64]model.User{
		9: {ID: 9, Username: "frodo", Role: model.RoleSeller},
	}}
	revoked := auth.NewRevocationStore(nil)

	at, err := utils.NewAccessToken(mwSecret, 9, model.RoleSeller, 5)
	require.NoError(t, err)

	var seen model.Identity
	mw := JWTAuth(mwSecret, revoked, users)
	h := mw(func(c echo.Context) error {
		ident, ok := CurrentIdentity(c)
		require.True(t, ok)
		seen = ident
		return okHandler(c)
	})

	c, rec := authedRequest(at.Token)
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.Identity{ID: 9, Username: "frodo", Role: model.RoleSeller}, seen)
}

func TestJWTAuthMissingHeader(t *testing.T) {
	mw := JWTAuth(mwSecret, auth.NewRevocationStore(nil), &stubUsers{})
	c, rec := authedRequest("")
	require.NoError(t, mw(okHandler)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRevokedToken(t *testing.T) {
	users := &stubUsers{users: map[uint64]model.User{
		9: {ID: 9, Username: "frodo", Role: model.RoleUser},
	}}
	revoked := auth.NewRevocationStore(nil)

	at, err := utils.NewAccessToken(mwSecret, 9, model.RoleUser, 5)
	require.NoError(t, err)
	require.NoError(t, revoked.Revoke(context.Background(), at.Token, time.Hour))

	c, rec := authedRequest(at.Token)
	require.NoError(t, JWTAuth(mwSecret, revoked, users)(okHandler)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "revoked")
}

func TestJWTAuthExpiredToken(t *testing.T) {
	at, err := utils.NewAccessToken(mwSecret, 9, model.RoleUser, -1)
	require.NoError(t, err)

	c, rec := authedRequest(at.Token)
	mw := JWTAuth(mwSecret, auth.NewRevocationStore(nil), &stubUsers{})
	require.NoError(t, mw(okHandler)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthWrongSecret(t *testing.T) {
	at, err := utils.NewAccessToken("some-other-secret", 9, model.RoleUser, 5)
	require.NoError(t, err)

	c, rec := authedRequest(at.Token)
	mw := JWTAuth(mwSecret, auth.NewRevocationStore(nil), &stubUsers{})
	require.NoError(t, mw(okHandler)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthDeletedUser(t *testing.T) {
	// valid token but the subject no longer exists
	at, err := utils.NewAccessToken(mwSecret, 404, model.RoleUser, 5)
	require.NoError(t, err)

	c, rec := authedRequest(at.Token)
	mw := JWTAuth(mwSecret, auth.NewRevocationStore(nil), &stubUsers{users: map[uint64]model.User{}})
	require.NoError(t, mw(okHandler)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	run := func(ident *model.Identity, roles ...model.Role) int {
		c, rec := authedRequest("")
		if ident != nil {
			c.Set("identity", *ident)
		}
		_ = RequireRole(roles...)(okHandler)(c)
		return rec.Code
	}

	admin := model.Identity{ID: 1, Username: "root", Role: model.RoleAdmin}
	user := model.Identity{ID: 2, Username: "sam", Role: model.RoleUser}

	assert.Equal(t, http.StatusOK, run(&admin, model.RoleAdmin))
	assert.Equal(t, http.StatusOK, run(&user, model.RoleAdmin, model.RoleUser))
	assert.Equal(t, http.StatusForbidden, run(&user, model.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, run(nil, model.RoleAdmin))
}

func TestSubjectID(t *testing.T) {
	id, ok := subjectID(jwt.MapClaims{"sub": float64(42)})
	assert.True(t, ok)
	assert.Equal(t, uint64(42), id)

	id, ok = subjectID(jwt.MapClaims{"sub": "123"})
	assert.True(t, ok)
	assert.Equal(t, uint64(123), id)

	_, ok = subjectID(jwt.MapClaims{"sub": "12a"})
	assert.False(t, ok)
	_, ok = subjectID(jwt.MapClaims{"sub": ""})
	assert.False(t, ok)
	_, ok = subjectID(jwt.MapClaims{})
	assert.False(t, ok)
}
