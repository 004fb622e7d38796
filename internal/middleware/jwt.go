package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "context"               // context for revocation store and identity lookups
    "errors"                // sentinel comparisons for lookup failures
    "net/http"              // HTTP status codes for responses
    "strings"               // string utilities for prefix checking and trimming

    "github.com/golang-jwt/jwt/v5" // JWT library for parsing and validating tokens
    "github.com/labstack/echo/v4"  // Echo framework used for defining middleware and handlers

    "github.com/iliyamo/online-bookstore/internal/auth"
    "github.com/iliyamo/online-bookstore/internal/model"
    "github.com/iliyamo/online-bookstore/internal/repository"
)

// IdentitySource resolves a token subject to a live user row.  The user
// repository satisfies this; tests substitute a stub.
type IdentitySource interface {
    GetByID(ctx context.Context, id uint64) (model.User, error)
}

// JWTAuth returns an Echo middleware that validates a Bearer session token
// and attaches the caller's resolved identity to the request context.  The
// checks run in a fixed order: revocation first, then signature and expiry,
// then a fresh user lookup by the token's subject.  A token that fails any
// step is rejected with 401; a token whose user row has disappeared gets
// 401 as well, since the session no longer maps to an account.  Handlers
// read the identity via middleware.CurrentIdentity.
func JWTAuth(secret string, revoked auth.RevocationStore, users IdentitySource) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            // Read the Authorization header.  A valid header starts with
            // "Bearer " followed by the JWT.
            header := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(header, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimPrefix(header, "Bearer ")
            ctx := c.Request().Context()

            // Revoked tokens are rejected before any signature work; a
            // logout must win even over a token that would otherwise
            // still validate.
            if hit, err := revoked.Contains(ctx, raw); err != nil {
                return c.JSON(http.StatusInternalServerError, echo.Map{"error": "auth check failed"})
            } else if hit {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token revoked"})
            }

            // Parse the token, pinning the signing method to HMAC so a
            // token signed with a different algorithm is rejected.
            tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
                if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
                    return nil, echo.ErrUnauthorized
                }
                return []byte(secret), nil
            })
            if err != nil || !tok.Valid {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }
            claims, ok := tok.Claims.(jwt.MapClaims)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
            }
            sub, ok := subjectID(claims)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
            }

            // Resolve the identity fresh from storage.  The role inside
            // the token is never trusted for authorization; a role change
            // or account deletion takes effect on the next request.
            u, err := users.GetByID(ctx, sub)
            if err != nil {
                if errors.Is(err, repository.ErrNotFound) {
                    return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
                }
                return c.JSON(http.StatusInternalServerError, echo.Map{"error": "auth check failed"})
            }

            c.Set("identity", model.Identity{ID: u.ID, Username: u.Username, Role: u.Role})
            return next(c)
        }
    }
}

// CurrentIdentity returns the identity stored by JWTAuth, or false when
// the request is unauthenticated.
func CurrentIdentity(c echo.Context) (model.Identity, bool) {
    ident, ok := c.Get("identity").(model.Identity)
    return ident, ok
}

// subjectID extracts the numeric subject claim.  JSON numbers decode as
// float64; some issuers encode the subject as a string.
func subjectID(claims jwt.MapClaims) (uint64, bool) {
    switch v := claims["sub"].(type) {
    case float64:
        return uint64(v), true
    case string:
        var n uint64
        for _, ch := range v {
            if ch < '0' || ch > '9' {
                return 0, false
            }
            n = n*10 + uint64(ch-'0')
        }
        return n, v != ""
    }
    return 0, false
}
