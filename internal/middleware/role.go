package middleware // middleware provides shared request processing for handlers

import (
    "net/http" // http package defines standard HTTP status codes

    "github.com/labstack/echo/v4" // echo provides middleware chaining and context

    "github.com/iliyamo/online-bookstore/internal/model"
)

// RequireRole returns a middleware function that enforces that the
// authenticated caller holds one of the given roles.  Roles are the
// closed model.Role set, so a typo in a route registration fails to
// compile instead of silently never matching.  It assumes JWTAuth has
// already stored the resolved identity in the context; a missing
// identity is treated as forbidden.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
    allowed := make(map[model.Role]bool, len(roles))
    for _, r := range roles {
        allowed[r] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            ident, ok := CurrentIdentity(c)
            if !ok || !allowed[ident.Role] {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
            }
            return next(c)
        }
    }
}
