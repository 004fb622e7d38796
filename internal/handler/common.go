package handler // handler defines http handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/online-bookstore/internal/middleware"
	"github.com/iliyamo/online-bookstore/internal/model"
)

// dbTimeout bounds every database call made from a handler. Nothing
// in the data layer applies its own deadline, so this is the only
// cap on a stalled query.
const dbTimeout = 5 * time.Second

// requestContext derives a bounded context from the request.
func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// identityOr401 fetches the identity stored by the JWT middleware.
// The bool result mirrors CurrentIdentity; when false the 401 has
// already been written.
func identityOr401(c echo.Context) (model.Identity, bool) {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		_ = c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		return model.Identity{}, false
	}
	return ident, true
}
