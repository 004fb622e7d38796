package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/online-bookstore/internal/config"
	"github.com/iliyamo/online-bookstore/internal/handler"
	"github.com/iliyamo/online-bookstore/internal/middleware"
	"github.com/iliyamo/online-bookstore/internal/model"
)

// Handlers groups every handler the router wires up.
type Handlers struct {
	Auth   *handler.AuthHandler
	Books  *handler.BookHandler
	Cart   *handler.CartHandler
	Orders *handler.OrderHandler
	Users  *handler.UserHandler
	Search *handler.SearchHandler
}

// Register wires all routes onto the Echo instance.  Public endpoints
// (health, catalog listing, register, login) carry no JWT middleware;
// everything else sits behind JWTAuth, which resolves the caller's
// identity fresh on every request.  Role restrictions beyond
// authentication are applied per route group.
func Register(e *echo.Echo, cfg config.Config, h Handlers, authMW echo.MiddlewareFunc, rdb *redis.Client) {
	// Health check for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	// Unauthenticated auth operations.  Login and register share a
	// token-bucket rate limit keyed by client IP to slow credential
	// guessing.
	limiter := middleware.NewLoginRateLimit(config.LoadRateLimitConfig(), rdb)
	authGroup := e.Group("/v1/auth")
	authGroup.POST("/register", h.Auth.Register, limiter)
	authGroup.POST("/login", h.Auth.Login, limiter)
	// Logout revokes the presented token.  It deliberately skips the
	// JWT middleware so an expired token can still be logged out.
	authGroup.POST("/logout", h.Auth.Logout)

	// Public catalog browsing, cached in Redis.
	cache := middleware.NewCatalogCache(config.LoadCacheConfig(), rdb)
	e.GET("/v1/books", h.Books.List, cache)

	// Protected routes.  All roles pass RequireRole here; finer
	// ownership checks live in the repositories.
	v1 := e.Group("/v1")
	v1.Use(authMW)
	v1.Use(middleware.RequireRole(model.RoleAdmin, model.RoleSeller, model.RoleUser))

	v1.GET("/me", h.Auth.Me)
	v1.GET("/profile", h.Users.Profile)
	v1.GET("/users", h.Users.Details)
	v1.PUT("/users/me", h.Users.Update)

	v1.POST("/books", h.Books.Add)
	v1.PUT("/books/:barcode", h.Books.Update)
	v1.DELETE("/books/:barcode", h.Books.Delete)

	v1.POST("/cart", h.Cart.Add)
	v1.PUT("/cart", h.Cart.Modify)
	v1.DELETE("/cart", h.Cart.Remove)
	v1.GET("/cart", h.Cart.View)

	v1.POST("/orders", h.Orders.Place)
	v1.GET("/orders", h.Orders.List)
	v1.PUT("/orders/:transaction_id/cancel", h.Orders.Cancel)
	// Status transitions are fulfilment operations; only admins.
	v1.PUT("/orders/:transaction_id/status", h.Orders.UpdateStatus,
		middleware.RequireRole(model.RoleAdmin))

	v1.GET("/search", h.Search.Search)
}
