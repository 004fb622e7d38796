package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/online-bookstore/internal/repository"
)

// CartHandler serves the shopping cart endpoints. Every route is
// scoped to the authenticated user's own cart; admins may inspect
// another user's cart via the user_id query parameter on View.
type CartHandler struct {
	Cart  *repository.CartRepo
	Books *repository.BookRepo
}

func NewCartHandler(cart *repository.CartRepo, books *repository.BookRepo) *CartHandler {
	if cart == nil || books == nil {
		panic("nil repository passed to NewCartHandler")
	}
	return &CartHandler{Cart: cart, Books: books}
}

type cartItemReq struct {
	Barcode  string `json:"barcode"`
	Quantity uint32 `json:"quantity"`
}

func (r *cartItemReq) validate() string {
	r.Barcode = strings.TrimSpace(r.Barcode)
	if r.Barcode == "" {
		return "barcode required"
	}
	if r.Quantity == 0 {
		return "quantity must be positive"
	}
	return ""
}

// Add handles POST /v1/cart. The book must exist in the catalog.
func (h *CartHandler) Add(c echo.Context) error {
	ident, ok := identityOr401(c)
	if !ok {
		return nil
	}
	var req cartItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if _, err := h.Books.GetByBarcode(ctx, req.Barcode); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "book not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := h.Cart.Add(ctx, ident.ID, req.Barcode, req.Quantity); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add to cart failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "item added to cart successfully"})
}

// Modify handles PUT /v1/cart, replacing the quantity of an item.
func (h *CartHandler) Modify(c echo.Context) error {
	ident, ok := identityOr401(c)
	if !ok {
		return nil
	}
	var req cartItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Cart.SetQuantity(ctx, ident.ID, req.Barcode, req.Quantity); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "item not found in the cart"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "modify cart failed"})
	}

	lines, err := h.Cart.View(ctx, ident.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":    "cart updated successfully",
		"cart_items": lines,
	})
}

// Remove handles DELETE /v1/cart.
func (h *CartHandler) Remove(c echo.Context) error {
	ident, ok := identityOr401(c)
	if !ok {
		return nil
	}
	var req cartItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Barcode = strings.TrimSpace(req.Barcode)
	if req.Barcode == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "barcode required"})
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Cart.Remove(ctx, ident.ID, req.Barcode); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "item not found in the cart"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete cart item failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "item deleted successfully from the cart"})
}

// View handles GET /v1/cart. An admin may pass ?user_id= to inspect
// any cart; other roles always see their own.
func (h *CartHandler) View(c echo.Context) error {
	ident, ok := identityOr401(c)
	if !ok {
		return nil
	}
	userID := ident.ID
	if raw := c.QueryParam("user_id"); raw != "" {
		if !ident.Role.IsAdmin() {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || n == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user_id"})
		}
		userID = n
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	lines, err := h.Cart.View(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":    "cart retrieved successfully",
		"cart_items": lines,
	})
}
