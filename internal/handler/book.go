package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/online-bookstore/internal/model"
	"github.com/iliyamo/online-bookstore/internal/repository"
)

// BookHandler serves the catalog endpoints. Listing is public; every
// mutation requires an authenticated identity and either ownership of
// the listing or the admin role.
type BookHandler struct {
	Books *repository.BookRepo
}

func NewBookHandler(b *repository.BookRepo) *BookHandler {
	if b == nil {
		panic("nil repository passed to NewBookHandler")
	}
	return &BookHandler{Books: b}
}

type addBookReq struct {
	Barcode  string  `json:"barcode"`
	Name     string  `json:"name"`
	Author   string  `json:"author"`
	Price    float64 `json:"price"`
	Quantity uint32  `json:"quantity"`
}

type updateBookReq struct {
	Name     *string  `json:"name"`
	Price    *float64 `json:"price"`
	Quantity *uint32  `json:"quantity"`
}

// List handles GET /v1/books. Public; sits behind the catalog cache.
func (h *BookHandler) List(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	books, err := h.Books.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"books": books})
}

// Add handles POST /v1/books. The listing is attributed to the
// caller's username via added_by.
func (h *BookHandler) Add(c echo.Context) error {
	ident, ok := identityOr401(c)
	if !ok {
		return nil
	}
	var req addBookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Barcode = strings.TrimSpace(req.Barcode)
	if req.Barcode == "" || strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "barcode and name required"})
	}
	if req.Price < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must not be negative"})
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	err := h.Books.Create(ctx, model.Book{
		Barcode:  req.Barcode,
		Name:     req.Name,
		Author:   req.Author,
		Price:    req.Price,
		Quantity: req.Quantity,
		AddedBy:  ident.Username,
	})
	if err != nil {
		if errors.Is(err, repository.ErrBarcodeExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "barcode already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add book failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "'" + req.Name + "' added successfully by " + ident.Username,
	})
}

// Update handles PUT /v1/books/:barcode.
func (h *BookHandler) Update(c echo.Context) error {
	ident, ok := identityOr401(c)
	if !ok {
		return nil
	}
	barcode := strings.TrimSpace(c.Param("barcode"))
	if barcode == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid barcode"})
	}
	var req updateBookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Price != nil && *req.Price <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must be positive"})
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	err := h.Books.Update(ctx, ident, barcode, repository.BookUpdate{
		Name:     req.Name,
		Price:    req.Price,
		Quantity: req.Quantity,
	})
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "book not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update book failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "book updated successfully"})
}

// Delete handles DELETE /v1/books/:barcode.
func (h *BookHandler) Delete(c echo.Context) error {
	ident, ok := identityOr401(c)
	if !ok {
		return nil
	}
	barcode := strings.TrimSpace(c.Param("barcode"))
	if barcode == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid barcode"})
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	err := h.Books.Delete(ctx, ident, barcode)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "book not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete book failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "book deleted successfully"})
}
