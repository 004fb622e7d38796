package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/online-bookstore/internal/repository"
)

// SearchHandler serves GET /v1/search, the generic record search.
// Query parameters:
//
//	table      – books | orders | users (users is admin-only)
//	keyword    – repeatable "field:value" filters, matched with LIKE
//	order_by   – optional sort column
//	sort_order – asc (default) or desc
type SearchHandler struct {
	Repo *repository.SearchRepo
}

func NewSearchHandler(s *repository.SearchRepo) *SearchHandler {
	if s == nil {
		panic("nil repository passed to NewSearchHandler")
	}
	return &SearchHandler{Repo: s}
}

func (h *SearchHandler) Search(c echo.Context) error {
	ident, ok := identityOr401(c)
	if !ok {
		return nil
	}

	sortOrder := strings.ToLower(c.QueryParam("sort_order"))
	if sortOrder != "" && sortOrder != "asc" && sortOrder != "desc" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "sort_order must be asc or desc"})
	}
	q := repository.SearchQuery{
		Table:      strings.ToLower(strings.TrimSpace(c.QueryParam("table"))),
		Keywords:   c.QueryParams()["keyword"],
		OrderBy:    strings.TrimSpace(c.QueryParam("order_by")),
		Descending: sortOrder == "desc",
	}
	if q.Table == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "table is required"})
	}

	if err := q.Authorize(ident.Role); err != nil {
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{
				"error": "you are not authorized to search in the '" + q.Table + "' table",
			})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	results, err := h.Repo.Run(ctx, q)
	if err != nil {
		if errors.Is(err, repository.ErrBadKeyword) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "search completed successfully",
		"table":   q.Table,
		"results": results,
	})
}
