package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/online-bookstore/internal/model"
	"github.com/iliyamo/online-bookstore/internal/queue"
	"github.com/iliyamo/online-bookstore/internal/repository"
	queue_publisher "github.com/iliyamo/online-bookstore/internal/service"
)

// OrderHandler serves order placement, listing, cancellation and the
// admin-only status transitions. Placement delegates to the order
// repository's locked transaction; this handler never touches stock
// numbers itself.
type OrderHandler struct {
	Orders *repository.OrderRepo
	Books  *repository.BookRepo
	Users  *repository.UserRepo
}

func NewOrderHandler(orders *repository.OrderRepo, books *repository.BookRepo, users *repository.UserRepo) *OrderHandler {
	if orders == nil || books == nil || users == nil {
		panic("nil repository passed to NewOrderHandler")
	}
	return &OrderHandler{Orders: orders, Books: books, Users: users}
}

type placeOrderReq struct {
	Barcode  string `json:"barcode"`
	Quantity uint32 `json:"quantity"`
}

type orderStatusReq struct {
	Status string `json:"status"`
}

// Place handles POST /v1/orders.
func (h *OrderHandler) Place(c echo.Context) error {
	ident, ok := identityOr401(c)
	if !ok {
		return nil
	}
	var req placeOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Barcode = strings.TrimSpace(req.Barcode)
	if req.Barcode == "" || req.Quantity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "barcode and quantity must be provided"})
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	// The book name is only needed for the event payload; read it
	// before the order transaction deletes the row on a sell-out.
	bookName := ""
	if b, err := h.Books.GetByBarcode(ctx, req.Barcode); err == nil {
		bookName = b.Name
	}

	order, err := h.Orders.Place(ctx, ident.ID, req.Barcode, req.Quantity)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "book not found"})
	case errors.Is(err, repository.ErrInsufficientStock):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "insufficient stock"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "place order failed"})
	}

	// Publish after commit; a broker outage must not fail the order.
	go func(ev queue.OrderPlacedEvent) {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pubCancel()
		if err := queue_publisher.PublishOrderPlaced(pubCtx, ev); err != nil {
			log.Printf("order %s: publish event failed: %v", ev.TransactionID, err)
		}
	}(queue.OrderPlacedEvent{
		OrderID:       order.OrderID,
		UserID:        ident.ID,
		Username:      ident.Username,
		Barcode:       order.Barcode,
		BookName:      bookName,
		Quantity:      order.Quantity,
		TotalAmount:   order.TotalAmount,
		TransactionID: order.TransactionID,
		PlacedAt:      order.OrderDate.Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"message":        "order placed successfully",
		"transaction_id": order.TransactionID,
		"total_amount":   order.TotalAmount,
	})
}

// List handles GET /v1/orders. Regular users see their own orders;
// admins see all orders or a single user's via ?username=.
func (h *OrderHandler) List(c echo.Context) error {
	ident, ok := identityOr401(c)
	if !ok {
		return nil
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	var (
		orders []model.Order
		err    error
	)
	switch {
	case ident.Role.IsAdmin() && c.QueryParam("username") != "":
		u, uerr := h.Users.GetByUsername(ctx, c.QueryParam("username"))
		if uerr != nil {
			if errors.Is(uerr, repository.ErrNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		orders, err = h.Orders.ListByUser(ctx, u.ID)
	case ident.Role.IsAdmin():
		orders, err = h.Orders.ListAll(ctx)
	default:
		orders, err = h.Orders.ListByUser(ctx, ident.ID)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}

// Cancel handles PUT /v1/orders/:transaction_id/cancel. Only the
// purchaser may cancel, and only while the order is still placed.
func (h *OrderHandler) Cancel(c echo.Context) error {
	ident, ok := identityOr401(c)
	if !ok {
		return nil
	}
	txnID := strings.TrimSpace(c.Param("transaction_id"))
	if txnID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid transaction id"})
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	err := h.Orders.Cancel(ctx, ident.ID, txnID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
	case errors.Is(err, repository.ErrInvalidStatus):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "order cannot be canceled"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel order failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "order canceled successfully"})
}

// UpdateStatus handles PUT /v1/orders/:transaction_id/status. Route
// registration restricts it to admins; the status value is checked
// against the allowed fulfilment states.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	txnID := strings.TrimSpace(c.Param("transaction_id"))
	if txnID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid transaction id"})
	}
	var req orderStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Status != model.StatusInTransit && req.Status != model.StatusDelivered {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status: " + req.Status})
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Orders.UpdateStatus(ctx, txnID, req.Status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update status failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "order status updated to '" + req.Status + "'"})
}
