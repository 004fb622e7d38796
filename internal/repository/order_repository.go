package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/online-bookstore/internal/model"
)

type OrderRepo struct{ DB *sql.DB }

func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{DB: db} }

// Place runs the whole order flow in one transaction: lock the book
// row, check stock, insert the order, then decrement the quantity or
// delete the row when it hits zero. The row lock (SELECT ... FOR
// UPDATE) serializes concurrent orders against the same barcode, so
// two orders can never both pass the stock check on the last copies.
// Returns the stored order on success.
func (r *OrderRepo) Place(ctx context.Context, userID uint64, barcode string, quantity uint32) (model.Order, error) {
	if quantity == 0 {
		return model.Order{}, ErrInsufficientStock
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Order{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var (
		price     float64
		available uint32
	)
	err = tx.QueryRowContext(ctx,
		"SELECT price, quantity FROM books WHERE barcode=? FOR UPDATE",
		barcode).Scan(&price, &available)
	if err == sql.ErrNoRows {
		return model.Order{}, ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	if available < quantity {
		return model.Order{}, ErrInsufficientStock
	}

	order := model.Order{
		UserID:        userID,
		Barcode:       barcode,
		OrderDate:     time.Now().UTC(),
		TransactionID: uuid.NewString(),
		TotalAmount:   price * float64(quantity),
		Status:        model.StatusPlaced,
		Quantity:      quantity,
	}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO orders (user_id, barcode, order_date, transaction_id, total_amount, status, quantity) VALUES (?,?,?,?,?,?,?)",
		order.UserID, order.Barcode, order.OrderDate, order.TransactionID,
		order.TotalAmount, order.Status, order.Quantity)
	if err != nil {
		return model.Order{}, err
	}
	if id, err := res.LastInsertId(); err == nil {
		order.OrderID = uint64(id)
	}

	remaining := available - quantity
	if remaining > 0 {
		_, err = tx.ExecContext(ctx,
			"UPDATE books SET quantity=? WHERE barcode=?", remaining, barcode)
	} else {
		// sold out: the catalog row disappears, matching listing behavior
		_, err = tx.ExecContext(ctx,
			"DELETE FROM books WHERE barcode=?", barcode)
	}
	if err != nil {
		return model.Order{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Order{}, err
	}
	committed = true
	return order, nil
}

// ListByUser returns the orders belonging to one user, newest first.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Order, error) {
	return r.list(ctx,
		"SELECT order_id,user_id,barcode,order_date,transaction_id,total_amount,status,quantity FROM orders WHERE user_id=? ORDER BY order_date DESC",
		userID)
}

// ListAll returns every order, newest first. Admin-only at the
// handler layer.
func (r *OrderRepo) ListAll(ctx context.Context) ([]model.Order, error) {
	return r.list(ctx,
		"SELECT order_id,user_id,barcode,order_date,transaction_id,total_amount,status,quantity FROM orders ORDER BY order_date DESC")
}

func (r *OrderRepo) list(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Order{}
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.OrderID, &o.UserID, &o.Barcode, &o.OrderDate,
			&o.TransactionID, &o.TotalAmount, &o.Status, &o.Quantity); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Cancel moves the caller's order from "Order Placed" to "Order
// Canceled". The status check and the update run in one transaction
// so a concurrent admin status change cannot be overwritten.
func (r *OrderRepo) Cancel(ctx context.Context, userID uint64, transactionID string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var status string
	err = tx.QueryRowContext(ctx,
		"SELECT status FROM orders WHERE transaction_id=? AND user_id=? FOR UPDATE",
		transactionID, userID).Scan(&status)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if status != model.StatusPlaced {
		return ErrInvalidStatus
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE orders SET status=? WHERE transaction_id=?",
		model.StatusCanceled, transactionID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// UpdateStatus sets an order's status. The caller (admin handler) has
// already validated the status value against the allowed transitions.
func (r *OrderRepo) UpdateStatus(ctx context.Context, transactionID, status string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE orders SET status=? WHERE transaction_id=?", status, transactionID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists int
		if err := r.DB.QueryRowContext(ctx,
			"SELECT 1 FROM orders WHERE transaction_id=? LIMIT 1",
			transactionID).Scan(&exists); err == sql.ErrNoRows {
			return ErrNotFound
		} else if err != nil {
			return err
		}
	}
	return nil
}

// OrderHistoryRow is an order joined with its book name and, for
// admin views, the purchasing username.
type OrderHistoryRow struct {
	OrderID       uint64    `json:"order_id"`
	OrderDate     time.Time `json:"order_date"`
	TransactionID string    `json:"transaction_id"`
	TotalAmount   float64   `json:"total_amount"`
	Status        string    `json:"status"`
	Quantity      uint32    `json:"quantity"`
	BookName      string    `json:"book_name"`
	OrderedBy     string    `json:"ordered_by,omitempty"`
}

// HistoryForUser returns a user's orders joined with book names for
// the profile page.
func (r *OrderRepo) HistoryForUser(ctx context.Context, userID uint64) ([]OrderHistoryRow, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT o.order_id, o.order_date, o.transaction_id, o.total_amount,
		       o.status, o.quantity, COALESCE(b.name, '')
		FROM orders o
		LEFT JOIN books b ON b.barcode = o.barcode
		WHERE o.user_id = ?
		ORDER BY o.order_date DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []OrderHistoryRow{}
	for rows.Next() {
		var h OrderHistoryRow
		if err := rows.Scan(&h.OrderID, &h.OrderDate, &h.TransactionID,
			&h.TotalAmount, &h.Status, &h.Quantity, &h.BookName); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// HistoryAll returns every order with book name and purchaser, for
// the admin profile view.
func (r *OrderRepo) HistoryAll(ctx context.Context) ([]OrderHistoryRow, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT o.order_id, o.order_date, o.transaction_id, o.total_amount,
		       o.status, o.quantity, COALESCE(b.name, ''), u.username
		FROM orders o
		LEFT JOIN books b ON b.barcode = o.barcode
		JOIN users u ON u.id = o.user_id
		ORDER BY o.order_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []OrderHistoryRow{}
	for rows.Next() {
		var h OrderHistoryRow
		if err := rows.Scan(&h.OrderID, &h.OrderDate, &h.TransactionID,
			&h.TotalAmount, &h.Status, &h.Quantity, &h.BookName, &h.OrderedBy); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
