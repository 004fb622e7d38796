package repository

import (
	"context"
	"database/sql"
)

type CartRepo struct{ DB *sql.DB }

func NewCartRepo(db *sql.DB) *CartRepo { return &CartRepo{DB: db} }

// Add inserts a cart row, or bumps the quantity when the book is
// already in the cart.
func (r *CartRepo) Add(ctx context.Context, userID uint64, barcode string, quantity uint32) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO cart (user_id, barcode, quantity) VALUES (?,?,?) ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity)",
		userID, barcode, quantity)
	return err
}

// SetQuantity replaces the quantity of an existing cart item.
// Returns ErrNotFound when the item is not in the cart.
func (r *CartRepo) SetQuantity(ctx context.Context, userID uint64, barcode string, quantity uint32) error {
	var current uint32
	err := r.DB.QueryRowContext(ctx,
		"SELECT quantity FROM cart WHERE user_id=? AND barcode=?",
		userID, barcode).Scan(&current)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		"UPDATE cart SET quantity=? WHERE user_id=? AND barcode=?",
		quantity, userID, barcode)
	return err
}

// Remove deletes a cart item. Returns ErrNotFound when the item was
// not present.
func (r *CartRepo) Remove(ctx context.Context, userID uint64, barcode string) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM cart WHERE user_id=? AND barcode=?", userID, barcode)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CartLine is a cart item joined with its book for display: title,
// unit price and the line total.
type CartLine struct {
	Barcode    string  `json:"barcode"`
	Title      string  `json:"title"`
	Quantity   uint32  `json:"quantity"`
	Price      float64 `json:"price"`
	TotalPrice float64 `json:"total_price"`
}

// View returns the user's cart joined with book details.
func (r *CartRepo) View(ctx context.Context, userID uint64) ([]CartLine, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT c.barcode, b.name, c.quantity, b.price
		FROM cart c
		JOIN books b ON b.barcode = c.barcode
		WHERE c.user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []CartLine{}
	for rows.Next() {
		var l CartLine
		if err := rows.Scan(&l.Barcode, &l.Title, &l.Quantity, &l.Price); err != nil {
			return nil, err
		}
		l.TotalPrice = l.Price * float64(l.Quantity)
		out = append(out, l)
	}
	return out, rows.Err()
}
