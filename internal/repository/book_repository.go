package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/online-bookstore/internal/model"
)

type BookRepo struct{ DB *sql.DB }

func NewBookRepo(db *sql.DB) *BookRepo { return &BookRepo{DB: db} }

// ListAll returns the whole catalog ordered by name.
func (r *BookRepo) ListAll(ctx context.Context) ([]model.Book, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT barcode,name,author,price,quantity,added_by FROM books ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Book{}
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(&b.Barcode, &b.Name, &b.Author, &b.Price, &b.Quantity, &b.AddedBy); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// GetByBarcode fetches a single catalog row.
func (r *BookRepo) GetByBarcode(ctx context.Context, barcode string) (model.Book, error) {
	var b model.Book
	err := r.DB.QueryRowContext(ctx,
		"SELECT barcode,name,author,price,quantity,added_by FROM books WHERE barcode=? LIMIT 1",
		barcode).Scan(&b.Barcode, &b.Name, &b.Author, &b.Price, &b.Quantity, &b.AddedBy)
	if err == sql.ErrNoRows {
		return model.Book{}, ErrNotFound
	}
	return b, err
}

// Create inserts a new catalog row. AddedBy must already be set to
// the caller's username; it drives later ownership checks.
func (r *BookRepo) Create(ctx context.Context, b model.Book) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO books (barcode, name, author, price, quantity, added_by) VALUES (?,?,?,?,?,?)",
		b.Barcode, b.Name, b.Author, b.Price, b.Quantity, b.AddedBy)
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "1062") {
		return ErrBarcodeExists
	}
	return err
}

// BookUpdate carries the optional fields of a catalog update.
type BookUpdate struct {
	Name     *string
	Price    *float64
	Quantity *uint32
}

// Update mutates a book the caller owns. The ownership rule is
// enforced here in one place: the book's added_by must match the
// identity's username unless the identity is an admin.
func (r *BookRepo) Update(ctx context.Context, ident model.Identity, barcode string, upd BookUpdate) error {
	book, err := r.GetByBarcode(ctx, barcode)
	if err != nil {
		return err
	}
	if !ident.Role.IsAdmin() && book.AddedBy != ident.Username {
		return ErrForbidden
	}
	sets := []string{}
	args := []any{}
	if upd.Name != nil {
		sets = append(sets, "name=?")
		args = append(args, *upd.Name)
	}
	if upd.Price != nil {
		sets = append(sets, "price=?")
		args = append(args, *upd.Price)
	}
	if upd.Quantity != nil {
		sets = append(sets, "quantity=?")
		args = append(args, *upd.Quantity)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, barcode)
	_, err = r.DB.ExecContext(ctx,
		"UPDATE books SET "+strings.Join(sets, ", ")+" WHERE barcode=?", args...)
	return err
}

// Delete removes a book the caller owns (or any book for admins).
func (r *BookRepo) Delete(ctx context.Context, ident model.Identity, barcode string) error {
	book, err := r.GetByBarcode(ctx, barcode)
	if err != nil {
		return err
	}
	if !ident.Role.IsAdmin() && book.AddedBy != ident.Username {
		return ErrForbidden
	}
	_, err = r.DB.ExecContext(ctx, "DELETE FROM books WHERE barcode=?", barcode)
	return err
}

// ListByOwner returns the books a user has added to the catalog.
func (r *BookRepo) ListByOwner(ctx context.Context, username string) ([]model.Book, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT barcode,name,author,price,quantity,added_by FROM books WHERE added_by=? ORDER BY name",
		username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Book{}
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(&b.Barcode, &b.Name, &b.Author, &b.Price, &b.Quantity, &b.AddedBy); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
