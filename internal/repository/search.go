package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/online-bookstore/internal/database"
	"github.com/iliyamo/online-bookstore/internal/model"
)

// SearchRepo runs the generic record search. Statements here are
// assembled dynamically, so they go through the Executor rather than
// hand-written scans. Every identifier that ends up in the SQL text
// (table, filter fields, order column) is validated against the
// whitelists below; only values are bound as parameters.
type SearchRepo struct {
	Exec *database.Executor
}

func NewSearchRepo(exec *database.Executor) *SearchRepo { return &SearchRepo{Exec: exec} }

// ErrBadKeyword reports a malformed or non-whitelisted search filter.
var ErrBadKeyword = errors.New("invalid search keyword")

// searchTables maps each searchable table to its projected columns.
// The users projection deliberately omits password_hash so admin
// searches can never return credential material.
var searchTables = map[string][]string{
	"books":  {"barcode", "name", "author", "price", "quantity", "added_by"},
	"orders": {"order_id", "user_id", "barcode", "order_date", "transaction_id", "total_amount", "status", "quantity"},
	"users":  {"id", "username", "firstname", "lastname", "address", "phone", "mailid", "usertype"},
}

// adminOnlyTables lists tables only admins may search.
var adminOnlyTables = map[string]bool{"users": true}

// SearchQuery describes one search request after HTTP decoding.
// Keywords are "field:value" pairs matched with LIKE; OrderBy and
// Descending control the optional sort.
type SearchQuery struct {
	Table      string
	Keywords   []string
	OrderBy    string
	Descending bool
}

// Authorize checks that the identity's role may search q.Table.
func (q SearchQuery) Authorize(role model.Role) error {
	if _, ok := searchTables[q.Table]; !ok {
		return fmt.Errorf("%w: unknown table %q", ErrBadKeyword, q.Table)
	}
	if adminOnlyTables[q.Table] && !role.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// Build assembles the parameterized statement for q. Exported
// separately from Run so the statement construction is testable
// without a database.
func (q SearchQuery) Build() (string, []any, error) {
	cols, ok := searchTables[q.Table]
	if !ok {
		return "", nil, fmt.Errorf("%w: unknown table %q", ErrBadKeyword, q.Table)
	}
	allowed := make(map[string]bool, len(cols))
	for _, c := range cols {
		allowed[c] = true
	}

	var (
		where []string
		args  []any
	)
	for _, kw := range q.Keywords {
		field, value, found := strings.Cut(kw, ":")
		field = strings.TrimSpace(field)
		if !found || field == "" {
			return "", nil, fmt.Errorf("%w: %q is not field:value", ErrBadKeyword, kw)
		}
		if !allowed[field] {
			return "", nil, fmt.Errorf("%w: field %q not searchable in %s", ErrBadKeyword, field, q.Table)
		}
		where = append(where, field+" LIKE ?")
		args = append(args, "%"+value+"%")
	}

	stmt := "SELECT " + strings.Join(cols, ", ") + " FROM " + q.Table
	if len(where) > 0 {
		stmt += " WHERE " + strings.Join(where, " AND ")
	}
	if q.OrderBy != "" {
		if !allowed[q.OrderBy] {
			return "", nil, fmt.Errorf("%w: cannot order %s by %q", ErrBadKeyword, q.Table, q.OrderBy)
		}
		dir := "ASC"
		if q.Descending {
			dir = "DESC"
		}
		stmt += " ORDER BY " + q.OrderBy + " " + dir
	}
	return stmt, args, nil
}

// Run executes the search and returns each row as a column-name map.
func (r *SearchRepo) Run(ctx context.Context, q SearchQuery) ([]map[string]any, error) {
	stmt, args, err := q.Build()
	if err != nil {
		return nil, err
	}
	res, err := r.Exec.Exec(ctx, database.StatementRead, stmt, args...)
	if err != nil {
		return nil, err
	}
	return res.MapRows()
}
