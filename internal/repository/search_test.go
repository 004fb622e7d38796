package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/online-bookstore/internal/model"
)

func TestSearchBuildPlainTable(t *testing.T) {
	stmt, args, err := SearchQuery{Table: "books"}.Build()
	require.NoError(t, err)
	assert.Equal(t, "SELECT barcode, name, author, price, quantity, added_by FROM books", stmt)
	assert.Empty(t, args)
}

func TestSearchBuildKeywords(t *testing.T) {
	q := SearchQuery{
		Table:    "books",
		Keywords: []string{"author:tolkien", "name:ring"},
	}
	stmt, args, err := q.Build()
	require.NoError(t, err)
	assert.Contains(t, stmt, "WHERE author LIKE ? AND name LIKE ?")
	assert.Equal(t, []any{"%tolkien%", "%ring%"}, args)
}

func TestSearchBuildOrderBy(t *testing.T) {
	q := SearchQuery{Table: "books", OrderBy: "price", Descending: true}
	stmt, _, err := q.Build()
	require.NoError(t, err)
	assert.Contains(t, stmt, "ORDER BY price DESC")

	q.Descending = false
	stmt, _, err = q.Build()
	require.NoError(t, err)
	assert.Contains(t, stmt, "ORDER BY price ASC")
}

func TestSearchBuildRejectsBadInput(t *testing.T) {
	cases := []SearchQuery{
		{Table: "sessions"},                                      // unknown table
		{Table: "books", Keywords: []string{"tolkien"}},          // no field:value shape
		{Table: "books", Keywords: []string{":x"}},               // empty field
		{Table: "books", Keywords: []string{"publisher:x"}},      // field not whitelisted
		{Table: "orders", Keywords: []string{"password_hash:x"}}, // field from another table
		{Table: "books", OrderBy: "rating"},                      // order column not whitelisted
		{Table: "books", OrderBy: "price; DROP TABLE books"},     // injection attempt in identifier
	}
	for _, q := range cases {
		_, _, err := q.Build()
		assert.ErrorIs(t, err, ErrBadKeyword, "query=%+v", q)
	}
}

func TestSearchBuildValueNeverInStatement(t *testing.T) {
	q := SearchQuery{Table: "books", Keywords: []string{"name:' OR 1=1 --"}}
	stmt, args, err := q.Build()
	require.NoError(t, err)
	assert.NotContains(t, stmt, "OR 1=1")
	assert.Equal(t, []any{"%' OR 1=1 --%"}, args)
}

func TestSearchUsersProjectionOmitsPassword(t *testing.T) {
	stmt, _, err := SearchQuery{Table: "users"}.Build()
	require.NoError(t, err)
	assert.NotContains(t, stmt, "password_hash")
	assert.Contains(t, stmt, "username")
}

func TestSearchAuthorize(t *testing.T) {
	books := SearchQuery{Table: "books"}
	assert.NoError(t, books.Authorize(model.RoleUser))
	assert.NoError(t, books.Authorize(model.RoleSeller))

	users := SearchQuery{Table: "users"}
	assert.NoError(t, users.Authorize(model.RoleAdmin))
	assert.ErrorIs(t, users.Authorize(model.RoleSeller), ErrForbidden)
	assert.ErrorIs(t, users.Authorize(model.RoleUser), ErrForbidden)

	assert.ErrorIs(t, SearchQuery{Table: "nope"}.Authorize(model.RoleAdmin), ErrBadKeyword)
}
