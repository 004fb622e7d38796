// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to mutate a resource owned by someone else, while
// ErrInsufficientStock signals that an order asked for more copies
// than the catalog currently holds.
package repository

import "errors"

// ErrNotFound is returned when a referenced user, book, order or cart
// item does not exist. Handlers should translate this into an HTTP
// 404 response.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrUsernameExists is returned when registration hits the unique
// index on users.username. Handlers should translate this into an
// HTTP 409 response rather than a generic database error.
var ErrUsernameExists = errors.New("username already exists")

// ErrBarcodeExists is returned when a book listing reuses a barcode
// already present in the catalog.
var ErrBarcodeExists = errors.New("barcode already exists")

// ErrInsufficientStock is returned when an order requests more copies
// than remain in the catalog. The placing transaction rolls back and
// handlers answer with HTTP 400.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrInvalidStatus is returned when an order transition is not
// allowed from the order's current status, such as canceling an order
// that has already shipped.
var ErrInvalidStatus = errors.New("invalid order status")
