// Package queue defines message payloads exchanged over the message broker.
package queue

// OrderPlacedEvent is published when an order commits successfully.
// It contains enough information for downstream consumers to log,
// notify, or trigger analytics without querying the primary database.
type OrderPlacedEvent struct {
	OrderID       uint64  `json:"order_id"`
	UserID        uint64  `json:"user_id"`
	Username      string  `json:"username"`
	Barcode       string  `json:"barcode"`
	BookName      string  `json:"book_name"`
	Quantity      uint32  `json:"quantity"`
	TotalAmount   float64 `json:"total_amount"`
	TransactionID string  `json:"transaction_id"`
	PlacedAt      string  `json:"placed_at"`
}
