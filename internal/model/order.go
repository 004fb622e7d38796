package model

import "time"

// Order status values as stored in orders.status. An order starts as
// StatusPlaced; the owner may move it to StatusCanceled while still
// placed, and an admin advances it through the fulfilment states.
const (
	StatusPlaced    = "Order Placed"
	StatusCanceled  = "Order Canceled"
	StatusInTransit = "In Transit"
	StatusDelivered = "Order Delivered"
)

// Order mirrors a row of the `orders` table.
type Order struct {
	OrderID       uint64    `json:"order_id"`
	UserID        uint64    `json:"user_id"`
	Barcode       string    `json:"barcode"`
	OrderDate     time.Time `json:"order_date"`
	TransactionID string    `json:"transaction_id"`
	TotalAmount   float64   `json:"total_amount"`
	Status        string    `json:"status"`
	Quantity      uint32    `json:"quantity"`
}
