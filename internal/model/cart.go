package model

// CartItem mirrors a row of the `cart` table. A user has at most one
// row per barcode; quantity changes update the row in place.
type CartItem struct {
	UserID   uint64 `json:"user_id"`
	Barcode  string `json:"barcode"`
	Quantity uint32 `json:"quantity"`
}
