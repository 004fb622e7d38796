package model

// Book mirrors a row of the `books` table. The barcode acts as the
// catalog key; AddedBy stores the username of the account that listed
// the book and drives the owner check on mutations.
type Book struct {
	Barcode  string  `json:"barcode"`
	Name     string  `json:"name"`
	Author   string  `json:"author"`
	Price    float64 `json:"price"`
	Quantity uint32  `json:"quantity"`
	AddedBy  string  `json:"added_by"`
}
