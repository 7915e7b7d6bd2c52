package domain

// CartLine is one (product, variant, quantity) entry in a cart. Lines are
// keyed by (ProductID, SelectedColor, SelectedSize): the same product with a
// different variant selection is a distinct line.
type CartLine struct {
	ProductID     string  `json:"productId"`
	ProductName   string  `json:"productName"`
	ProductImage  string  `json:"productImage"`
	Price         int64   `json:"price"`
	Quantity      int     `json:"quantity"`
	SelectedColor *string `json:"selectedColor,omitempty"`
	SelectedSize  *string `json:"selectedSize,omitempty"`
}

// CartSnapshot is the cart state exposed after every mutation. Total and
// ItemCount are always recomputed from Lines before a snapshot leaves the
// ledger.
type CartSnapshot struct {
	Lines     []CartLine `json:"lines"`
	Total     int64      `json:"total"`
	ItemCount int        `json:"itemCount"`
}
