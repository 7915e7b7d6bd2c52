package domain

import "time"

// Order statuses as persisted in the orders table.
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Accepted payment method tags.
const (
	PaymentCOD  = "cod"
	PaymentUPI  = "upi"
	PaymentCard = "card"
)

// ValidPaymentMethod reports whether m is one of the accepted tags.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCOD, PaymentUPI, PaymentCard:
		return true
	}
	return false
}

// ShippingAddress is the address captured at checkout time. It is embedded in
// the order row and never changes after submission.
type ShippingAddress struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	Pincode   string `json:"pincode"`
	Country   string `json:"country"`
}

// Order is an immutable record of a completed checkout; only Status and
// TrackingNumber progress afterwards, through the back office.
type Order struct {
	ID                string          `json:"id"`
	OrderNumber       string          `json:"orderNumber"`
	UserID            string          `json:"userId"`
	Status            string          `json:"status"`
	Subtotal          int64           `json:"subtotal"`
	Tax               int64           `json:"tax"`
	Shipping          int64           `json:"shipping"`
	Total             int64           `json:"total"`
	ShippingAddress   ShippingAddress `json:"shippingAddress"`
	PaymentMethod     string          `json:"paymentMethod"`
	TrackingNumber    *string         `json:"trackingNumber,omitempty"`
	EstimatedDelivery time.Time       `json:"estimatedDelivery"`
	Items             []OrderItem     `json:"items,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// OrderItem is a line copied from the cart at submission time. It carries the
// product name, image and price as they were when the order was placed.
type OrderItem struct {
	ID            string  `json:"id"`
	OrderID       string  `json:"orderId"`
	ProductID     string  `json:"productId"`
	ProductName   string  `json:"productName"`
	ProductImage  string  `json:"productImage"`
	Price         int64   `json:"price"`
	Quantity      int     `json:"quantity"`
	SelectedColor *string `json:"selectedColor,omitempty"`
	SelectedSize  *string `json:"selectedSize,omitempty"`
}
