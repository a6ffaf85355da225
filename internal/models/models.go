package models

import "time"

// Product represents a product in the catalog. Quotable products hide their
// price and route checkout through the quote gateway.
type Product struct {
	ID        int64     `db:"id" json:"id"`
	SKU       string    `db:"sku" json:"sku"`
	Name      string    `db:"name" json:"name"`
	Price     int64     `db:"price" json:"price"`
	Quotable  bool      `db:"quotable" json:"quotable"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CartLine is one entry in a checkout session cart. Carts live in the session
// store only and are never persisted past checkout.
type CartLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// CartClass is the homogeneity classification of a cart.
type CartClass string

const (
	CartEmpty       CartClass = "EMPTY"
	CartQuotable    CartClass = "QUOTABLE"
	CartNonQuotable CartClass = "NON_QUOTABLE"
)

// QuoteStatus is the per-order quote lifecycle value.
type QuoteStatus string

const (
	// QuoteStatusNone marks orders placed through a regular gateway. They are
	// permanently outside the quote state machine.
	QuoteStatusNone      QuoteStatus = "NONE"
	QuoteStatusPending   QuoteStatus = "PENDING"
	QuoteStatusComplete  QuoteStatus = "COMPLETE"
	QuoteStatusSent      QuoteStatus = "SENT"
	QuoteStatusCancelled QuoteStatus = "CANCELLED"
)

// Order represents a customer order.
type Order struct {
	ID            int64       `db:"id" json:"id"`
	UserID        int64       `db:"user_id" json:"user_id"`
	TotalAmount   int64       `db:"total_amount" json:"total_amount"`
	PaymentMethod string      `db:"payment_method" json:"payment_method"`
	QuoteStatus   QuoteStatus `db:"quote_status" json:"quote_status"`
	BillingEmail  string      `db:"billing_email" json:"billing_email"`
	Status        string      `db:"status" json:"status"`
	CreatedAt     time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updated_at"`
}

// OrderItem represents items in an order.
type OrderItem struct {
	ID        int64 `db:"id" json:"id"`
	OrderID   int64 `db:"order_id" json:"order_id"`
	ProductID int64 `db:"product_id" json:"product_id"`
	Quantity  int   `db:"quantity" json:"quantity"`
	UnitPrice int64 `db:"unit_price" json:"unit_price"`
}

// OrderNote is an admin-visible annotation on an order.
type OrderNote struct {
	ID        int64     `db:"id" json:"id"`
	OrderID   int64     `db:"order_id" json:"order_id"`
	Note      string    `db:"note" json:"note"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Fulfillment statuses owned by the surrounding shop. Only "pending" matters
// to the quote machine: it gates cancellation.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// ProcessedEvent for consumer idempotency
type ProcessedEvent struct {
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	ProcessedAt time.Time `db:"processed_at"`
}
