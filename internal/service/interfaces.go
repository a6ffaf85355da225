package service

import (
	"context"

	"quote-service/internal/models"
)

// Catalog is the slice of the product store the quote services read and write.
type Catalog interface {
	GetQuotableFlag(ctx context.Context, productID int64) (bool, error)
	SetQuotableFlag(ctx context.Context, productID int64, quotable bool) error
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	GetProductsByIDs(ctx context.Context, ids []int64) ([]models.Product, error)
}

// BulkCatalog is the paging contract used by the bulk updater.
type BulkCatalog interface {
	CountProducts(ctx context.Context) (int, error)
	ListProductIDs(ctx context.Context, limit, offset int) ([]int64, error)
	SetQuotableFlags(ctx context.Context, productIDs []int64, quotable bool) error
}

// Orders is the slice of the order store the quote lifecycle mutates. All
// quote status writes go through the state machine; nothing else touches the
// field.
type Orders interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	CreateOrderItem(ctx context.Context, item *models.OrderItem) error
	GetOrderItemsByOrderID(ctx context.Context, orderID int64) ([]models.OrderItem, error)
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	GetQuoteStatus(ctx context.Context, orderID int64) (models.QuoteStatus, error)
	SetQuoteStatus(ctx context.Context, orderID int64, status models.QuoteStatus) error
	UpdateOrderTotal(ctx context.Context, orderID int64, totalAmount int64) error
	AddOrderNote(ctx context.Context, orderID int64, note string) error
	GetOrderNotes(ctx context.Context, orderID int64) ([]models.OrderNote, error)
	GetOrdersByUserID(ctx context.Context, userID int64) ([]models.Order, error)
}

// CheckoutSession is the per-session cart owned by the storefront.
type CheckoutSession interface {
	GetCartLines(ctx context.Context, sessionID string) ([]models.CartLine, error)
	AddCartLine(ctx context.Context, sessionID string, productID int64, qty int) error
	EmptyCart(ctx context.Context, sessionID string) error
	GetChosenGateway(ctx context.Context, sessionID string) (string, error)
	SetChosenGateway(ctx context.Context, sessionID, gateway string) error
}

// QuoteDispatcher delivers (or queues) the quote email for an order. It runs
// its own eligibility filter and reports whether anything was dispatched.
type QuoteDispatcher interface {
	DispatchQuoteEmail(ctx context.Context, orderID int64) (bool, error)
}

// EventPublisher publishes quote lifecycle events. Publish failures never fail
// the surrounding operation; callers log and move on.
type EventPublisher interface {
	PublishQuoteRequested(ctx context.Context, event *models.QuoteRequestedEvent) error
	PublishQuotePriced(ctx context.Context, event *models.QuotePricedEvent) error
	PublishQuoteSent(ctx context.Context, event *models.QuoteSentEvent) error
	PublishQuoteCancelled(ctx context.Context, event *models.QuoteCancelledEvent) error
}

// GlobalSettings stores the store-wide quote flag.
type GlobalSettings interface {
	GetGlobalQuoteSetting(ctx context.Context) (bool, error)
	SetGlobalQuoteSetting(ctx context.Context, enabled bool) error
}
