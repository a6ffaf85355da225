package service

import (
	"context"
	"fmt"
	"sort"

	"quote-service/internal/models"
)

// In-memory collaborators standing in for Postgres, Redis, and Kafka. They
// implement the same interfaces the real store, session, and broker do.

type fakeCatalog struct {
	products map[int64]*models.Product
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{products: make(map[int64]*models.Product)}
}

func (c *fakeCatalog) addProduct(id int64, price int64, quotable bool) {
	c.products[id] = &models.Product{
		ID:       id,
		SKU:      fmt.Sprintf("SKU-%d", id),
		Name:     fmt.Sprintf("Product %d", id),
		Price:    price,
		Quotable: quotable,
	}
}

func (c *fakeCatalog) GetQuotableFlag(ctx context.Context, productID int64) (bool, error) {
	product, ok := c.products[productID]
	if !ok {
		return false, nil
	}
	return product.Quotable, nil
}

func (c *fakeCatalog) SetQuotableFlag(ctx context.Context, productID int64, quotable bool) error {
	product, ok := c.products[productID]
	if !ok {
		return fmt.Errorf("product %d: %w", productID, models.ErrNotFound)
	}
	product.Quotable = quotable
	return nil
}

func (c *fakeCatalog) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	product, ok := c.products[id]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, models.ErrNotFound)
	}
	return product, nil
}

func (c *fakeCatalog) GetProductsByIDs(ctx context.Context, ids []int64) ([]models.Product, error) {
	products := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if product, ok := c.products[id]; ok {
			products = append(products, *product)
		}
	}
	return products, nil
}

func (c *fakeCatalog) CountProducts(ctx context.Context) (int, error) {
	return len(c.products), nil
}

func (c *fakeCatalog) sortedIDs() []int64 {
	ids := make([]int64, 0, len(c.products))
	for id := range c.products {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (c *fakeCatalog) ListProductIDs(ctx context.Context, limit, offset int) ([]int64, error) {
	ids := c.sortedIDs()
	if offset >= len(ids) {
		return nil, nil
	}
	end := offset + limit
	if end > len(ids) {
		end = len(ids)
	}
	return ids[offset:end], nil
}

func (c *fakeCatalog) SetQuotableFlags(ctx context.Context, productIDs []int64, quotable bool) error {
	for _, id := range productIDs {
		if product, ok := c.products[id]; ok {
			product.Quotable = quotable
		}
	}
	return nil
}

type fakeOrders struct {
	seq    int64
	orders map[int64]*models.Order
	items  map[int64][]models.OrderItem
	notes  map[int64][]string
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{
		orders: make(map[int64]*models.Order),
		items:  make(map[int64][]models.OrderItem),
		notes:  make(map[int64][]string),
	}
}

func (o *fakeOrders) CreateOrder(ctx context.Context, order *models.Order) error {
	o.seq++
	order.ID = o.seq
	copied := *order
	o.orders[order.ID] = &copied
	return nil
}

func (o *fakeOrders) CreateOrderItem(ctx context.Context, item *models.OrderItem) error {
	o.items[item.OrderID] = append(o.items[item.OrderID], *item)
	return nil
}

func (o *fakeOrders) GetOrderItemsByOrderID(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	return o.items[orderID], nil
}

func (o *fakeOrders) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	order, ok := o.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %d: %w", id, models.ErrNotFound)
	}
	copied := *order
	return &copied, nil
}

func (o *fakeOrders) GetQuoteStatus(ctx context.Context, orderID int64) (models.QuoteStatus, error) {
	order, ok := o.orders[orderID]
	if !ok {
		return "", fmt.Errorf("order %d: %w", orderID, models.ErrNotFound)
	}
	return order.QuoteStatus, nil
}

func (o *fakeOrders) SetQuoteStatus(ctx context.Context, orderID int64, status models.QuoteStatus) error {
	order, ok := o.orders[orderID]
	if !ok {
		return fmt.Errorf("order %d: %w", orderID, models.ErrNotFound)
	}
	order.QuoteStatus = status
	return nil
}

func (o *fakeOrders) UpdateOrderTotal(ctx context.Context, orderID int64, totalAmount int64) error {
	order, ok := o.orders[orderID]
	if !ok {
		return fmt.Errorf("order %d: %w", orderID, models.ErrNotFound)
	}
	order.TotalAmount = totalAmount
	return nil
}

func (o *fakeOrders) AddOrderNote(ctx context.Context, orderID int64, note string) error {
	o.notes[orderID] = append(o.notes[orderID], note)
	return nil
}

func (o *fakeOrders) GetOrderNotes(ctx context.Context, orderID int64) ([]models.OrderNote, error) {
	notes := make([]models.OrderNote, 0, len(o.notes[orderID]))
	for i, note := range o.notes[orderID] {
		notes = append(notes, models.OrderNote{ID: int64(i + 1), OrderID: orderID, Note: note})
	}
	return notes, nil
}

func (o *fakeOrders) GetOrdersByUserID(ctx context.Context, userID int64) ([]models.Order, error) {
	var orders []models.Order
	for _, order := range o.orders {
		if order.UserID == userID {
			orders = append(orders, *order)
		}
	}
	return orders, nil
}

// seed inserts an order directly, bypassing checkout.
func (o *fakeOrders) seed(order models.Order) int64 {
	o.seq++
	order.ID = o.seq
	o.orders[order.ID] = &order
	return order.ID
}

type fakeSession struct {
	lines   map[string][]models.CartLine
	gateway map[string]string
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		lines:   make(map[string][]models.CartLine),
		gateway: make(map[string]string),
	}
}

func (s *fakeSession) GetCartLines(ctx context.Context, sessionID string) ([]models.CartLine, error) {
	return s.lines[sessionID], nil
}

func (s *fakeSession) AddCartLine(ctx context.Context, sessionID string, productID int64, qty int) error {
	for i, line := range s.lines[sessionID] {
		if line.ProductID == productID {
			s.lines[sessionID][i].Quantity += qty
			return nil
		}
	}
	s.lines[sessionID] = append(s.lines[sessionID], models.CartLine{ProductID: productID, Quantity: qty})
	return nil
}

func (s *fakeSession) EmptyCart(ctx context.Context, sessionID string) error {
	delete(s.lines, sessionID)
	return nil
}

func (s *fakeSession) GetChosenGateway(ctx context.Context, sessionID string) (string, error) {
	return s.gateway[sessionID], nil
}

func (s *fakeSession) SetChosenGateway(ctx context.Context, sessionID, gateway string) error {
	s.gateway[sessionID] = gateway
	return nil
}

type fakeDispatcher struct {
	calls  []int64
	queued bool
	err    error
}

func (d *fakeDispatcher) DispatchQuoteEmail(ctx context.Context, orderID int64) (bool, error) {
	d.calls = append(d.calls, orderID)
	return d.queued, d.err
}

type fakePublisher struct {
	requested []*models.QuoteRequestedEvent
	priced    []*models.QuotePricedEvent
	sent      []*models.QuoteSentEvent
	cancelled []*models.QuoteCancelledEvent
}

func (p *fakePublisher) PublishQuoteRequested(ctx context.Context, event *models.QuoteRequestedEvent) error {
	p.requested = append(p.requested, event)
	return nil
}

func (p *fakePublisher) PublishQuotePriced(ctx context.Context, event *models.QuotePricedEvent) error {
	p.priced = append(p.priced, event)
	return nil
}

func (p *fakePublisher) PublishQuoteSent(ctx context.Context, event *models.QuoteSentEvent) error {
	p.sent = append(p.sent, event)
	return nil
}

func (p *fakePublisher) PublishQuoteCancelled(ctx context.Context, event *models.QuoteCancelledEvent) error {
	p.cancelled = append(p.cancelled, event)
	return nil
}

type fakeSettings struct {
	enabled bool
}

func (s *fakeSettings) GetGlobalQuoteSetting(ctx context.Context) (bool, error) {
	return s.enabled, nil
}

func (s *fakeSettings) SetGlobalQuoteSetting(ctx context.Context, enabled bool) error {
	s.enabled = enabled
	return nil
}
