package store

import (
	"context"
	"database/sql"
	"fmt"

	"quote-service/internal/models"
)

// CreateOrder creates a new order
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (user_id, total_amount, payment_method, quote_status, billing_email, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	return s.db.GetContext(ctx, order, query,
		order.UserID, order.TotalAmount, order.PaymentMethod,
		order.QuoteStatus, order.BillingEmail, order.Status)
}

// GetOrderByID retrieves an order by ID
func (s *Store) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetQuoteStatus retrieves the quote status for an order
func (s *Store) GetQuoteStatus(ctx context.Context, orderID int64) (models.QuoteStatus, error) {
	var status models.QuoteStatus
	err := s.db.GetContext(ctx, &status,
		"SELECT quote_status FROM orders WHERE id = $1", orderID)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("order %d: %w", orderID, models.ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	return status, nil
}

// SetQuoteStatus updates the quote status for an order
func (s *Store) SetQuoteStatus(ctx context.Context, orderID int64, status models.QuoteStatus) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE orders SET quote_status = $1, updated_at = NOW() WHERE id = $2",
		status, orderID)
	return err
}

// UpdateOrderStatus updates the fulfillment status
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID int64, status string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2",
		status, orderID)
	return err
}

// UpdateOrderTotal sets the admin-priced total for a quote order
func (s *Store) UpdateOrderTotal(ctx context.Context, orderID int64, totalAmount int64) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE orders SET total_amount = $1, updated_at = NOW() WHERE id = $2",
		totalAmount, orderID)
	return err
}

// GetOrdersByUserID retrieves orders for a user
func (s *Store) GetOrdersByUserID(ctx context.Context, userID int64) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE user_id = $1 ORDER BY created_at DESC", userID)
	return orders, err
}

// CreateOrderItem creates a new order item
func (s *Store) CreateOrderItem(ctx context.Context, item *models.OrderItem) error {
	query := `
		INSERT INTO order_items (order_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	return s.db.GetContext(ctx, &item.ID, query,
		item.OrderID, item.ProductID, item.Quantity, item.UnitPrice)
}

// GetOrderItemsByOrderID retrieves all items for an order
func (s *Store) GetOrderItemsByOrderID(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM order_items WHERE order_id = $1", orderID)
	return items, err
}

// AddOrderNote appends an admin note to an order
func (s *Store) AddOrderNote(ctx context.Context, orderID int64, note string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO order_notes (order_id, note) VALUES ($1, $2)", orderID, note)
	return err
}

// GetOrderNotes retrieves notes for an order, newest first
func (s *Store) GetOrderNotes(ctx context.Context, orderID int64) ([]models.OrderNote, error) {
	var notes []models.OrderNote
	err := s.db.SelectContext(ctx, &notes,
		"SELECT * FROM order_notes WHERE order_id = $1 ORDER BY created_at DESC", orderID)
	return notes, err
}

// IsEventProcessed checks if an event has been processed
func (s *Store) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM processed_events WHERE event_id = $1)", eventID)
	return exists, err
}

// MarkEventProcessed marks an event as processed
func (s *Store) MarkEventProcessed(ctx context.Context, eventID, eventType string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO processed_events (event_id, event_type) VALUES ($1, $2) ON CONFLICT (event_id) DO NOTHING",
		eventID, eventType)
	return err
}
