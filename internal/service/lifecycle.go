package service

import (
	"context"
	"fmt"
	"time"

	"quote-service/internal/models"
	"quote-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// QuoteStateMachine owns the per-order quote status and its legal transitions.
// Orders placed through a regular gateway are NONE and never enter the
// machine. All other writes to the status field go through these operations.
//
//	PENDING --MarkPriced--> COMPLETE --Send--> SENT --Resend--> SENT
//	any ----Cancel (fulfillment still "pending")----> CANCELLED
type QuoteStateMachine struct {
	orders         Orders
	publisher      EventPublisher
	quoteGatewayID string
	logger         *zap.Logger
}

// NewQuoteStateMachine creates a new quote state machine
func NewQuoteStateMachine(orders Orders, publisher EventPublisher, quoteGatewayID string) *QuoteStateMachine {
	return &QuoteStateMachine{
		orders:         orders,
		publisher:      publisher,
		quoteGatewayID: quoteGatewayID,
		logger:         util.GetLogger(),
	}
}

// InitialStatus returns the quote status an order is born with. Set exactly
// once, at placement.
func (m *QuoteStateMachine) InitialStatus(chosenGateway string) models.QuoteStatus {
	if chosenGateway == m.quoteGatewayID {
		return models.QuoteStatusPending
	}
	return models.QuoteStatusNone
}

// illegal records and reports an operation invoked from a disallowed state.
// The UI is expected to hide the action in those states, so this is a guard,
// not a primary path.
func (m *QuoteStateMachine) illegal(operation string, orderID int64, from models.QuoteStatus) error {
	util.IllegalTransitionsTotal.WithLabelValues(operation).Inc()
	m.logger.Info("Quote transition rejected",
		zap.String("operation", operation),
		zap.Int64("order_id", orderID),
		zap.String("quote_status", string(from)))
	return fmt.Errorf("%s from %s: %w", operation, from, models.ErrIllegalTransition)
}

// MarkPriced records the admin-set total and moves PENDING to COMPLETE.
func (m *QuoteStateMachine) MarkPriced(ctx context.Context, orderID int64, totalAmount int64) error {
	ctx, span := util.StartSpan(ctx, "QuoteStateMachine.MarkPriced")
	defer span.End()

	status, err := m.orders.GetQuoteStatus(ctx, orderID)
	if err != nil {
		return err
	}
	if status != models.QuoteStatusPending {
		return m.illegal("mark_priced", orderID, status)
	}

	if err := m.orders.UpdateOrderTotal(ctx, orderID, totalAmount); err != nil {
		return fmt.Errorf("failed to save quote total: %w", err)
	}
	if err := m.orders.SetQuoteStatus(ctx, orderID, models.QuoteStatusComplete); err != nil {
		return fmt.Errorf("failed to update quote status: %w", err)
	}

	if err := m.orders.AddOrderNote(ctx, orderID, "Quote complete."); err != nil {
		m.logger.Error("Failed to add order note", zap.Error(err))
	}

	util.QuotesPricedTotal.Inc()
	m.logger.Info("Quote priced",
		zap.Int64("order_id", orderID),
		zap.Int64("total_amount", totalAmount))

	event := &models.QuotePricedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeQuotePriced,
			Timestamp: time.Now(),
		},
		OrderID:     orderID,
		TotalAmount: totalAmount,
	}
	if err := m.publisher.PublishQuotePriced(ctx, event); err != nil {
		m.logger.Error("Failed to publish QuotePriced event", zap.Error(err))
	}

	return nil
}

// MarkSent moves COMPLETE or SENT to SENT. Invoked by the notification
// coordinator only, after dispatch has been attempted.
func (m *QuoteStateMachine) MarkSent(ctx context.Context, orderID int64) error {
	status, err := m.orders.GetQuoteStatus(ctx, orderID)
	if err != nil {
		return err
	}
	if status != models.QuoteStatusComplete && status != models.QuoteStatusSent {
		return m.illegal("mark_sent", orderID, status)
	}

	if err := m.orders.SetQuoteStatus(ctx, orderID, models.QuoteStatusSent); err != nil {
		return fmt.Errorf("failed to update quote status: %w", err)
	}
	return nil
}

// Cancel moves a quote order to CANCELLED while the shop still holds it in
// fulfillment status "pending".
func (m *QuoteStateMachine) Cancel(ctx context.Context, orderID int64, reason string) error {
	ctx, span := util.StartSpan(ctx, "QuoteStateMachine.Cancel")
	defer span.End()

	order, err := m.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.QuoteStatus == models.QuoteStatusNone {
		return m.illegal("cancel", orderID, order.QuoteStatus)
	}
	if order.Status != models.OrderStatusPending {
		return m.illegal("cancel", orderID, order.QuoteStatus)
	}

	if err := m.orders.SetQuoteStatus(ctx, orderID, models.QuoteStatusCancelled); err != nil {
		return fmt.Errorf("failed to update quote status: %w", err)
	}

	if err := m.orders.AddOrderNote(ctx, orderID, "Quote cancelled."); err != nil {
		m.logger.Error("Failed to add order note", zap.Error(err))
	}

	util.QuotesCancelledTotal.Inc()
	m.logger.Info("Quote cancelled",
		zap.Int64("order_id", orderID),
		zap.String("reason", reason))

	event := &models.QuoteCancelledEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeQuoteCancelled,
			Timestamp: time.Now(),
		},
		OrderID: orderID,
		Reason:  reason,
	}
	if err := m.publisher.PublishQuoteCancelled(ctx, event); err != nil {
		m.logger.Error("Failed to publish QuoteCancelled event", zap.Error(err))
	}

	return nil
}

// PayActionAllowed reports whether the customer may be shown a "pay now"
// action. Not while the quote is unpriced, and never after cancellation.
func (m *QuoteStateMachine) PayActionAllowed(order *models.Order) bool {
	switch order.QuoteStatus {
	case models.QuoteStatusPending, models.QuoteStatusCancelled:
		return false
	}
	return true
}

// AutoCancelVetoed reports whether the shop's stock-hold auto-cancellation
// timer must leave the order alone. True for any order placed through the
// quote gateway, whatever its current quote status.
func (m *QuoteStateMachine) AutoCancelVetoed(order *models.Order) bool {
	return order.PaymentMethod == m.quoteGatewayID
}
