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

// SendQuoteAck is returned to the admin UI after a send.
type SendQuoteAck struct {
	AckID             string             `json:"ack_id"`
	OrderID           int64              `json:"order_id"`
	QuoteStatus       models.QuoteStatus `json:"quote_status"`
	Resend            bool               `json:"resend"`
	DeliveryAttempted bool               `json:"delivery_attempted"`
}

// NotificationCoordinator drives the "send quote" use case: it gates on the
// current status, attempts dispatch, then advances the machine. Resending from
// SENT is allowed and idempotent with respect to the status.
type NotificationCoordinator struct {
	orders     Orders
	machine    *QuoteStateMachine
	dispatcher QuoteDispatcher
	publisher  EventPublisher
	logger     *zap.Logger
}

// NewNotificationCoordinator creates a new notification coordinator
func NewNotificationCoordinator(
	orders Orders,
	machine *QuoteStateMachine,
	dispatcher QuoteDispatcher,
	publisher EventPublisher,
) *NotificationCoordinator {
	return &NotificationCoordinator{
		orders:     orders,
		machine:    machine,
		dispatcher: dispatcher,
		publisher:  publisher,
		logger:     util.GetLogger(),
	}
}

// SendQuote sends (or resends) the quote notification for an order.
//
// The status is advanced to SENT even when the dispatcher skipped delivery
// for lack of a recipient; the ack's DeliveryAttempted field and the skip
// counter keep that case visible. See the dispatcher for the skip rules.
func (c *NotificationCoordinator) SendQuote(ctx context.Context, orderID int64) (*SendQuoteAck, error) {
	ctx, span := util.StartSpan(ctx, "NotificationCoordinator.SendQuote")
	defer span.End()

	status, err := c.orders.GetQuoteStatus(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if status != models.QuoteStatusComplete && status != models.QuoteStatusSent {
		return nil, fmt.Errorf("order %d has quote status %s: %w",
			orderID, status, models.ErrQuoteNotReady)
	}
	resend := status == models.QuoteStatusSent

	dispatched, err := c.dispatcher.DispatchQuoteEmail(ctx, orderID)
	if err != nil {
		// Dispatch is best-effort; the transition still happens.
		c.logger.Error("Quote email dispatch failed",
			zap.Int64("order_id", orderID),
			zap.Error(err))
		dispatched = false
	}

	if err := c.machine.MarkSent(ctx, orderID); err != nil {
		return nil, err
	}

	note := "Quote emailed to customer."
	if resend {
		note = "Quote email resent to customer."
	}
	if err := c.orders.AddOrderNote(ctx, orderID, note); err != nil {
		c.logger.Error("Failed to add order note", zap.Error(err))
	}

	util.QuotesSentTotal.Inc()

	ack := &SendQuoteAck{
		AckID:             uuid.New().String(),
		OrderID:           orderID,
		QuoteStatus:       models.QuoteStatusSent,
		Resend:            resend,
		DeliveryAttempted: dispatched,
	}

	event := &models.QuoteSentEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeQuoteSent,
			Timestamp: time.Now(),
		},
		OrderID: orderID,
		AckID:   ack.AckID,
		Resend:  resend,
	}
	if err := c.publisher.PublishQuoteSent(ctx, event); err != nil {
		c.logger.Error("Failed to publish QuoteSent event", zap.Error(err))
	}

	c.logger.Info("Quote sent",
		zap.Int64("order_id", orderID),
		zap.Bool("resend", resend),
		zap.Bool("delivery_attempted", dispatched))

	return ack, nil
}
