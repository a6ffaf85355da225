package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"quote-service/internal/models"
	"quote-service/internal/util"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventPublisher handles publishing quote lifecycle events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishQuoteRequested publishes QuoteRequested event
func (ep *EventPublisher) PublishQuoteRequested(ctx context.Context, event *models.QuoteRequestedEvent) error {
	key := fmt.Sprintf("order-%d", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishQuotePriced publishes QuotePriced event
func (ep *EventPublisher) PublishQuotePriced(ctx context.Context, event *models.QuotePricedEvent) error {
	key := fmt.Sprintf("order-%d", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishQuoteSent publishes QuoteSent event
func (ep *EventPublisher) PublishQuoteSent(ctx context.Context, event *models.QuoteSentEvent) error {
	key := fmt.Sprintf("order-%d", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishQuoteCancelled publishes QuoteCancelled event
func (ep *EventPublisher) PublishQuoteCancelled(ctx context.Context, event *models.QuoteCancelledEvent) error {
	key := fmt.Sprintf("order-%d", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// OrderReader is the slice of the order store the dispatcher needs to re-check
// eligibility before queueing an email.
type OrderReader interface {
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
}

// QuoteDispatcher queues quote emails for delivery by the notification worker.
// It applies its own eligibility filter independent of the caller's checks:
// only orders in COMPLETE or SENT with a billing email on file produce a
// message. A missing recipient is a silent skip, not an error, since there is
// no customer to reach.
type QuoteDispatcher struct {
	orders   OrderReader
	producer *Producer
	logger   *zap.Logger
}

// NewQuoteDispatcher creates a new quote email dispatcher
func NewQuoteDispatcher(orders OrderReader, producer *Producer) *QuoteDispatcher {
	return &QuoteDispatcher{
		orders:   orders,
		producer: producer,
		logger:   util.GetLogger(),
	}
}

// DispatchQuoteEmail queues the quote email for an order. The returned bool
// reports whether a message was actually queued; skips return false with a
// nil error.
func (d *QuoteDispatcher) DispatchQuoteEmail(ctx context.Context, orderID int64) (bool, error) {
	order, err := d.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return false, fmt.Errorf("failed to load order for dispatch: %w", err)
	}

	if order.QuoteStatus != models.QuoteStatusComplete && order.QuoteStatus != models.QuoteStatusSent {
		util.QuoteEmailsSkippedTotal.WithLabelValues("not_eligible").Inc()
		d.logger.Info("Quote email skipped, order not eligible",
			zap.Int64("order_id", orderID),
			zap.String("quote_status", string(order.QuoteStatus)))
		return false, nil
	}

	if order.BillingEmail == "" {
		util.QuoteEmailsSkippedTotal.WithLabelValues("no_recipient").Inc()
		d.logger.Warn("Quote email skipped, no billing email on order",
			zap.Int64("order_id", orderID))
		return false, nil
	}

	event := &models.QuoteEmailRequestedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeQuoteEmailRequested,
			Timestamp: time.Now(),
		},
		OrderID:   orderID,
		Recipient: order.BillingEmail,
		OrderDate: order.CreatedAt,
	}

	key := fmt.Sprintf("order-%d", orderID)
	if err := d.producer.PublishEvent(ctx, key, event); err != nil {
		return false, fmt.Errorf("failed to queue quote email: %w", err)
	}

	return true, nil
}

// EventHandler handles incoming events
type EventHandler struct {
	onQuoteEmailRequested func(context.Context, *models.QuoteEmailRequestedEvent) error
	onLifecycleEvent      func(context.Context, *models.BaseEvent, []byte) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnQuoteEmailRequested registers a handler for QuoteEmailRequested events
func (eh *EventHandler) OnQuoteEmailRequested(handler func(context.Context, *models.QuoteEmailRequestedEvent) error) {
	eh.onQuoteEmailRequested = handler
}

// OnLifecycleEvent registers a handler for quote lifecycle events
func (eh *EventHandler) OnLifecycleEvent(handler func(context.Context, *models.BaseEvent, []byte) error) {
	eh.onLifecycleEvent = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch baseEvent.EventType {
	case models.EventTypeQuoteEmailRequested:
		if eh.onQuoteEmailRequested != nil {
			var event models.QuoteEmailRequestedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal QuoteEmailRequested event: %w", err)
			}
			return eh.onQuoteEmailRequested(ctx, &event)
		}

	case models.EventTypeQuoteRequested,
		models.EventTypeQuotePriced,
		models.EventTypeQuoteSent,
		models.EventTypeQuoteCancelled:
		if eh.onLifecycleEvent != nil {
			return eh.onLifecycleEvent(ctx, &baseEvent, msg.Value)
		}
	}

	return nil
}
