package worker

import (
	"context"
	"log"

	"quote-service/internal/broker"
	"quote-service/internal/mailer"
	"quote-service/internal/models"
	"quote-service/internal/util"

	"go.uber.org/zap"
)

// ProcessedEvents is the dedup ledger consumers check before acting twice on
// a redelivered message.
type ProcessedEvents interface {
	IsEventProcessed(ctx context.Context, eventID string) (bool, error)
	MarkEventProcessed(ctx context.Context, eventID, eventType string) error
}

// NotificationWorker delivers queued quote emails. Delivery is idempotent per
// event ID, so Kafka redeliveries do not double-send mail to the customer.
type NotificationWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	processed    ProcessedEvents
	mailer       mailer.Mailer
	logger       *zap.Logger
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(
	consumer *broker.Consumer,
	processed ProcessedEvents,
	m mailer.Mailer,
) *NotificationWorker {
	w := &NotificationWorker{
		consumer:  consumer,
		processed: processed,
		mailer:    m,
		logger:    util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnQuoteEmailRequested(w.handleQuoteEmailRequested)
	w.eventHandler = eventHandler

	return w
}

func (w *NotificationWorker) handleQuoteEmailRequested(ctx context.Context, event *models.QuoteEmailRequestedEvent) error {
	done, err := w.processed.IsEventProcessed(ctx, event.EventID)
	if err != nil {
		return err
	}
	if done {
		w.logger.Info("Quote email already delivered",
			zap.String("event_id", event.EventID),
			zap.Int64("order_id", event.OrderID))
		return nil
	}

	if err := w.mailer.SendQuoteEmail(ctx, event.Recipient, event.OrderID, event.OrderDate); err != nil {
		w.logger.Error("Quote email delivery failed",
			zap.Int64("order_id", event.OrderID),
			zap.Error(err))
		return err
	}

	util.QuoteEmailsDeliveredTotal.Inc()

	if err := w.processed.MarkEventProcessed(ctx, event.EventID, event.EventType); err != nil {
		w.logger.Error("Failed to mark event processed", zap.Error(err))
	}
	return nil
}

// Start starts the worker
func (w *NotificationWorker) Start(ctx context.Context) error {
	log.Println("Starting notification worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	log.Println("Stopping notification worker...")
	return w.consumer.Close()
}

// AuditWorker records every quote lifecycle event into the processed-events
// ledger, giving admins a replay-safe audit trail of transitions.
type AuditWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	processed    ProcessedEvents
	logger       *zap.Logger
}

// NewAuditWorker creates a new audit worker
func NewAuditWorker(consumer *broker.Consumer, processed ProcessedEvents) *AuditWorker {
	w := &AuditWorker{
		consumer:  consumer,
		processed: processed,
		logger:    util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnLifecycleEvent(w.handleLifecycleEvent)
	w.eventHandler = eventHandler

	return w
}

func (w *AuditWorker) handleLifecycleEvent(ctx context.Context, event *models.BaseEvent, raw []byte) error {
	done, err := w.processed.IsEventProcessed(ctx, event.EventID)
	if err != nil {
		return err
	}
	if done {
		return nil
	}

	w.logger.Info("Quote lifecycle event",
		zap.String("event_type", event.EventType),
		zap.String("event_id", event.EventID),
		zap.Time("timestamp", event.Timestamp))

	return w.processed.MarkEventProcessed(ctx, event.EventID, event.EventType)
}

// Start starts the worker
func (w *AuditWorker) Start(ctx context.Context) error {
	log.Println("Starting audit worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *AuditWorker) Stop() error {
	log.Println("Stopping audit worker...")
	return w.consumer.Close()
}
