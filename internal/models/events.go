package models

import "time"

// Event types
const (
	EventTypeQuoteRequested      = "QUOTE_REQUESTED"
	EventTypeQuotePriced         = "QUOTE_PRICED"
	EventTypeQuoteSent           = "QUOTE_SENT"
	EventTypeQuoteCancelled      = "QUOTE_CANCELLED"
	EventTypeQuoteEmailRequested = "QUOTE_EMAIL_REQUESTED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// QuoteRequestedEvent published when an order is placed through the quote gateway
type QuoteRequestedEvent struct {
	BaseEvent
	OrderID int64      `json:"order_id"`
	UserID  int64      `json:"user_id"`
	Lines   []CartLine `json:"lines"`
}

// QuotePricedEvent published when an admin finishes pricing a quote
type QuotePricedEvent struct {
	BaseEvent
	OrderID     int64 `json:"order_id"`
	TotalAmount int64 `json:"total_amount"`
}

// QuoteSentEvent published when a quote notification is triggered
type QuoteSentEvent struct {
	BaseEvent
	OrderID int64  `json:"order_id"`
	AckID   string `json:"ack_id"`
	Resend  bool   `json:"resend"`
}

// QuoteCancelledEvent published when a quote order is cancelled
type QuoteCancelledEvent struct {
	BaseEvent
	OrderID int64  `json:"order_id"`
	Reason  string `json:"reason"`
}

// QuoteEmailRequestedEvent asks the notification worker to deliver a quote email
type QuoteEmailRequestedEvent struct {
	BaseEvent
	OrderID   int64     `json:"order_id"`
	Recipient string    `json:"recipient"`
	OrderDate time.Time `json:"order_date"`
}
