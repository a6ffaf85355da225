package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"time"

	"quote-service/internal/util"

	"go.uber.org/zap"
)

// Mailer delivers quote emails. Message composition is deliberately plain;
// templated storefront emails are the shop's concern, not this service's.
type Mailer interface {
	SendQuoteEmail(ctx context.Context, recipient string, orderID int64, orderDate time.Time) error
}

// SMTPMailer sends quote emails through a plain SMTP relay.
type SMTPMailer struct {
	addr   string
	from   string
	logger *zap.Logger
}

// NewSMTPMailer creates a new SMTP mailer
func NewSMTPMailer(addr, from string) *SMTPMailer {
	return &SMTPMailer{
		addr:   addr,
		from:   from,
		logger: util.GetLogger(),
	}
}

// SendQuoteEmail sends the quote notification for an order.
func (m *SMTPMailer) SendQuoteEmail(ctx context.Context, recipient string, orderID int64, orderDate time.Time) error {
	subject := fmt.Sprintf("Quotation for order #%d - %s", orderID, orderDate.Format("2006-01-02"))
	body := fmt.Sprintf(
		"Your quotation for order #%d is ready.\r\n"+
			"Please visit your account to review the quoted price and complete payment.\r\n",
		orderID)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		m.from, recipient, subject, body)

	if err := smtp.SendMail(m.addr, nil, m.from, []string{recipient}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send quote email: %w", err)
	}

	m.logger.Info("Quote email sent",
		zap.Int64("order_id", orderID),
		zap.String("recipient", recipient))
	return nil
}
