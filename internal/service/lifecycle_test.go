package service

import (
	"context"
	"testing"

	"quote-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMachine(orders *fakeOrders) (*QuoteStateMachine, *fakePublisher) {
	publisher := &fakePublisher{}
	return NewQuoteStateMachine(orders, publisher, quoteGateway), publisher
}

func seedQuoteOrder(orders *fakeOrders, status models.QuoteStatus) int64 {
	return orders.seed(models.Order{
		UserID:        7,
		PaymentMethod: quoteGateway,
		QuoteStatus:   status,
		BillingEmail:  "customer@example.com",
		Status:        models.OrderStatusPending,
	})
}

func TestInitialStatus(t *testing.T) {
	machine, _ := newTestMachine(newFakeOrders())

	assert.Equal(t, models.QuoteStatusPending, machine.InitialStatus(quoteGateway))
	assert.Equal(t, models.QuoteStatusNone, machine.InitialStatus("card"))
	assert.Equal(t, models.QuoteStatusNone, machine.InitialStatus(""))
}

func TestMarkPriced(t *testing.T) {
	orders := newFakeOrders()
	machine, publisher := newTestMachine(orders)
	orderID := seedQuoteOrder(orders, models.QuoteStatusPending)

	require.NoError(t, machine.MarkPriced(context.Background(), orderID, 25000))

	order, err := orders.GetOrderByID(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, models.QuoteStatusComplete, order.QuoteStatus)
	assert.Equal(t, int64(25000), order.TotalAmount)
	require.Len(t, publisher.priced, 1)
	assert.Equal(t, orderID, publisher.priced[0].OrderID)
}

func TestMarkPricedFromCompleteIsNoOp(t *testing.T) {
	orders := newFakeOrders()
	machine, _ := newTestMachine(orders)
	orderID := seedQuoteOrder(orders, models.QuoteStatusComplete)

	err := machine.MarkPriced(context.Background(), orderID, 99999)
	assert.ErrorIs(t, err, models.ErrIllegalTransition)

	// No-op: nothing was written.
	order, _ := orders.GetOrderByID(context.Background(), orderID)
	assert.Equal(t, models.QuoteStatusComplete, order.QuoteStatus)
	assert.Zero(t, order.TotalAmount)
}

func TestMarkSentTransitions(t *testing.T) {
	orders := newFakeOrders()
	machine, _ := newTestMachine(orders)
	ctx := context.Background()

	fromComplete := seedQuoteOrder(orders, models.QuoteStatusComplete)
	require.NoError(t, machine.MarkSent(ctx, fromComplete))
	status, _ := orders.GetQuoteStatus(ctx, fromComplete)
	assert.Equal(t, models.QuoteStatusSent, status)

	// Resending keeps SENT.
	require.NoError(t, machine.MarkSent(ctx, fromComplete))
	status, _ = orders.GetQuoteStatus(ctx, fromComplete)
	assert.Equal(t, models.QuoteStatusSent, status)

	fromPending := seedQuoteOrder(orders, models.QuoteStatusPending)
	err := machine.MarkSent(ctx, fromPending)
	assert.ErrorIs(t, err, models.ErrIllegalTransition)
	status, _ = orders.GetQuoteStatus(ctx, fromPending)
	assert.Equal(t, models.QuoteStatusPending, status)
}

func TestCancelFromAnyQuoteStatus(t *testing.T) {
	orders := newFakeOrders()
	machine, publisher := newTestMachine(orders)
	ctx := context.Background()

	for _, from := range []models.QuoteStatus{
		models.QuoteStatusPending,
		models.QuoteStatusComplete,
		models.QuoteStatusSent,
	} {
		orderID := seedQuoteOrder(orders, from)
		require.NoError(t, machine.Cancel(ctx, orderID, "customer declined"))

		status, _ := orders.GetQuoteStatus(ctx, orderID)
		assert.Equal(t, models.QuoteStatusCancelled, status)
	}
	assert.Len(t, publisher.cancelled, 3)
}

func TestCancelRequiresPendingFulfillment(t *testing.T) {
	orders := newFakeOrders()
	machine, _ := newTestMachine(orders)

	orderID := orders.seed(models.Order{
		PaymentMethod: quoteGateway,
		QuoteStatus:   models.QuoteStatusPending,
		Status:        models.OrderStatusProcessing,
	})

	err := machine.Cancel(context.Background(), orderID, "")
	assert.ErrorIs(t, err, models.ErrIllegalTransition)

	status, _ := orders.GetQuoteStatus(context.Background(), orderID)
	assert.Equal(t, models.QuoteStatusPending, status)
}

func TestCancelNonQuoteOrderRejected(t *testing.T) {
	orders := newFakeOrders()
	machine, _ := newTestMachine(orders)

	orderID := orders.seed(models.Order{
		PaymentMethod: "card",
		QuoteStatus:   models.QuoteStatusNone,
		Status:        models.OrderStatusPending,
	})

	err := machine.Cancel(context.Background(), orderID, "")
	assert.ErrorIs(t, err, models.ErrIllegalTransition)
}

func TestPayActionAllowed(t *testing.T) {
	machine, _ := newTestMachine(newFakeOrders())

	cases := map[models.QuoteStatus]bool{
		models.QuoteStatusNone:      true,
		models.QuoteStatusPending:   false,
		models.QuoteStatusComplete:  true,
		models.QuoteStatusSent:      true,
		models.QuoteStatusCancelled: false,
	}
	for status, want := range cases {
		order := &models.Order{QuoteStatus: status}
		assert.Equal(t, want, machine.PayActionAllowed(order), "status %s", status)
	}
}

func TestAutoCancelVetoed(t *testing.T) {
	machine, _ := newTestMachine(newFakeOrders())

	// Vetoed for any order placed through the quote gateway, whatever the
	// quote status, cancelled included.
	for _, status := range []models.QuoteStatus{
		models.QuoteStatusPending,
		models.QuoteStatusComplete,
		models.QuoteStatusSent,
		models.QuoteStatusCancelled,
	} {
		order := &models.Order{PaymentMethod: quoteGateway, QuoteStatus: status}
		assert.True(t, machine.AutoCancelVetoed(order), "status %s", status)
	}

	regular := &models.Order{PaymentMethod: "card", QuoteStatus: models.QuoteStatusNone}
	assert.False(t, machine.AutoCancelVetoed(regular))
}

func TestUnknownOrder(t *testing.T) {
	orders := newFakeOrders()
	machine, _ := newTestMachine(orders)

	err := machine.MarkPriced(context.Background(), 999, 100)
	assert.ErrorIs(t, err, models.ErrNotFound)

	err = machine.Cancel(context.Background(), 999, "")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
