package service

import (
	"context"
	"testing"

	"quote-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkoutFixture struct {
	catalog   *fakeCatalog
	orders    *fakeOrders
	session   *fakeSession
	publisher *fakePublisher
	cart      *CartService
	checkout  *CheckoutService
}

func newCheckoutFixture() *checkoutFixture {
	catalog := newFakeCatalog()
	orders := newFakeOrders()
	session := newFakeSession()
	publisher := &fakePublisher{}

	cart := NewCartService(NewQuotabilityResolver(catalog), session)
	selector := NewGatewaySelector(cart, quoteGateway, registeredGateways)
	machine := NewQuoteStateMachine(orders, publisher, quoteGateway)

	return &checkoutFixture{
		catalog:   catalog,
		orders:    orders,
		session:   session,
		publisher: publisher,
		cart:      cart,
		checkout:  NewCheckoutService(orders, catalog, session, cart, selector, machine, publisher),
	}
}

func TestPlaceOrderQuoteCart(t *testing.T) {
	f := newCheckoutFixture()
	f.catalog.addProduct(2, 0, true)
	ctx := context.Background()

	require.NoError(t, f.cart.AddToCart(ctx, "sess", 2, 3))

	placed, err := f.checkout.PlaceOrder(ctx, "sess", &PlaceOrderRequest{
		UserID:        5,
		BillingEmail:  "buyer@example.com",
		PaymentMethod: quoteGateway,
	})
	require.NoError(t, err)

	assert.Equal(t, models.QuoteStatusPending, placed.QuoteStatus)
	assert.Zero(t, placed.TotalAmount)

	order, err := f.orders.GetOrderByID(ctx, placed.OrderID)
	require.NoError(t, err)
	assert.Equal(t, quoteGateway, order.PaymentMethod)
	assert.Zero(t, order.TotalAmount)

	items, err := f.orders.GetOrderItemsByOrderID(ctx, placed.OrderID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Zero(t, items[0].UnitPrice)

	// Cart is consumed, and the request event went out.
	lines, _ := f.session.GetCartLines(ctx, "sess")
	assert.Empty(t, lines)
	require.Len(t, f.publisher.requested, 1)
	assert.Equal(t, placed.OrderID, f.publisher.requested[0].OrderID)
}

func TestPlaceOrderRegularCart(t *testing.T) {
	f := newCheckoutFixture()
	f.catalog.addProduct(1, 2500, false)
	f.catalog.addProduct(3, 1000, false)
	ctx := context.Background()

	require.NoError(t, f.cart.AddToCart(ctx, "sess", 1, 2))
	require.NoError(t, f.cart.AddToCart(ctx, "sess", 3, 1))

	placed, err := f.checkout.PlaceOrder(ctx, "sess", &PlaceOrderRequest{
		UserID:        5,
		PaymentMethod: "card",
	})
	require.NoError(t, err)

	assert.Equal(t, models.QuoteStatusNone, placed.QuoteStatus)
	assert.Equal(t, int64(6000), placed.TotalAmount)
	assert.Empty(t, f.publisher.requested)
}

func TestPlaceOrderGatewayNotOffered(t *testing.T) {
	f := newCheckoutFixture()
	f.catalog.addProduct(1, 2500, false)
	f.catalog.addProduct(2, 0, true)
	ctx := context.Background()

	// Regular cart cannot go through the quote gateway.
	require.NoError(t, f.cart.AddToCart(ctx, "sess", 1, 1))
	_, err := f.checkout.PlaceOrder(ctx, "sess", &PlaceOrderRequest{
		UserID:        5,
		PaymentMethod: quoteGateway,
	})
	assert.Error(t, err)

	// Quotable cart cannot go through a card gateway.
	require.NoError(t, f.session.EmptyCart(ctx, "sess"))
	require.NoError(t, f.cart.AddToCart(ctx, "sess", 2, 1))
	_, err = f.checkout.PlaceOrder(ctx, "sess", &PlaceOrderRequest{
		UserID:        5,
		PaymentMethod: "card",
	})
	assert.Error(t, err)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	f := newCheckoutFixture()

	_, err := f.checkout.PlaceOrder(context.Background(), "sess", &PlaceOrderRequest{
		UserID:        5,
		PaymentMethod: "card",
	})
	assert.Error(t, err)
}

func TestPlaceOrderUsesChosenGateway(t *testing.T) {
	f := newCheckoutFixture()
	f.catalog.addProduct(2, 0, true)
	ctx := context.Background()

	require.NoError(t, f.cart.AddToCart(ctx, "sess", 2, 1))
	require.NoError(t, f.checkout.ChooseGateway(ctx, "sess", quoteGateway))

	placed, err := f.checkout.PlaceOrder(ctx, "sess", &PlaceOrderRequest{UserID: 5})
	require.NoError(t, err)
	assert.Equal(t, models.QuoteStatusPending, placed.QuoteStatus)
}

func TestChooseGatewayRejected(t *testing.T) {
	f := newCheckoutFixture()
	f.catalog.addProduct(1, 2500, false)
	ctx := context.Background()

	require.NoError(t, f.cart.AddToCart(ctx, "sess", 1, 1))

	err := f.checkout.ChooseGateway(ctx, "sess", quoteGateway)
	assert.Error(t, err)

	chosen, _ := f.session.GetChosenGateway(ctx, "sess")
	assert.Empty(t, chosen)
}

func TestGetOrderView(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	orderID := f.orders.seed(models.Order{
		UserID:        5,
		PaymentMethod: quoteGateway,
		QuoteStatus:   models.QuoteStatusPending,
		Status:        models.OrderStatusPending,
	})

	view, err := f.checkout.GetOrder(ctx, orderID)
	require.NoError(t, err)
	assert.False(t, view.PayActionAllowed)
	assert.True(t, view.AutoCancelVetoed)

	_, err = f.checkout.GetOrder(ctx, 999)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
