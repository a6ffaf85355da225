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

// CheckoutService turns a session cart into an order. The quote status is
// stamped exactly once here, derived from the chosen gateway; afterwards only
// the state machine touches it.
type CheckoutService struct {
	orders    Orders
	catalog   Catalog
	session   CheckoutSession
	cart      *CartService
	selector  *GatewaySelector
	machine   *QuoteStateMachine
	publisher EventPublisher
	logger    *zap.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	orders Orders,
	catalog Catalog,
	session CheckoutSession,
	cart *CartService,
	selector *GatewaySelector,
	machine *QuoteStateMachine,
	publisher EventPublisher,
) *CheckoutService {
	return &CheckoutService{
		orders:    orders,
		catalog:   catalog,
		session:   session,
		cart:      cart,
		selector:  selector,
		machine:   machine,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// PlaceOrderRequest represents a checkout completion
type PlaceOrderRequest struct {
	UserID        int64  `json:"user_id" binding:"required"`
	BillingEmail  string `json:"billing_email"`
	PaymentMethod string `json:"payment_method"`
}

// PlaceOrderResponse represents the placed order
type PlaceOrderResponse struct {
	OrderID     int64              `json:"order_id"`
	QuoteStatus models.QuoteStatus `json:"quote_status"`
	TotalAmount int64              `json:"total_amount"`
}

// PlaceOrder creates an order from the session cart.
func (s *CheckoutService) PlaceOrder(ctx context.Context, sessionID string, req *PlaceOrderRequest) (*PlaceOrderResponse, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.PlaceOrder")
	defer span.End()

	lines, err := s.session.GetCartLines(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("cannot place an order from an empty cart")
	}

	gateway := req.PaymentMethod
	if gateway == "" {
		gateway, err = s.session.GetChosenGateway(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to read chosen gateway: %w", err)
		}
	}
	if gateway == "" {
		return nil, fmt.Errorf("no payment method chosen")
	}

	offered, err := s.selector.IsOffered(ctx, lines, gateway)
	if err != nil {
		return nil, err
	}
	if !offered {
		return nil, fmt.Errorf("payment method %q is not offered for this cart", gateway)
	}

	quoteStatus := s.machine.InitialStatus(gateway)

	totalAmount, unitPrices, err := s.priceCart(ctx, lines, quoteStatus)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		UserID:        req.UserID,
		TotalAmount:   totalAmount,
		PaymentMethod: gateway,
		QuoteStatus:   quoteStatus,
		BillingEmail:  req.BillingEmail,
		Status:        models.OrderStatusPending,
	}
	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for _, line := range lines {
		item := &models.OrderItem{
			OrderID:   order.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: unitPrices[line.ProductID],
		}
		if err := s.orders.CreateOrderItem(ctx, item); err != nil {
			return nil, fmt.Errorf("failed to create order item: %w", err)
		}
	}

	if quoteStatus == models.QuoteStatusPending {
		util.QuotesRequestedTotal.Inc()

		event := &models.QuoteRequestedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeQuoteRequested,
				Timestamp: time.Now(),
			},
			OrderID: order.ID,
			UserID:  order.UserID,
			Lines:   lines,
		}
		if err := s.publisher.PublishQuoteRequested(ctx, event); err != nil {
			s.logger.Error("Failed to publish QuoteRequested event", zap.Error(err))
		}
	}

	if err := s.session.EmptyCart(ctx, sessionID); err != nil {
		s.logger.Error("Failed to clear cart after checkout",
			zap.String("session_id", sessionID),
			zap.Error(err))
	}

	s.logger.Info("Order placed",
		zap.Int64("order_id", order.ID),
		zap.String("payment_method", gateway),
		zap.String("quote_status", string(quoteStatus)))

	return &PlaceOrderResponse{
		OrderID:     order.ID,
		QuoteStatus: quoteStatus,
		TotalAmount: totalAmount,
	}, nil
}

// priceCart totals the cart from catalog prices. Quote orders carry no total
// until an admin prices them.
func (s *CheckoutService) priceCart(ctx context.Context, lines []models.CartLine, quoteStatus models.QuoteStatus) (int64, map[int64]int64, error) {
	ids := make([]int64, len(lines))
	for i, line := range lines {
		ids[i] = line.ProductID
	}

	products, err := s.catalog.GetProductsByIDs(ctx, ids)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to load cart products: %w", err)
	}
	if len(products) != len(lines) {
		return 0, nil, fmt.Errorf("cart references unknown products: %w", models.ErrNotFound)
	}

	unitPrices := make(map[int64]int64, len(products))
	for _, product := range products {
		price := product.Price
		if quoteStatus == models.QuoteStatusPending {
			price = 0
		}
		unitPrices[product.ID] = price
	}

	var total int64
	for _, line := range lines {
		total += unitPrices[line.ProductID] * int64(line.Quantity)
	}
	return total, unitPrices, nil
}

// OrderView is the order plus the quote queries the UI needs.
type OrderView struct {
	Order            *models.Order      `json:"order"`
	Items            []models.OrderItem `json:"items"`
	PayActionAllowed bool               `json:"pay_action_allowed"`
	AutoCancelVetoed bool               `json:"auto_cancel_vetoed"`
}

// GetOrder loads the order view.
func (s *CheckoutService) GetOrder(ctx context.Context, orderID int64) (*OrderView, error) {
	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	items, err := s.orders.GetOrderItemsByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return &OrderView{
		Order:            order,
		Items:            items,
		PayActionAllowed: s.machine.PayActionAllowed(order),
		AutoCancelVetoed: s.machine.AutoCancelVetoed(order),
	}, nil
}

// ListUserOrders returns a user's orders, newest first.
func (s *CheckoutService) ListUserOrders(ctx context.Context, userID int64) ([]models.Order, error) {
	return s.orders.GetOrdersByUserID(ctx, userID)
}

// GetOrderNotes returns the admin notes for an order.
func (s *CheckoutService) GetOrderNotes(ctx context.Context, orderID int64) ([]models.OrderNote, error) {
	if _, err := s.orders.GetOrderByID(ctx, orderID); err != nil {
		return nil, err
	}
	return s.orders.GetOrderNotes(ctx, orderID)
}

// ChooseGateway records the gateway the customer picked, after checking it is
// actually offered for the current cart.
func (s *CheckoutService) ChooseGateway(ctx context.Context, sessionID, gatewayID string) error {
	lines, err := s.session.GetCartLines(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to read cart: %w", err)
	}

	offered, err := s.selector.IsOffered(ctx, lines, gatewayID)
	if err != nil {
		return err
	}
	if !offered {
		return fmt.Errorf("payment method %q is not offered for this cart", gatewayID)
	}

	return s.session.SetChosenGateway(ctx, sessionID, gatewayID)
}
