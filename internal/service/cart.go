package service

import (
	"context"
	"fmt"

	"quote-service/internal/models"
	"quote-service/internal/util"

	"go.uber.org/zap"
)

// ConflictNotice is shown to the customer when a mixed cart is reset.
const ConflictNotice = "It is not possible to add products that require quotes " +
	"to the cart along with ones that do not. The existing products have been " +
	"removed from the cart."

// CartService enforces cart homogeneity: a cart holds either only quotable
// products or only non-quotable ones, because the two use mutually exclusive
// checkout flows.
type CartService struct {
	resolver *QuotabilityResolver
	session  CheckoutSession
	logger   *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(resolver *QuotabilityResolver, session CheckoutSession) *CartService {
	return &CartService{
		resolver: resolver,
		session:  session,
		logger:   util.GetLogger(),
	}
}

// Classify reports whether the cart is empty, quote-only, or regular. Carts
// are homogeneous by construction, so the first line's flag decides.
func (s *CartService) Classify(ctx context.Context, lines []models.CartLine) (models.CartClass, error) {
	if len(lines) == 0 {
		return models.CartEmpty, nil
	}

	quotable, err := s.resolver.IsQuotable(ctx, lines[0].ProductID)
	if err != nil {
		return "", fmt.Errorf("failed to classify cart: %w", err)
	}
	if quotable {
		return models.CartQuotable, nil
	}
	return models.CartNonQuotable, nil
}

// ValidateAddition checks whether adding the product to the given cart would
// mix quotable and non-quotable items.
func (s *CartService) ValidateAddition(ctx context.Context, lines []models.CartLine, productID int64) (bool, error) {
	if len(lines) == 0 {
		return false, nil
	}

	productQuotable, err := s.resolver.IsQuotable(ctx, productID)
	if err != nil {
		return false, err
	}

	class, err := s.Classify(ctx, lines)
	if err != nil {
		return false, err
	}
	cartQuotable := class == models.CartQuotable

	return productQuotable != cartQuotable, nil
}

// AddToCart adds a product to the session cart. On a mixed-cart conflict the
// existing contents are cleared, the new item still lands, and the returned
// error wraps ErrCartConflict so the caller can surface a notice. The new
// item wins; the customer is not prompted.
func (s *CartService) AddToCart(ctx context.Context, sessionID string, productID int64, qty int) error {
	ctx, span := util.StartSpan(ctx, "CartService.AddToCart")
	defer span.End()

	lines, err := s.session.GetCartLines(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to read cart: %w", err)
	}

	conflict, err := s.ValidateAddition(ctx, lines, productID)
	if err != nil {
		return err
	}

	if conflict {
		if err := s.session.EmptyCart(ctx, sessionID); err != nil {
			return fmt.Errorf("failed to clear conflicting cart: %w", err)
		}
		util.CartConflictsTotal.Inc()
		s.logger.Info("Mixed cart cleared",
			zap.String("session_id", sessionID),
			zap.Int64("product_id", productID))
	}

	if err := s.session.AddCartLine(ctx, sessionID, productID, qty); err != nil {
		return fmt.Errorf("failed to add cart line: %w", err)
	}

	if conflict {
		return fmt.Errorf("cart reset around product %d: %w", productID, models.ErrCartConflict)
	}
	return nil
}

// NeedsPayment reports whether checkout must collect payment. A quote-only
// cart defers payment until a price is set; any non-quotable line forces
// payment regardless of the other lines.
func (s *CartService) NeedsPayment(ctx context.Context, lines []models.CartLine) (bool, error) {
	for _, line := range lines {
		quotable, err := s.resolver.IsQuotable(ctx, line.ProductID)
		if err != nil {
			return false, err
		}
		if !quotable {
			return true, nil
		}
	}
	return false, nil
}
