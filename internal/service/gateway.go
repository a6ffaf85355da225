package service

import (
	"context"

	"quote-service/internal/models"
)

// GatewaySelector derives the payment gateways offered at checkout from the
// cart classification. Quote-only carts see exactly the quote gateway; every
// other cart sees the registered set with the quote gateway removed.
type GatewaySelector struct {
	cart           *CartService
	quoteGatewayID string
	registered     []string
}

// NewGatewaySelector creates a new gateway selector
func NewGatewaySelector(cart *CartService, quoteGatewayID string, registered []string) *GatewaySelector {
	return &GatewaySelector{
		cart:           cart,
		quoteGatewayID: quoteGatewayID,
		registered:     registered,
	}
}

// QuoteGatewayID returns the identifier of the quote gateway
func (g *GatewaySelector) QuoteGatewayID() string {
	return g.quoteGatewayID
}

// AvailableGateways returns the gateway identifiers offered for the cart.
func (g *GatewaySelector) AvailableGateways(ctx context.Context, lines []models.CartLine) ([]string, error) {
	class, err := g.cart.Classify(ctx, lines)
	if err != nil {
		return nil, err
	}

	if class == models.CartQuotable {
		return []string{g.quoteGatewayID}, nil
	}

	gateways := make([]string, 0, len(g.registered))
	for _, id := range g.registered {
		if id != g.quoteGatewayID {
			gateways = append(gateways, id)
		}
	}
	return gateways, nil
}

// IsOffered reports whether the gateway may be used for the cart.
func (g *GatewaySelector) IsOffered(ctx context.Context, lines []models.CartLine, gatewayID string) (bool, error) {
	gateways, err := g.AvailableGateways(ctx, lines)
	if err != nil {
		return false, err
	}
	for _, id := range gateways {
		if id == gatewayID {
			return true, nil
		}
	}
	return false, nil
}
