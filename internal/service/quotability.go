package service

import (
	"context"
	"fmt"

	"quote-service/internal/util"

	"go.uber.org/zap"
)

// QuotabilityResolver answers whether a product requires a quote. It is a thin
// predicate over the catalog store; callers that iterate a cart may cache the
// answers themselves.
type QuotabilityResolver struct {
	catalog Catalog
	logger  *zap.Logger
}

// NewQuotabilityResolver creates a new quotability resolver
func NewQuotabilityResolver(catalog Catalog) *QuotabilityResolver {
	return &QuotabilityResolver{
		catalog: catalog,
		logger:  util.GetLogger(),
	}
}

// IsQuotable reports whether the product is flagged for quoting. Products
// whose flag was never set resolve to false.
func (r *QuotabilityResolver) IsQuotable(ctx context.Context, productID int64) (bool, error) {
	return r.catalog.GetQuotableFlag(ctx, productID)
}

// SetQuotable saves the quotable flag for a single product, the per-product
// admin edit path.
func (r *QuotabilityResolver) SetQuotable(ctx context.Context, productID int64, quotable bool) error {
	if err := r.catalog.SetQuotableFlag(ctx, productID, quotable); err != nil {
		return fmt.Errorf("failed to save quotable flag: %w", err)
	}

	r.logger.Info("Quotable flag saved",
		zap.Int64("product_id", productID),
		zap.Bool("quotable", quotable))
	return nil
}

// ProductView is the customer-facing product shape. Quotable products carry no
// price; the customer asks for a quote instead.
type ProductView struct {
	ID       int64  `json:"id"`
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Quotable bool   `json:"quotable"`
	Price    *int64 `json:"price,omitempty"`
}

// GetProductView returns the product with the price concealed when quotable.
func (r *QuotabilityResolver) GetProductView(ctx context.Context, productID int64) (*ProductView, error) {
	product, err := r.catalog.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	view := &ProductView{
		ID:       product.ID,
		SKU:      product.SKU,
		Name:     product.Name,
		Quotable: product.Quotable,
	}
	if !product.Quotable {
		price := product.Price
		view.Price = &price
	}
	return view, nil
}
