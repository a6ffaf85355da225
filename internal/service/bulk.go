package service

import (
	"context"
	"fmt"
	"time"

	"quote-service/internal/util"

	"go.uber.org/zap"
)

// BulkUpdater applies a quotable flag across the whole catalog in fixed-size
// pages so the working set stays bounded whatever the catalog size. There is
// no rollback: a failure mid-run leaves earlier pages updated, which is fine
// because the flag is idempotently re-appliable.
type BulkUpdater struct {
	catalog  BulkCatalog
	pageSize int
	logger   *zap.Logger
}

// NewBulkUpdater creates a new bulk updater
func NewBulkUpdater(catalog BulkCatalog, pageSize int) *BulkUpdater {
	if pageSize <= 0 {
		pageSize = 500
	}
	return &BulkUpdater{
		catalog:  catalog,
		pageSize: pageSize,
		logger:   util.GetLogger(),
	}
}

// ApplyToAllProducts sets the quotable flag on every product in the catalog.
// Returns the number of products updated.
func (u *BulkUpdater) ApplyToAllProducts(ctx context.Context, quotable bool) (int, error) {
	start := time.Now()
	defer func() {
		util.BulkApplyLatency.Observe(time.Since(start).Seconds())
	}()

	total, err := u.catalog.CountProducts(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}

	pages := (total + u.pageSize - 1) / u.pageSize
	updated := 0

	for page := 0; page < pages; page++ {
		ids, err := u.catalog.ListProductIDs(ctx, u.pageSize, page*u.pageSize)
		if err != nil {
			return updated, fmt.Errorf("failed to list product page %d: %w", page, err)
		}
		if len(ids) == 0 {
			break
		}

		if err := u.catalog.SetQuotableFlags(ctx, ids, quotable); err != nil {
			return updated, fmt.Errorf("failed to update product page %d: %w", page, err)
		}

		updated += len(ids)
		util.BulkPagesTotal.Inc()
		util.BulkProductsUpdatedTotal.Add(float64(len(ids)))
	}

	u.logger.Info("Bulk quotable update finished",
		zap.Bool("quotable", quotable),
		zap.Int("pages", pages),
		zap.Int("updated", updated))

	return updated, nil
}
