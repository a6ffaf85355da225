package service

import (
	"context"
	"fmt"

	"quote-service/internal/util"

	"go.uber.org/zap"
)

// SettingsResult is returned from a settings apply so the caller renders the
// outcome instead of reading shared state.
type SettingsResult struct {
	Enabled         bool     `json:"enabled"`
	ProductsUpdated int      `json:"products_updated"`
	Messages        []string `json:"messages"`
}

// SettingsService owns the store-wide quote flag. Saving it fans the flag out
// to every product through the bulk updater.
type SettingsService struct {
	settings GlobalSettings
	bulk     *BulkUpdater
	logger   *zap.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService(settings GlobalSettings, bulk *BulkUpdater) *SettingsService {
	return &SettingsService{
		settings: settings,
		bulk:     bulk,
		logger:   util.GetLogger(),
	}
}

// ApplyGlobalQuoteSetting saves the store-wide flag and applies it across the
// catalog.
func (s *SettingsService) ApplyGlobalQuoteSetting(ctx context.Context, enabled bool) (*SettingsResult, error) {
	ctx, span := util.StartSpan(ctx, "SettingsService.ApplyGlobalQuoteSetting")
	defer span.End()

	if err := s.settings.SetGlobalQuoteSetting(ctx, enabled); err != nil {
		return nil, fmt.Errorf("failed to save global quote setting: %w", err)
	}

	updated, err := s.bulk.ApplyToAllProducts(ctx, enabled)
	if err != nil {
		// Earlier pages stay applied; the run is safe to repeat.
		return nil, fmt.Errorf("failed to apply setting to catalog: %w", err)
	}

	s.logger.Info("Global quote setting applied",
		zap.Bool("enabled", enabled),
		zap.Int("products_updated", updated))

	return &SettingsResult{
		Enabled:         enabled,
		ProductsUpdated: updated,
		Messages:        []string{"Settings saved."},
	}, nil
}

// GetGlobalQuoteSetting reads the store-wide flag.
func (s *SettingsService) GetGlobalQuoteSetting(ctx context.Context) (bool, error) {
	return s.settings.GetGlobalQuoteSetting(ctx)
}
