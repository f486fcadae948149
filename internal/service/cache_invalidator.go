package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/estate-agency/internal/cache"
	"github.com/spec-kit/estate-agency/internal/events"
)

// CacheInvalidator drops cached pages when the data behind them changes.
type CacheInvalidator struct {
	dispatcher events.Dispatcher
	cache      cache.Cache
	logger     *zap.Logger
}

// NewCacheInvalidator creates the invalidator.
func NewCacheInvalidator(dispatcher events.Dispatcher, c cache.Cache, logger *zap.Logger) *CacheInvalidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheInvalidator{dispatcher: dispatcher, cache: c, logger: logger}
}

// invalidations maps each event to the keys it makes stale.
var invalidations = map[events.EventType][]cache.Key{
	events.EventTransactionCreated: {cache.KeyStatsOverview, cache.KeyHomeFeatured},
	events.EventCatalogChanged:     {cache.KeyHomeFeatured, cache.KeyStatsOverview},
	events.EventInquiryCreated:     {cache.KeyStatsOverview},
	events.EventPromoCodesChanged:  {cache.KeyPromoList},
}

// RegisterHandlers subscribes to events.
func (c *CacheInvalidator) RegisterHandlers() {
	if c.dispatcher == nil || c.cache == nil {
		return
	}
	for eventType, keys := range invalidations {
		keys := keys
		c.dispatcher.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
			cache.Invalidate(ctx, c.cache, c.logger, keys...)
			return nil
		})
	}
}
