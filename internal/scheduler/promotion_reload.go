package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/vdsearch/vdsearch/internal/index"
	"github.com/vdsearch/vdsearch/internal/logger"
	redisstore "github.com/vdsearch/vdsearch/internal/store/redis"
)

// PromotionReloader keeps the in-memory promotion index in step with the
// store: an initial load on start, a periodic refresh, and a manual trigger
// channel for the admin reload endpoint.
type PromotionReloader struct {
	store         *redisstore.Store
	index         *index.PromotionIndex
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewPromotionReloader creates a new reloader.
func NewPromotionReloader(
	store *redisstore.Store,
	idx *index.PromotionIndex,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *PromotionReloader {
	return &PromotionReloader{
		store:         store,
		index:         idx,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start loads immediately, then refreshes on the interval or on a manual
// trigger until Stop or context cancellation.
func (pr *PromotionReloader) Start(ctx context.Context) error {
	if pr.interval <= 0 {
		return fmt.Errorf("reload interval must be > 0, got %v", pr.interval)
	}

	// A failed initial load is not fatal: the ticker and the manual trigger
	// keep retrying, and the first search refills the index lazily.
	if err := pr.Reload(ctx); err != nil {
		pr.logger.Warn("initial promotion load failed",
			logger.Error(err))
	}

	ticker := time.NewTicker(pr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := pr.Reload(ctx); err != nil {
					pr.logger.Error("failed to reload promotions",
						logger.Error(err))
				}
			case <-pr.manualTrigger:
				pr.logger.Info("manual promotion reload triggered")
				if err := pr.Reload(ctx); err != nil {
					pr.logger.Error("failed to reload promotions",
						logger.Error(err))
				}
			case <-pr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader.
func (pr *PromotionReloader) Stop() {
	close(pr.stopCh)
}

// Reload fetches the promotion set and rebuilds the index wholesale.
func (pr *PromotionReloader) Reload(ctx context.Context) error {
	promotions, err := pr.store.ListPromotions(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch promotions: %w", err)
	}

	pr.index.Rebuild(promotions)

	pr.logger.Info("promotion index rebuilt",
		logger.Int("count", len(promotions)))

	return nil
}
