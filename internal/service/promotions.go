package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vdsearch/vdsearch/internal/domain"
	"github.com/vdsearch/vdsearch/internal/index"
	"github.com/vdsearch/vdsearch/internal/logger"
)

// HistoryViewLimit caps the admin history view.
const HistoryViewLimit = 100

// PromotionService backs the admin surface: it hands out editable working
// sets, reconciles them against the last snapshot, and applies the
// resulting change set to the store.
type PromotionService struct {
	idx        *index.PromotionIndex
	promotions PromotionStore
	history    HistoryStore
	logger     logger.Logger
}

// NewPromotionService wires the admin service.
func NewPromotionService(
	idx *index.PromotionIndex,
	promotions PromotionStore,
	history HistoryStore,
	log logger.Logger,
) *PromotionService {
	return &PromotionService{
		idx:        idx,
		promotions: promotions,
		history:    history,
		logger:     log,
	}
}

// List fetches the full promotion set, refreshes the cached snapshot and
// index, and returns a working copy safe for the caller to edit.
func (s *PromotionService) List(ctx context.Context) ([]*domain.Promotion, error) {
	promotions, err := s.promotions.ListPromotions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch promotions: %w", err)
	}

	s.idx.Rebuild(promotions)

	return domain.ClonePromotions(promotions), nil
}

// Save reconciles the edited working set against the last snapshot and
// applies the insert batch, each update, and the delete batch concurrently.
// Individual write failures are joined into one aggregate error after all
// writes settle; partial success is not rolled back. The cached snapshot
// and index are invalidated only on full success, so a failed save leaves
// the retry baseline intact.
func (s *PromotionService) Save(ctx context.Context, working []*domain.Promotion) error {
	for _, promo := range working {
		if err := promo.Validate(); err != nil {
			return fmt.Errorf("invalid promotion %q: %w", promo.Title, err)
		}
	}

	snapshot := s.idx.Snapshot()
	cs := domain.Diff(snapshot, working)
	if cs.Empty() {
		s.logger.Debug("save requested with no changes")
		return nil
	}

	var (
		mu       sync.Mutex
		failures []error
		wg       sync.WaitGroup
	)
	fail := func(err error) {
		mu.Lock()
		failures = append(failures, err)
		mu.Unlock()
	}

	if len(cs.Inserts) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.promotions.InsertPromotions(ctx, cs.Inserts); err != nil {
				fail(err)
			}
		}()
	}

	for _, promo := range cs.Updates {
		wg.Add(1)
		go func(p *domain.Promotion) {
			defer wg.Done()
			if err := s.promotions.UpdatePromotion(ctx, p); err != nil {
				fail(err)
			}
		}(promo)
	}

	if len(cs.Deletes) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.promotions.DeletePromotions(ctx, cs.Deletes); err != nil {
				fail(err)
			}
		}()
	}

	wg.Wait()

	if len(failures) > 0 {
		s.logger.Error("promotion save failed",
			logger.Int("inserts", len(cs.Inserts)),
			logger.Int("updates", len(cs.Updates)),
			logger.Int("deletes", len(cs.Deletes)),
			logger.Int("failures", len(failures)))
		return fmt.Errorf("failed to save promotions: %w", errors.Join(failures...))
	}

	s.logger.Info("promotions saved",
		logger.Int("inserts", len(cs.Inserts)),
		logger.Int("updates", len(cs.Updates)),
		logger.Int("deletes", len(cs.Deletes)))

	// Force the next read to re-derive truth from the store: inserts got
	// store-assigned ids this process never saw.
	s.idx.Invalidate()

	return nil
}

// History returns the most recent searches for admin review.
func (s *PromotionService) History(ctx context.Context) ([]*domain.HistoryRecord, error) {
	records, err := s.history.RecentHistory(ctx, HistoryViewLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch search history: %w", err)
	}
	return records, nil
}
