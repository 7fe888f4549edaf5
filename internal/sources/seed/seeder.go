package seed

import (
	"context"
	"fmt"

	"github.com/vdsearch/vdsearch/internal/domain"
	"github.com/vdsearch/vdsearch/internal/logger"
)

// Store is the slice of the promotion store the seeder needs.
type Store interface {
	CountPromotions(ctx context.Context) (int64, error)
	InsertPromotions(ctx context.Context, promotions []*domain.Promotion) error
}

// Seeder bootstraps an empty promotion store from a declarative yaml file.
type Seeder struct {
	loader *Loader
	mapper *Mapper
	logger logger.Logger
}

// NewSeeder creates a seeder for the given file.
func NewSeeder(filePath string, log logger.Logger) *Seeder {
	return &Seeder{
		loader: NewLoader(filePath),
		mapper: NewMapper(),
		logger: log,
	}
}

// Run inserts the seed promotions if the store is currently empty. A
// populated store is left untouched: the admin surface owns it from then on.
func (s *Seeder) Run(ctx context.Context, store Store) error {
	count, err := store.CountPromotions(ctx)
	if err != nil {
		return fmt.Errorf("failed to check promotion count: %w", err)
	}
	if count > 0 {
		s.logger.Debug("promotion store already populated, skipping seed",
			logger.Int("count", int(count)))
		return nil
	}

	f, err := s.loader.Load()
	if err != nil {
		return err
	}

	promotions, err := s.mapper.MapPromotions(f)
	if err != nil {
		return err
	}
	if len(promotions) == 0 {
		return nil
	}

	if err := store.InsertPromotions(ctx, promotions); err != nil {
		return fmt.Errorf("failed to insert seed promotions: %w", err)
	}

	s.logger.Info("seeded promotion store",
		logger.Int("count", len(promotions)))
	return nil
}
