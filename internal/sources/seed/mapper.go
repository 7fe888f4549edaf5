package seed

import (
	"fmt"

	"github.com/vdsearch/vdsearch/internal/domain"
)

// Mapper converts seed entries to domain promotions.
type Mapper struct{}

// NewMapper creates a new mapper instance.
func NewMapper() *Mapper {
	return &Mapper{}
}

// MapPromotions converts a seed file to domain promotions. Entries that
// fail validation are rejected: a seed file is operator input and should be
// fixed, not silently trimmed.
func (m *Mapper) MapPromotions(f *File) ([]*domain.Promotion, error) {
	promotions := make([]*domain.Promotion, 0, len(f.Promotions))

	for i, props := range f.Promotions {
		promo := domain.NewPromotion()
		promo.Title = props.Title
		promo.Description = props.Description
		promo.URL = props.URL
		for _, q := range props.Queries {
			promo.AddQuery(q)
		}

		if err := promo.Validate(); err != nil {
			return nil, fmt.Errorf("invalid seed promotion at index %d: %w", i, err)
		}

		promotions = append(promotions, promo)
	}

	return promotions, nil
}
