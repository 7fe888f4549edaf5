package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/vdsearch/vdsearch/internal/domain"
)

// Store handles Redis operations for promotions and search history.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store.
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// ListPromotions returns all promotions ordered by creation time descending,
// the same order the index is built in.
func (s *Store) ListPromotions(ctx context.Context) ([]*domain.Promotion, error) {
	ids, err := s.client.ZRevRange(ctx, KeyPromotionsByCreated, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list promotion ids: %w", err)
	}

	if len(ids) == 0 {
		return []*domain.Promotion{}, nil
	}

	promotions := make([]*domain.Promotion, 0, len(ids))
	for _, id := range ids {
		promo, err := s.GetPromotion(ctx, id)
		if err != nil {
			// Skip records that went missing between the ZSET read and the
			// value read.
			continue
		}
		promotions = append(promotions, promo)
	}

	return promotions, nil
}

// GetPromotion retrieves one promotion by id.
func (s *Store) GetPromotion(ctx context.Context, id string) (*domain.Promotion, error) {
	data, err := s.client.Get(ctx, PromotionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("promotion not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get promotion: %w", err)
	}

	var promo domain.Promotion
	if err := json.Unmarshal(data, &promo); err != nil {
		return nil, fmt.Errorf("failed to unmarshal promotion: %w", err)
	}

	return &promo, nil
}

// InsertPromotions persists new records. The temporary client-side id is
// discarded: each record gets a store-assigned uuid and creation timestamp.
func (s *Store) InsertPromotions(ctx context.Context, promotions []*domain.Promotion) error {
	if len(promotions) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	now := time.Now()

	for _, promo := range promotions {
		persisted := promo.Clone()
		persisted.ID = uuid.NewString()
		persisted.CreatedAt = now

		data, err := json.Marshal(persisted)
		if err != nil {
			return fmt.Errorf("failed to marshal promotion: %w", err)
		}

		pipe.Set(ctx, PromotionKey(persisted.ID), data, 0)
		pipe.ZAdd(ctx, KeyPromotionsByCreated, redis.Z{
			Score:  float64(persisted.CreatedAt.UnixNano()),
			Member: persisted.ID,
		})
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert promotions: %w", err)
	}
	return nil
}

// UpdatePromotion overwrites one durable record by id. The creation
// timestamp is preserved from the stored record.
func (s *Store) UpdatePromotion(ctx context.Context, promo *domain.Promotion) error {
	existing, err := s.GetPromotion(ctx, promo.ID)
	if err != nil {
		return err
	}

	updated := promo.Clone()
	updated.CreatedAt = existing.CreatedAt

	data, err := json.Marshal(updated)
	if err != nil {
		return fmt.Errorf("failed to marshal promotion: %w", err)
	}

	if err := s.client.Set(ctx, PromotionKey(updated.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to update promotion %s: %w", updated.ID, err)
	}
	return nil
}

// DeletePromotions removes a set of records by id list.
func (s *Store) DeletePromotions(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	members := make([]interface{}, len(ids))
	for i, id := range ids {
		pipe.Del(ctx, PromotionKey(id))
		members[i] = id
	}
	pipe.ZRem(ctx, KeyPromotionsByCreated, members...)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete promotions: %w", err)
	}
	return nil
}

// CountPromotions returns the number of stored promotions.
func (s *Store) CountPromotions(ctx context.Context) (int64, error) {
	n, err := s.client.ZCard(ctx, KeyPromotionsByCreated).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count promotions: %w", err)
	}
	return n, nil
}
