package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vdsearch/vdsearch/internal/domain"
)

// AppendHistory inserts one search history record. The store assigns the id
// and creation timestamp. History is append-only: nothing in the system
// mutates or deletes these records.
func (s *Store) AppendHistory(ctx context.Context, record *domain.HistoryRecord) error {
	stored := *record
	stored.ID = uuid.NewString()
	stored.CreatedAt = time.Now()

	data, err := json.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("failed to marshal history record: %w", err)
	}

	// LPUSH keeps the list ordered newest first, matching the admin view.
	if err := s.client.LPush(ctx, KeyHistory, data).Err(); err != nil {
		return fmt.Errorf("failed to append history record: %w", err)
	}
	return nil
}

// RecentHistory returns up to limit records, newest first.
func (s *Store) RecentHistory(ctx context.Context, limit int64) ([]*domain.HistoryRecord, error) {
	if limit <= 0 {
		return []*domain.HistoryRecord{}, nil
	}

	raw, err := s.client.LRange(ctx, KeyHistory, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	records := make([]*domain.HistoryRecord, 0, len(raw))
	for _, item := range raw {
		var rec domain.HistoryRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			// Skip unreadable entries rather than failing the whole view.
			continue
		}
		records = append(records, &rec)
	}

	return records, nil
}
