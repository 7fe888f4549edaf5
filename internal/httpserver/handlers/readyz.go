package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/vdsearch/vdsearch/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready            bool   `json:"ready"`
	RedisOK          bool   `json:"redis_ok"`
	PromotionsLoaded int    `json:"promotions_loaded"`
	LastReload       string `json:"last_reload,omitempty"`
}

// Readyz reports whether the service can serve searches: Redis must answer
// a ping. The promotion index state is informational, a cold index refills
// lazily on the first search.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		redisOK := pingRedis(d)

		lastReload := ""
		if t := d.PromotionIndex.LastRebuild(); !t.IsZero() {
			lastReload = t.Format(time.RFC3339)
		}

		status := http.StatusOK
		if !redisOK {
			status = http.StatusServiceUnavailable
		}

		writeJSON(w, status, readyzResponse{
			Ready:            redisOK,
			RedisOK:          redisOK,
			PromotionsLoaded: d.PromotionIndex.Count(),
			LastReload:       lastReload,
		})
	}
}

func pingRedis(d deps.Deps) bool {
	if d.RedisClient == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return d.RedisClient.Ping(ctx).Err() == nil
}
