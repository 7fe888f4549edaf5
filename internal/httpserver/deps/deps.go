package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vdsearch/vdsearch/internal/auth"
	"github.com/vdsearch/vdsearch/internal/index"
	"github.com/vdsearch/vdsearch/internal/logger"
	"github.com/vdsearch/vdsearch/internal/search"
	"github.com/vdsearch/vdsearch/internal/service"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   func() time.Time // for testing, defaults to time.Now

	TrustProxy     bool     // true if running behind a trusted reverse proxy (e.g., cloudflared)
	AllowedOrigins []string // CORS origins allowed to call the API from a browser

	RedisClient    *redis.Client             // Redis client connection
	PromotionIndex *index.PromotionIndex     // In-memory promotion index
	Search         *service.SearchService    // Search orchestrator
	Promotions     *service.PromotionService // Admin promotion service
	Suggester      *search.Suggester         // Best-effort suggestion proxy
	Sessions       *auth.Manager             // Admin session manager
	ReloadTrigger  chan struct{}             // Channel to trigger manual promotion reload
}
