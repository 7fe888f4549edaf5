package service

import (
	"context"
	"strings"
	"time"

	"github.com/vdsearch/vdsearch/internal/domain"
	"github.com/vdsearch/vdsearch/internal/index"
	"github.com/vdsearch/vdsearch/internal/logger"
	"github.com/vdsearch/vdsearch/internal/search"
)

// PromotionStore is the durable promotions collaborator.
type PromotionStore interface {
	ListPromotions(ctx context.Context) ([]*domain.Promotion, error)
	InsertPromotions(ctx context.Context, promotions []*domain.Promotion) error
	UpdatePromotion(ctx context.Context, promo *domain.Promotion) error
	DeletePromotions(ctx context.Context, ids []string) error
}

// HistoryStore is the append-only search history collaborator.
type HistoryStore interface {
	AppendHistory(ctx context.Context, record *domain.HistoryRecord) error
	RecentHistory(ctx context.Context, limit int64) ([]*domain.HistoryRecord, error)
}

// GeoResolver resolves an IP to a coarse location.
type GeoResolver interface {
	Lookup(ctx context.Context, ip string) (domain.Location, error)
}

// historyWriteTimeout bounds the detached history write so an unreachable
// store cannot pile up goroutines forever.
const historyWriteTimeout = 15 * time.Second

// SearchRequest is one search submission.
type SearchRequest struct {
	Query    string
	Start    int // 1-based result offset
	Tab      domain.SearchType
	ClientIP string

	// Browser-shared coordinates, when the client granted geolocation.
	Latitude  float64
	Longitude float64
	HasCoords bool
}

// SearchResult is the committed outcome of one search: results and the
// matched promotion land together, never separately.
type SearchResult struct {
	Items      []domain.SearchResultItem `json:"items"`
	TotalPages int                       `json:"total_pages"`
	Promotion  *domain.Promotion         `json:"promotion,omitempty"`
}

// SearchFailure is a categorized search breakdown carrying the user-facing
// message for its category.
type SearchFailure struct {
	Category domain.SearchErrorCategory
	cause    error
}

func (e *SearchFailure) Error() string { return e.Category.Message() }
func (e *SearchFailure) Unwrap() error { return e.cause }

// SearchService sequences one search submission: a promotion lookup and a
// search API call run concurrently and are joined before the response is
// committed, and a best-effort history write is fired on the side.
type SearchService struct {
	idx        *index.PromotionIndex
	promotions PromotionStore
	client     search.Client
	history    HistoryStore
	geo        GeoResolver
	logger     logger.Logger
}

// NewSearchService wires the orchestrator.
func NewSearchService(
	idx *index.PromotionIndex,
	promotions PromotionStore,
	client search.Client,
	history HistoryStore,
	geoResolver GeoResolver,
	log logger.Logger,
) *SearchService {
	return &SearchService{
		idx:        idx,
		promotions: promotions,
		client:     client,
		history:    history,
		geo:        geoResolver,
		logger:     log,
	}
}

// Execute runs one search. An empty trimmed query is rejected with
// domain.ErrEmptyQuery. Any failing half (promotion lookup or API call)
// fails the whole search with a categorized SearchFailure: results and
// promotion are only ever shown together.
func (s *SearchService) Execute(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}

	if req.Start < 1 {
		req.Start = 1
	}

	// Record the query regardless of what the search itself does. The write
	// is detached: its failure is logged, never surfaced, never blocking.
	s.recordHistory(ctx, query, req)

	type promoOutcome struct {
		promo *domain.Promotion
		err   error
	}
	type apiOutcome struct {
		result *search.Result
		err    error
	}

	promoCh := make(chan promoOutcome, 1)
	go func() {
		promo, err := s.findPromotion(ctx, query)
		promoCh <- promoOutcome{promo, err}
	}()

	apiCh := make(chan apiOutcome, 1)
	go func() {
		result, err := s.client.Search(ctx, search.Query{
			Text:        query,
			Start:       req.Start,
			Type:        req.Tab,
			CountryCode: s.countryBias(ctx, req),
		})
		apiCh <- apiOutcome{result, err}
	}()

	promo := <-promoCh
	api := <-apiCh

	if err := firstError(api.err, promo.err); err != nil {
		category := domain.CategorizeSearchError(err)
		s.logger.Warn("search failed",
			logger.String("query", query),
			logger.String("category", string(category)),
			logger.Error(err))
		return nil, &SearchFailure{Category: category, cause: err}
	}

	result := &SearchResult{
		Items:      api.result.Items,
		TotalPages: domain.TotalPages(api.result.TotalResults),
	}
	if result.Items == nil {
		result.Items = []domain.SearchResultItem{}
	}

	// The promotion overlay only applies to the all tab.
	if req.Tab == domain.SearchTypeAll {
		result.Promotion = promo.promo
	}

	s.logger.Info("search completed",
		logger.String("query", query),
		logger.String("tab", string(req.Tab)),
		logger.Int("items", len(result.Items)),
		logger.Int("total_pages", result.TotalPages))

	return result, nil
}

// findPromotion looks the query up in the index, lazily refetching the
// promotion set when the cache has been invalidated or never populated.
func (s *SearchService) findPromotion(ctx context.Context, query string) (*domain.Promotion, error) {
	if !s.idx.Ready() {
		promotions, err := s.promotions.ListPromotions(ctx)
		if err != nil {
			return nil, err
		}
		s.idx.Rebuild(promotions)
	}
	return s.idx.Lookup(query), nil
}

// countryBias returns the 2-letter country code used to bias results,
// resolved from the client IP. Best effort: no code on failure.
func (s *SearchService) countryBias(ctx context.Context, req SearchRequest) string {
	if req.ClientIP == "" {
		return ""
	}
	loc, err := s.geo.Lookup(ctx, req.ClientIP)
	if err != nil {
		s.logger.Debug("country bias lookup failed", logger.Error(err))
		return ""
	}
	return loc.CountryCode
}

// recordHistory fires the append as a detached task with its own deadline,
// decoupled from the request context so a fast response cannot cancel it.
func (s *SearchService) recordHistory(ctx context.Context, query string, req SearchRequest) {
	detached := context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(detached, historyWriteTimeout)
		defer cancel()

		loc, err := s.geo.Lookup(ctx, req.ClientIP)
		if err != nil {
			s.logger.Debug("geolocation lookup failed for history",
				logger.String("ip", req.ClientIP),
				logger.Error(err))
		}
		if req.HasCoords {
			loc = loc.MergeCoordinates(req.Latitude, req.Longitude)
		}

		record := &domain.HistoryRecord{
			Query:       query,
			IPAddress:   loc.IP,
			City:        loc.City,
			Country:     loc.Country,
			CountryCode: loc.CountryCode,
			Latitude:    loc.Latitude,
			Longitude:   loc.Longitude,
		}
		if err := s.history.AppendHistory(ctx, record); err != nil {
			s.logger.Warn("failed to record search history",
				logger.String("query", query),
				logger.Error(err))
		}
	}()
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
