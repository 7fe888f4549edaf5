package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vdsearch/vdsearch/internal/auth"
	"github.com/vdsearch/vdsearch/internal/domain"
	"github.com/vdsearch/vdsearch/internal/httpserver/deps"
	"github.com/vdsearch/vdsearch/internal/index"
	"github.com/vdsearch/vdsearch/internal/logger"
	"github.com/vdsearch/vdsearch/internal/search"
	"github.com/vdsearch/vdsearch/internal/service"
)

type fakePromotionStore struct {
	promotions []*domain.Promotion
	inserted   []*domain.Promotion
}

func (f *fakePromotionStore) ListPromotions(ctx context.Context) ([]*domain.Promotion, error) {
	return f.promotions, nil
}

func (f *fakePromotionStore) InsertPromotions(ctx context.Context, promotions []*domain.Promotion) error {
	f.inserted = append(f.inserted, promotions...)
	return nil
}

func (f *fakePromotionStore) UpdatePromotion(ctx context.Context, promo *domain.Promotion) error {
	return nil
}

func (f *fakePromotionStore) DeletePromotions(ctx context.Context, ids []string) error {
	return nil
}

type fakeHistoryStore struct {
	records []*domain.HistoryRecord
}

func (f *fakeHistoryStore) AppendHistory(ctx context.Context, record *domain.HistoryRecord) error {
	return nil
}

func (f *fakeHistoryStore) RecentHistory(ctx context.Context, limit int64) ([]*domain.HistoryRecord, error) {
	return f.records, nil
}

type fakeSearchClient struct {
	result *search.Result
	err    error
}

func (f *fakeSearchClient) Search(ctx context.Context, q search.Query) (*search.Result, error) {
	return f.result, f.err
}

type fakeGeo struct{}

func (fakeGeo) Lookup(ctx context.Context, ip string) (domain.Location, error) {
	return domain.Location{}, nil
}

type testEnv struct {
	deps  deps.Deps
	store *fakePromotionStore
}

func newTestEnv(t *testing.T, client search.Client) *testEnv {
	t.Helper()

	log := logger.New("error", false)
	store := &fakePromotionStore{}
	history := &fakeHistoryStore{}
	idx := index.NewPromotionIndex()

	sessions, err := auth.NewManager("batman", time.Hour)
	require.NoError(t, err)

	return &testEnv{
		deps: deps.Deps{
			Logger:         log,
			StartTime:      time.Now(),
			TimeNow:        time.Now,
			PromotionIndex: idx,
			Search:         service.NewSearchService(idx, store, client, history, fakeGeo{}, log),
			Promotions:     service.NewPromotionService(idx, store, history, log),
			Sessions:       sessions,
			ReloadTrigger:  make(chan struct{}, 1),
		},
		store: store,
	}
}

func TestSearchHandlerEmptyQuery(t *testing.T) {
	env := newTestEnv(t, &fakeSearchClient{})

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=+++", nil)
	rec := httptest.NewRecorder()
	Search(env.deps)(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchHandlerSuccess(t *testing.T) {
	client := &fakeSearchClient{
		result: &search.Result{
			Items: []domain.SearchResultItem{
				{Title: "Result", Link: "https://a.example"},
			},
			TotalResults: 42,
		},
	}
	env := newTestEnv(t, client)
	env.store.promotions = []*domain.Promotion{{
		ID:      "p1",
		Title:   "Summer Sale",
		URL:     "https://shop.example/sale",
		Queries: []string{"sale"},
	}}

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=Sale&start=1", nil)
	rec := httptest.NewRecorder()
	Search(env.deps)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp service.SearchResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Items, 1)
	require.Equal(t, 5, resp.TotalPages)
	require.NotNil(t, resp.Promotion)
	require.Equal(t, "Summer Sale", resp.Promotion.Title)
}

func TestSearchHandlerQuotaExhausted(t *testing.T) {
	client := &fakeSearchClient{err: errors.New("Quota exceeded for quota metric 'Queries'")}
	env := newTestEnv(t, client)

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=anything", nil)
	rec := httptest.NewRecorder()
	Search(env.deps)(rec, req)

	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	var resp errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, string(domain.SearchErrorQuota), resp.Category)
}

func TestLoginHandler(t *testing.T) {
	env := newTestEnv(t, &fakeSearchClient{})

	tests := []struct {
		name       string
		password   string
		wantStatus int
	}{
		{name: "correct password", password: "batman", wantStatus: http.StatusOK},
		{name: "case and whitespace forgiven", password: "  BATMAN ", wantStatus: http.StatusOK},
		{name: "wrong password", password: "robin", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(loginRequest{Password: tt.password})
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
			rec := httptest.NewRecorder()
			Login(env.deps)(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				var resp loginResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				require.NotEmpty(t, resp.Token)
			}
		})
	}
}

func TestSavePromotionsValidation(t *testing.T) {
	env := newTestEnv(t, &fakeSearchClient{})

	body, _ := json.Marshal(savePromotionsRequest{Promotions: []*domain.Promotion{
		{ID: "new-1", URL: "https://shop.example"}, // missing title
	}})
	req := httptest.NewRequest(http.MethodPut, "/api/admin/promotions", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	SavePromotions(env.deps)(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSavePromotionsInsert(t *testing.T) {
	env := newTestEnv(t, &fakeSearchClient{})

	// Prime the snapshot so the diff runs against a loaded working set.
	req := httptest.NewRequest(http.MethodGet, "/api/admin/promotions", nil)
	rec := httptest.NewRecorder()
	ListPromotions(env.deps)(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	body, _ := json.Marshal(savePromotionsRequest{Promotions: []*domain.Promotion{
		{ID: "new-1", Title: "Fresh", URL: "https://shop.example", Queries: []string{"fresh"}},
	}})
	saveReq := httptest.NewRequest(http.MethodPut, "/api/admin/promotions", bytes.NewReader(body))
	saveRec := httptest.NewRecorder()
	SavePromotions(env.deps)(saveRec, saveReq)

	require.Equal(t, http.StatusNoContent, saveRec.Code)
	require.Len(t, env.store.inserted, 1)
	require.Equal(t, "Fresh", env.store.inserted[0].Title)
}

func TestReloadHandler(t *testing.T) {
	env := newTestEnv(t, &fakeSearchClient{})

	req := httptest.NewRequest(http.MethodPost, "/api/admin/reload", nil)

	rec := httptest.NewRecorder()
	Reload(env.deps)(rec, req)
	require.Equal(t, http.StatusAccepted, rec.Code)

	// Nothing drained the trigger, a second request finds it full.
	rec = httptest.NewRecorder()
	Reload(env.deps)(rec, req)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
}
