package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vdsearch/vdsearch/internal/auth"
	"github.com/vdsearch/vdsearch/internal/domain"
	"github.com/vdsearch/vdsearch/internal/httpserver/deps"
	"github.com/vdsearch/vdsearch/internal/httpserver/routes"
	"github.com/vdsearch/vdsearch/internal/index"
	"github.com/vdsearch/vdsearch/internal/logger"
	"github.com/vdsearch/vdsearch/internal/search"
	"github.com/vdsearch/vdsearch/internal/service"
)

// memoryPromotionStore is an in-memory stand-in for the Redis store.
type memoryPromotionStore struct {
	mu         sync.Mutex
	promotions map[string]*domain.Promotion
	nextID     int
}

func newMemoryPromotionStore() *memoryPromotionStore {
	return &memoryPromotionStore{promotions: map[string]*domain.Promotion{}}
}

func (m *memoryPromotionStore) ListPromotions(ctx context.Context) ([]*domain.Promotion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Promotion, 0, len(m.promotions))
	for _, p := range m.promotions {
		out = append(out, p.Clone())
	}
	return out, nil
}

func (m *memoryPromotionStore) InsertPromotions(ctx context.Context, promotions []*domain.Promotion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range promotions {
		m.nextID++
		stored := p.Clone()
		stored.ID = fmt.Sprintf("stored-%d", m.nextID)
		stored.CreatedAt = time.Now()
		m.promotions[stored.ID] = stored
	}
	return nil
}

func (m *memoryPromotionStore) UpdatePromotion(ctx context.Context, promo *domain.Promotion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.promotions[promo.ID] = promo.Clone()
	return nil
}

func (m *memoryPromotionStore) DeletePromotions(ctx context.Context, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delete(m.promotions, id)
	}
	return nil
}

type memoryHistoryStore struct {
	mu      sync.Mutex
	records []*domain.HistoryRecord
}

func (m *memoryHistoryStore) AppendHistory(ctx context.Context, record *domain.HistoryRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append([]*domain.HistoryRecord{record}, m.records...)
	return nil
}

func (m *memoryHistoryStore) RecentHistory(ctx context.Context, limit int64) ([]*domain.HistoryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if int64(len(m.records)) < limit {
		limit = int64(len(m.records))
	}
	return m.records[:limit], nil
}

type stubSearchClient struct{}

func (stubSearchClient) Search(ctx context.Context, q search.Query) (*search.Result, error) {
	return &search.Result{
		Items: []domain.SearchResultItem{
			{Title: "Result for " + q.Text, Link: "https://result.example"},
		},
		TotalResults: 23,
	}, nil
}

type stubGeo struct{}

func (stubGeo) Lookup(ctx context.Context, ip string) (domain.Location, error) {
	return domain.Location{IP: ip, City: "Paris", Country: "France", CountryCode: "FR"}, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	log := logger.New("error", false)
	store := newMemoryPromotionStore()
	history := &memoryHistoryStore{}
	idx := index.NewPromotionIndex()

	sessions, err := auth.NewManager("batman", time.Hour)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}

	suggestUpstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]any{
			r.URL.Query().Get("q"),
			[]string{"alpha", "alphabet"},
		})
	}))
	t.Cleanup(suggestUpstream.Close)

	d := deps.Deps{
		Logger:         log,
		StartTime:      time.Now(),
		TimeNow:        time.Now,
		PromotionIndex: idx,
		Search:         service.NewSearchService(idx, store, stubSearchClient{}, history, stubGeo{}, log),
		Promotions:     service.NewPromotionService(idx, store, history, log),
		Suggester:      search.NewSuggester(suggestUpstream.URL, log),
		Sessions:       sessions,
		ReloadTrigger:  make(chan struct{}, 1),
	}

	r := chi.NewRouter()
	routes.RegisterAll(r, d)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func login(t *testing.T, srv *httptest.Server, password string) (string, int) {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"password": password})
	resp, err := http.Post(srv.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", resp.StatusCode
	}
	var decoded struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	return decoded.Token, resp.StatusCode
}

func doJSON(t *testing.T, method, url, token string, body any, out any) int {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if out != nil && resp.StatusCode < 300 && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}
	return resp.StatusCode
}

// TestAdminPromotionFlow walks the full admin loop: login, load the working
// set, save a new promotion, and see it attached to a matching search.
func TestAdminPromotionFlow(t *testing.T) {
	srv := newTestServer(t)

	// Wrong password is rejected
	if _, status := login(t, srv, "robin"); status != http.StatusUnauthorized {
		t.Fatalf("wrong password: status = %d, want %d", status, http.StatusUnauthorized)
	}

	// Admin surface is gated
	if status := doJSON(t, http.MethodGet, srv.URL+"/api/admin/promotions", "", nil, nil); status != http.StatusUnauthorized {
		t.Fatalf("unauthenticated admin access: status = %d, want %d", status, http.StatusUnauthorized)
	}

	token, status := login(t, srv, " Batman ")
	if status != http.StatusOK {
		t.Fatalf("login: status = %d, want %d", status, http.StatusOK)
	}

	// Load the (empty) working set
	var listed struct {
		Promotions []*domain.Promotion `json:"promotions"`
	}
	if status := doJSON(t, http.MethodGet, srv.URL+"/api/admin/promotions", token, nil, &listed); status != http.StatusOK {
		t.Fatalf("list promotions: status = %d, want %d", status, http.StatusOK)
	}
	if len(listed.Promotions) != 0 {
		t.Fatalf("expected empty promotion set, got %d", len(listed.Promotions))
	}

	// Save one new promotion
	working := map[string]any{
		"promotions": []*domain.Promotion{{
			ID:      "new-1",
			Title:   "Garden Week",
			URL:     "https://shop.example/garden",
			Queries: []string{"Garden Tools", "garden tools", "shovels"},
		}},
	}
	if status := doJSON(t, http.MethodPut, srv.URL+"/api/admin/promotions", token, working, nil); status != http.StatusNoContent {
		t.Fatalf("save promotions: status = %d, want %d", status, http.StatusNoContent)
	}

	// The promotion now carries a store-assigned id
	if status := doJSON(t, http.MethodGet, srv.URL+"/api/admin/promotions", token, nil, &listed); status != http.StatusOK {
		t.Fatalf("list promotions after save: status = %d", status)
	}
	if len(listed.Promotions) != 1 {
		t.Fatalf("expected 1 promotion after save, got %d", len(listed.Promotions))
	}
	if listed.Promotions[0].IsTemporary() {
		t.Errorf("saved promotion still has a temporary id: %s", listed.Promotions[0].ID)
	}

	// A matching search surfaces the promotion alongside results
	var result service.SearchResult
	if status := doJSON(t, http.MethodGet, srv.URL+"/api/search?q=GARDEN+tools", "", nil, &result); status != http.StatusOK {
		t.Fatalf("search: status = %d, want %d", status, http.StatusOK)
	}
	if result.Promotion == nil {
		t.Fatal("expected a matched promotion on the search response")
	}
	if result.Promotion.Title != "Garden Week" {
		t.Errorf("promotion title = %q, want %q", result.Promotion.Title, "Garden Week")
	}
	if result.TotalPages != 3 {
		t.Errorf("total pages = %d, want 3", result.TotalPages)
	}

	// A non-matching search carries no promotion
	result = service.SearchResult{}
	if status := doJSON(t, http.MethodGet, srv.URL+"/api/search?q=unrelated", "", nil, &result); status != http.StatusOK {
		t.Fatalf("search: status = %d", status)
	}
	if result.Promotion != nil {
		t.Errorf("expected no promotion for unrelated query, got %q", result.Promotion.Title)
	}
}

func TestSearchHistoryFlow(t *testing.T) {
	srv := newTestServer(t)

	var result service.SearchResult
	if status := doJSON(t, http.MethodGet, srv.URL+"/api/search?q=first+query", "", nil, &result); status != http.StatusOK {
		t.Fatalf("search: status = %d", status)
	}

	token, status := login(t, srv, "batman")
	if status != http.StatusOK {
		t.Fatalf("login: status = %d", status)
	}

	// The history write is fire-and-forget, poll briefly for it to land.
	var history struct {
		History []*domain.HistoryRecord `json:"history"`
	}
	deadline := time.Now().Add(2 * time.Second)
	for {
		if status := doJSON(t, http.MethodGet, srv.URL+"/api/admin/history", token, nil, &history); status != http.StatusOK {
			t.Fatalf("history: status = %d", status)
		}
		if len(history.History) > 0 || time.Now().After(deadline) {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	if len(history.History) != 1 {
		t.Fatalf("expected 1 history record, got %d", len(history.History))
	}
	rec := history.History[0]
	if rec.Query != "first query" {
		t.Errorf("history query = %q, want %q", rec.Query, "first query")
	}
	if rec.City != "Paris" || rec.CountryCode != "FR" {
		t.Errorf("history location = %s/%s, want Paris/FR", rec.City, rec.CountryCode)
	}
}

func TestSuggestFlow(t *testing.T) {
	srv := newTestServer(t)

	var resp struct {
		Suggestions []string `json:"suggestions"`
	}
	if status := doJSON(t, http.MethodGet, srv.URL+"/api/suggest?q=alp", "", nil, &resp); status != http.StatusOK {
		t.Fatalf("suggest: status = %d", status)
	}
	if len(resp.Suggestions) != 2 {
		t.Fatalf("expected 2 suggestions, got %v", resp.Suggestions)
	}
}
