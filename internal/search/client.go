package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/vdsearch/vdsearch/internal/domain"
	"github.com/vdsearch/vdsearch/internal/utils"
)

// Query is one page request against the external search API.
type Query struct {
	Text        string
	Start       int // 1-based result offset
	Type        domain.SearchType
	CountryCode string // optional 2-letter bias code
}

// Result is the decoded API response for one page.
type Result struct {
	Items        []domain.SearchResultItem
	TotalResults int
}

// Client is the external web/image search collaborator.
type Client interface {
	Search(ctx context.Context, q Query) (*Result, error)
}

// apiResponse mirrors the wire shape of the search API.
type apiResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"items"`
	SearchInformation struct {
		TotalResults string `json:"totalResults"`
	} `json:"searchInformation"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Message string `json:"message"`
}

// HTTPClient calls a Google Custom Search shaped endpoint.
type HTTPClient struct {
	baseURL  string
	apiKey   string
	engineID string
	http     *http.Client
}

// NewHTTPClient builds a search client. No request timeout is set: the
// in-flight call is never cancelled, later submissions simply race it.
func NewHTTPClient(baseURL, apiKey, engineID string) *HTTPClient {
	return &HTTPClient{
		baseURL:  baseURL,
		apiKey:   apiKey,
		engineID: engineID,
		http:     &http.Client{},
	}
}

// Search fetches one result page. A non-2xx response or an embedded error
// object is returned as an error carrying the API's own message, which the
// caller maps to a user-facing category.
func (c *HTTPClient) Search(ctx context.Context, q Query) (*Result, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("cx", c.engineID)
	params.Set("q", q.Text)
	params.Set("start", strconv.Itoa(q.Start))
	if q.Type == domain.SearchTypeImage {
		params.Set("searchType", "image")
	}
	if q.CountryCode != "" {
		params.Set("gl", q.CountryCode)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer utils.Close(resp.Body)

	var decoded apiResponse
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Best effort: the error body usually carries a message worth
		// surfacing (quota, bad key).
		if json.NewDecoder(resp.Body).Decode(&decoded) == nil && decoded.Error != nil && decoded.Error.Message != "" {
			return nil, fmt.Errorf("%s", decoded.Error.Message)
		}
		return nil, fmt.Errorf("search api returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	if decoded.Error != nil {
		return nil, fmt.Errorf("%s", decoded.Error.Message)
	}

	items := make([]domain.SearchResultItem, 0, len(decoded.Items))
	for _, it := range decoded.Items {
		items = append(items, domain.SearchResultItem{
			Title:   it.Title,
			Link:    it.Link,
			Snippet: it.Snippet,
		})
	}

	// totalResults arrives as a string on the wire.
	total, _ := strconv.Atoi(decoded.SearchInformation.TotalResults)

	return &Result{Items: items, TotalResults: total}, nil
}
