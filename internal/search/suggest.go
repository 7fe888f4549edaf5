package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vdsearch/vdsearch/internal/logger"
	"github.com/vdsearch/vdsearch/internal/utils"
)

// Suggester fetches query completions, best effort. Any failure yields an
// empty list, never an error: suggestions are decoration, not the search.
type Suggester struct {
	baseURL string
	http    *http.Client
	logger  logger.Logger
}

// NewSuggester builds a suggestion client against a firefox-style
// suggestion endpoint.
func NewSuggester(baseURL string, log logger.Logger) *Suggester {
	return &Suggester{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
		logger:  log,
	}
}

// Suggest returns completions for a partial query. Empty input, transport
// failures and malformed payloads all resolve to an empty slice.
func (s *Suggester) Suggest(ctx context.Context, query string) []string {
	if strings.TrimSpace(query) == "" {
		return []string{}
	}

	params := url.Values{}
	params.Set("client", "firefox")
	params.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		s.logger.Debug("failed to build suggestion request", logger.Error(err))
		return []string{}
	}

	resp, err := s.http.Do(req)
	if err != nil {
		s.logger.Debug("suggestion fetch failed", logger.Error(err))
		return []string{}
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode != http.StatusOK {
		s.logger.Debug("suggestion endpoint returned non-200",
			logger.Int("status", resp.StatusCode))
		return []string{}
	}

	// Wire shape: [query, [suggestion, ...], ...]
	var payload []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || len(payload) < 2 {
		return []string{}
	}

	var suggestions []string
	if err := json.Unmarshal(payload[1], &suggestions); err != nil {
		return []string{}
	}

	return suggestions
}
