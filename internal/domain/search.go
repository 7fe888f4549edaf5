package domain

import "strings"

// SearchType selects the result tab requested by the user.
type SearchType string

const (
	SearchTypeAll   SearchType = "all"
	SearchTypeImage SearchType = "image"
)

// ParseSearchType maps a request parameter to a SearchType, defaulting to all.
func ParseSearchType(s string) SearchType {
	if SearchType(strings.ToLower(strings.TrimSpace(s))) == SearchTypeImage {
		return SearchTypeImage
	}
	return SearchTypeAll
}

// SearchResultItem is one displayable result from the external search API.
type SearchResultItem struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet,omitempty"`
}

// MaxResultPages is the external API's own paging ceiling.
const MaxResultPages = 10

// ResultsPerPage is fixed by the external API.
const ResultsPerPage = 10

// TotalPages computes how many result pages are displayable for a total
// result count: ceil(total/10), capped at MaxResultPages.
func TotalPages(totalResults int) int {
	if totalResults <= 0 {
		return 0
	}
	pages := (totalResults + ResultsPerPage - 1) / ResultsPerPage
	if pages > MaxResultPages {
		return MaxResultPages
	}
	return pages
}

// SearchErrorCategory is one of the three user-facing failure buckets a raw
// search API error collapses into.
type SearchErrorCategory string

const (
	SearchErrorQuota     SearchErrorCategory = "quota_exhausted"
	SearchErrorBadAPIKey SearchErrorCategory = "configuration_error"
	SearchErrorGeneric   SearchErrorCategory = "transient_error"
)

// Message returns the text shown to the user for the category.
func (c SearchErrorCategory) Message() string {
	switch c {
	case SearchErrorQuota:
		return "The free daily search limit has been reached. Please try again tomorrow."
	case SearchErrorBadAPIKey:
		return "The search API key is not valid. Please check the configuration."
	default:
		return "An error occurred while fetching results. Please try again later."
	}
}

// CategorizeSearchError maps a raw search API error to a user-facing
// category by substring match on the lower-cased message.
func CategorizeSearchError(err error) SearchErrorCategory {
	if err == nil {
		return SearchErrorGeneric
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "quota exceeded"):
		return SearchErrorQuota
	case strings.Contains(msg, "api key not valid"):
		return SearchErrorBadAPIKey
	default:
		return SearchErrorGeneric
	}
}
