package domain

import (
	"errors"
	"testing"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		name  string
		total int
		want  int
	}{
		{"zero results", 0, 0},
		{"negative guarded", -3, 0},
		{"partial page", 7, 1},
		{"exact page", 10, 1},
		{"ninety five results", 95, 10},
		{"exactly ten pages", 100, 10},
		{"capped at ten", 12345, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TotalPages(tt.total); got != tt.want {
				t.Errorf("TotalPages(%d) = %d, want %d", tt.total, got, tt.want)
			}
		})
	}
}

func TestCategorizeSearchError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want SearchErrorCategory
	}{
		{"quota lowercase", errors.New("quota exceeded"), SearchErrorQuota},
		{"quota mixed case", errors.New("Quota Exceeded for today"), SearchErrorQuota},
		{"bad api key", errors.New("API key not valid. Please pass a valid API key."), SearchErrorBadAPIKey},
		{"network error", errors.New("connection refused"), SearchErrorGeneric},
		{"nil error", nil, SearchErrorGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CategorizeSearchError(tt.err); got != tt.want {
				t.Errorf("CategorizeSearchError(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestSearchErrorCategoryMessages(t *testing.T) {
	for _, c := range []SearchErrorCategory{SearchErrorQuota, SearchErrorBadAPIKey, SearchErrorGeneric} {
		if c.Message() == "" {
			t.Errorf("category %q has no user-facing message", c)
		}
	}
}

func TestParseSearchType(t *testing.T) {
	if got := ParseSearchType("image"); got != SearchTypeImage {
		t.Errorf("ParseSearchType(image) = %q", got)
	}
	if got := ParseSearchType(" IMAGE "); got != SearchTypeImage {
		t.Errorf("ParseSearchType should trim and lowercase, got %q", got)
	}
	for _, s := range []string{"", "all", "web", "garbage"} {
		if got := ParseSearchType(s); got != SearchTypeAll {
			t.Errorf("ParseSearchType(%q) = %q, want all", s, got)
		}
	}
}
