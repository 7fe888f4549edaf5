package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TempIDPrefix marks a promotion created client-side that has not been
// persisted yet. The store strips it and assigns a permanent id on insert.
const TempIDPrefix = "new-"

// Field limits enforced on save. They match the admin form constraints.
const (
	MaxTitleLength       = 160
	MaxURLLength         = 2000
	MaxDescriptionLength = 200
	MaxQueriesPerPromo   = 100
)

// Promotion is a sponsor-defined record overlaid on search results when the
// user's query matches one of its trigger queries.
type Promotion struct {
	// ─────────────────────────────
	// Identity
	// ─────────────────────────────

	// ID is the store-assigned identifier. Records not yet persisted carry
	// a temporary id ("new-" + uuid) until the first successful insert.
	ID string `json:"id"`

	// ─────────────────────────────
	// Content
	// ─────────────────────────────

	// Title and URL are required; Description may be empty.
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`

	// Queries are the trigger strings, stored as entered. Matching is
	// case-insensitive and trimmed. Capped at MaxQueriesPerPromo, no
	// duplicates within one promotion.
	Queries []string `json:"queries"`

	// ─────────────────────────────
	// Metadata
	// ─────────────────────────────

	// CreatedAt is assigned by the store on first insert.
	CreatedAt time.Time `json:"created_at"`
}

// NewPromotion returns an empty promotion with a temporary id, ready for
// editing in the admin working set.
func NewPromotion() *Promotion {
	return &Promotion{
		ID:      TempIDPrefix + uuid.NewString(),
		Queries: []string{},
	}
}

// IsTemporary reports whether the promotion has not been persisted yet.
func (p *Promotion) IsTemporary() bool {
	return strings.HasPrefix(p.ID, TempIDPrefix)
}

// AddQuery appends a trigger query after trimming. Empty strings, duplicates
// and additions beyond MaxQueriesPerPromo are ignored.
func (p *Promotion) AddQuery(q string) bool {
	q = strings.TrimSpace(q)
	if q == "" || len(p.Queries) >= MaxQueriesPerPromo {
		return false
	}
	for _, existing := range p.Queries {
		if existing == q {
			return false
		}
	}
	p.Queries = append(p.Queries, q)
	return true
}

// Validate checks the persistence invariants: non-empty title and url,
// field length caps, queries cap.
func (p *Promotion) Validate() error {
	switch {
	case strings.TrimSpace(p.Title) == "":
		return ErrTitleRequired
	case strings.TrimSpace(p.URL) == "":
		return ErrURLRequired
	case len(p.Title) > MaxTitleLength:
		return ErrTitleTooLong
	case len(p.URL) > MaxURLLength:
		return ErrURLTooLong
	case len(p.Description) > MaxDescriptionLength:
		return ErrDescriptionTooLong
	case len(p.Queries) > MaxQueriesPerPromo:
		return ErrTooManyQueries
	}
	return nil
}

// Clone returns a deep copy. The index hands out clones so callers can edit
// a working set without mutating the cached snapshot.
func (p *Promotion) Clone() *Promotion {
	cp := *p
	cp.Queries = make([]string, len(p.Queries))
	copy(cp.Queries, p.Queries)
	return &cp
}

// ClonePromotions deep-copies a promotion slice.
func ClonePromotions(promotions []*Promotion) []*Promotion {
	out := make([]*Promotion, len(promotions))
	for i, p := range promotions {
		out[i] = p.Clone()
	}
	return out
}

// EqualPromotions reports whether two promotions have identical content.
// The comparison is explicit and field-by-field, order-sensitive on Queries,
// so it cannot be fooled by serialization key ordering.
func EqualPromotions(a, b *Promotion) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.ID != b.ID || a.Title != b.Title || a.Description != b.Description || a.URL != b.URL {
		return false
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return false
	}
	if len(a.Queries) != len(b.Queries) {
		return false
	}
	for i := range a.Queries {
		if a.Queries[i] != b.Queries[i] {
			return false
		}
	}
	return true
}

// NormalizeQuery canonicalizes a query for promotion matching: leading and
// trailing whitespace is trimmed and the result is lower-cased. Idempotent.
func NormalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}
