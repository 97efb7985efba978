package metadata

import "context"

// Identifier types reported by providers.
const (
	IdentifierISBN13 = "ISBN_13"
	IdentifierISBN10 = "ISBN_10"
)

// Identifier is one industry identifier attached to a candidate.
type Identifier struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Candidate is one ranked search result as reported by a provider.
type Candidate struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Authors       []string     `json:"authors,omitempty"`
	ImageURLs     []string     `json:"image_urls,omitempty"` // largest first
	Identifiers   []Identifier `json:"identifiers,omitempty"`
	PublishedDate string       `json:"published_date,omitempty"`
	Description   string       `json:"description,omitempty"`
	PageCount     int          `json:"page_count,omitempty"`
}

// Provider searches an external catalog by title.
type Provider interface {
	Name() string
	Search(ctx context.Context, title string, limit int) ([]Candidate, error)
}
