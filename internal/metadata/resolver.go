package metadata

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"booktrack/internal/logging"
	"booktrack/internal/services"
	"booktrack/internal/textutil"
)

// DefaultMaxResults caps the candidates requested per lookup.
const DefaultMaxResults = 5

// UnknownAuthor is used when the chosen candidate lists no authors.
const UnknownAuthor = "Unknown"

// Match is the normalized record selected for a title.
type Match struct {
	Provider      string `json:"provider"`
	ID            string `json:"id,omitempty"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	Image         string `json:"image"`
	ISBN          string `json:"isbn,omitempty"`
	PublishedDate string `json:"published_date,omitempty"`
	Description   string `json:"description,omitempty"`
	PageCount     int    `json:"page_count,omitempty"`
}

// Resolver applies the selection policy on top of a Provider.
type Resolver struct {
	provider   Provider
	maxResults int
	logger     *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithMaxResults overrides the candidate cap. Values below one are ignored.
func WithMaxResults(n int) ResolverOption {
	return func(r *Resolver) {
		if n > 0 {
			r.maxResults = n
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver builds a resolver over provider.
func NewResolver(provider Provider, opts ...ResolverOption) *Resolver {
	r := &Resolver{provider: provider, maxResults: DefaultMaxResults}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "metadata")
	return r
}

// ProviderName reports the underlying provider.
func (r *Resolver) ProviderName() string {
	if r == nil || r.provider == nil {
		return ""
	}
	return r.provider.Name()
}

// Resolve looks up title and returns the selected match. The boolean is false
// when the provider reported no candidates.
func (r *Resolver) Resolve(ctx context.Context, title string) (Match, bool, error) {
	query := textutil.NormalizeSpace(title)
	if query == "" {
		return Match{}, false, services.Wrap(services.ErrValidation, "metadata", "resolve", "title is empty", nil)
	}
	if r.provider == nil {
		return Match{}, false, services.Wrap(services.ErrConfiguration, "metadata", "resolve", "no provider configured", nil)
	}

	start := time.Now()
	candidates, err := r.provider.Search(ctx, query, r.maxResults)
	latency := time.Since(start)
	if err != nil {
		return Match{}, false, services.Wrap(services.ErrExternal, "metadata", r.provider.Name(), "search failed", err)
	}
	if len(candidates) > r.maxResults {
		candidates = candidates[:r.maxResults]
	}
	if len(candidates) == 0 {
		r.logger.Info("no metadata candidates",
			logging.String(logging.FieldEventType, "metadata_miss"),
			logging.String("query", query),
			logging.String("provider", r.provider.Name()),
			logging.Duration("latency", latency))
		return Match{}, false, nil
	}

	chosen, index := Select(candidates)
	match := Normalize(chosen, query)
	match.Provider = r.provider.Name()

	attrs := logging.Decision("candidate_selection", match.Title, selectionReason(index, match.Image))
	attrs = append(attrs,
		logging.String(logging.FieldEventType, "metadata_match"),
		logging.String("query", query),
		logging.String("provider", match.Provider),
		logging.Int("candidates", len(candidates)),
		logging.Int("selected_index", index),
		logging.Duration("latency", latency))
	r.logger.Info("metadata resolved", logging.Args(attrs...)...)
	return match, true, nil
}

func selectionReason(index int, image string) string {
	switch {
	case image == "":
		return "no candidate had a cover image"
	case index == 0:
		return "top candidate has a cover image"
	default:
		return "first candidate with a cover image"
	}
}

// Select returns the first candidate with a usable image, or the first
// candidate when none has one. candidates must be non-empty.
func Select(candidates []Candidate) (Candidate, int) {
	for i, candidate := range candidates {
		if usableImage(candidate) != "" {
			return candidate, i
		}
	}
	return candidates[0], 0
}

func usableImage(c Candidate) string {
	for _, link := range c.ImageURLs {
		if link = strings.TrimSpace(link); link != "" {
			return link
		}
	}
	return ""
}

// Normalize converts a candidate into the stored shape. query is used when
// the candidate has no title.
func Normalize(c Candidate, query string) Match {
	title := textutil.NormalizeSpace(c.Title)
	if title == "" {
		title = textutil.NormalizeSpace(query)
	}
	return Match{
		ID:            strings.TrimSpace(c.ID),
		Title:         title,
		Author:        textutil.JoinAuthors(c.Authors, UnknownAuthor),
		Image:         textutil.SecureURL(usableImage(c)),
		ISBN:          PreferredISBN(c.Identifiers),
		PublishedDate: strings.TrimSpace(c.PublishedDate),
		Description:   strings.TrimSpace(c.Description),
		PageCount:     max(c.PageCount, 0),
	}
}

// PreferredISBN returns the ISBN-13 when present, else the ISBN-10.
func PreferredISBN(ids []Identifier) string {
	var isbn10 string
	for _, id := range ids {
		value := strings.TrimSpace(id.Value)
		if value == "" {
			continue
		}
		switch id.Type {
		case IdentifierISBN13:
			return value
		case IdentifierISBN10:
			if isbn10 == "" {
				isbn10 = value
			}
		}
	}
	return isbn10
}
