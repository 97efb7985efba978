package metadata_test

import (
	"context"
	"errors"
	"testing"

	"booktrack/internal/metadata"
	"booktrack/internal/services"
)

type stubProvider struct {
	candidates []metadata.Candidate
	err        error
	gotTitle   string
	gotLimit   int
	calls      int
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Search(_ context.Context, title string, limit int) ([]metadata.Candidate, error) {
	s.calls++
	s.gotTitle = title
	s.gotLimit = limit
	return s.candidates, s.err
}

func TestResolvePrefersFirstCandidateWithImage(t *testing.T) {
	provider := &stubProvider{candidates: []metadata.Candidate{
		{ID: "a", Title: "Dune (abridged)"},
		{ID: "b", Title: "Dune", Authors: []string{"Frank Herbert"}, ImageURLs: []string{"", "http://books.example/dune.jpg"}},
		{ID: "c", Title: "Dune", ImageURLs: []string{"https://books.example/other.jpg"}},
	}}
	resolver := metadata.NewResolver(provider)

	match, ok, err := resolver.Resolve(context.Background(), "  Dune ")
	if err != nil || !ok {
		t.Fatalf("Resolve = %v, %v", ok, err)
	}
	if provider.gotTitle != "Dune" || provider.gotLimit != metadata.DefaultMaxResults {
		t.Fatalf("unexpected search args %q %d", provider.gotTitle, provider.gotLimit)
	}
	if match.ID != "b" || match.Author != "Frank Herbert" {
		t.Fatalf("wrong candidate selected: %+v", match)
	}
	if match.Image != "https://books.example/dune.jpg" {
		t.Fatalf("expected https upgrade, got %q", match.Image)
	}
	if match.Provider != "stub" {
		t.Fatalf("provider not recorded: %q", match.Provider)
	}
}

func TestResolveFallsBackToFirstCandidate(t *testing.T) {
	provider := &stubProvider{candidates: []metadata.Candidate{
		{ID: "first"},
		{ID: "second", Title: "Other"},
	}}
	match, ok, err := metadata.NewResolver(provider, metadata.WithMaxResults(2)).Resolve(context.Background(), "Query Title")
	if err != nil || !ok {
		t.Fatalf("Resolve = %v, %v", ok, err)
	}
	if match.ID != "first" {
		t.Fatalf("expected first candidate, got %+v", match)
	}
	if match.Title != "Query Title" {
		t.Fatalf("expected title fallback to query, got %q", match.Title)
	}
	if match.Author != metadata.UnknownAuthor || match.Image != "" {
		t.Fatalf("unexpected defaults: %+v", match)
	}
	if provider.gotLimit != 2 {
		t.Fatalf("expected limit 2, got %d", provider.gotLimit)
	}
}

func TestResolveMissIsNotError(t *testing.T) {
	match, ok, err := metadata.NewResolver(&stubProvider{}).Resolve(context.Background(), "Zzzxyq Nonexistent Book")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected miss, got %+v", match)
	}
}

func TestResolveFaultIsExternal(t *testing.T) {
	provider := &stubProvider{err: errors.New("connection reset")}
	_, ok, err := metadata.NewResolver(provider).Resolve(context.Background(), "Dune")
	if ok || err == nil {
		t.Fatalf("expected fault, got ok=%v err=%v", ok, err)
	}
	if !errors.Is(err, services.ErrExternal) {
		t.Fatalf("expected ErrExternal, got %v", err)
	}
}

func TestResolveEmptyTitle(t *testing.T) {
	provider := &stubProvider{}
	if _, _, err := metadata.NewResolver(provider).Resolve(context.Background(), "   "); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if provider.calls != 0 {
		t.Fatal("provider must not be called for empty title")
	}
}

func TestPreferredISBN(t *testing.T) {
	ids := []metadata.Identifier{
		{Type: metadata.IdentifierISBN10, Value: "0441013597"},
		{Type: "OTHER", Value: "x"},
		{Type: metadata.IdentifierISBN13, Value: "9780441013593"},
	}
	if got := metadata.PreferredISBN(ids); got != "9780441013593" {
		t.Fatalf("expected ISBN-13, got %q", got)
	}
	if got := metadata.PreferredISBN(ids[:2]); got != "0441013597" {
		t.Fatalf("expected ISBN-10 fallback, got %q", got)
	}
	if got := metadata.PreferredISBN(nil); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestNormalizeJoinsAuthors(t *testing.T) {
	match := metadata.Normalize(metadata.Candidate{
		Title:     "Good Omens",
		Authors:   []string{"Terry Pratchett", "Neil Gaiman"},
		PageCount: -1,
	}, "ignored")
	if match.Author != "Terry Pratchett, Neil Gaiman" {
		t.Fatalf("unexpected author %q", match.Author)
	}
	if match.PageCount != 0 {
		t.Fatalf("negative page count must clamp to zero, got %d", match.PageCount)
	}
}
