package googlebooks_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"booktrack/internal/metadata"
	"booktrack/internal/metadata/googlebooks"
)

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := googlebooks.New("key", " "); err == nil {
		t.Fatal("expected error when base url missing")
	}
}

func TestSearchMapsVolumes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/volumes" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		query := r.URL.Query()
		if query.Get("q") != "intitle:Dune" {
			t.Errorf("unexpected q %q", query.Get("q"))
		}
		if query.Get("maxResults") != "3" || query.Get("key") != "secret" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"totalItems":1,"items":[{"id":"B1","volumeInfo":{
			"title":"Dune","authors":["Frank Herbert"],"publishedDate":"1965","description":"Spice","pageCount":412,
			"industryIdentifiers":[{"type":"ISBN_10","identifier":"0441013597"},{"type":"ISBN_13","identifier":"9780441013593"}],
			"imageLinks":{"smallThumbnail":"http://img/small","thumbnail":"http://img/thumb"}}}]}`))
	}))
	t.Cleanup(server.Close)

	client, err := googlebooks.New("secret", server.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	candidates, err := client.Search(context.Background(), "Dune", 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected one candidate, got %d", len(candidates))
	}
	got := candidates[0]
	if got.ID != "B1" || got.Title != "Dune" || got.PageCount != 412 {
		t.Fatalf("unexpected candidate: %+v", got)
	}
	if len(got.ImageURLs) != 2 || got.ImageURLs[0] != "http://img/thumb" {
		t.Fatalf("expected thumbnail before smallThumbnail, got %v", got.ImageURLs)
	}
	if metadata.PreferredISBN(got.Identifiers) != "9780441013593" {
		t.Fatalf("unexpected identifiers %v", got.Identifiers)
	}
}

func TestSearchOmitsEmptyKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.URL.Query()["key"]; ok {
			t.Errorf("key must be omitted when empty")
		}
		_, _ = w.Write([]byte(`{"totalItems":0}`))
	}))
	t.Cleanup(server.Close)

	client, err := googlebooks.New("", server.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	candidates, err := client.Search(context.Background(), "Nothing", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(candidates) != 0 {
		t.Fatalf("expected no candidates, got %d", len(candidates))
	}
}

func TestSearchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)

	client, err := googlebooks.New("", server.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := client.Search(context.Background(), "Dune", 5); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	client, err := googlebooks.New("", "https://example.com")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := client.Search(context.Background(), "  ", 5); err == nil {
		t.Fatal("expected error for empty query")
	}
}
