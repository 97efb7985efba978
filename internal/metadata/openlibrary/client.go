package openlibrary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"booktrack/internal/metadata"
)

// ProviderName identifies this provider in matches and cache keys.
const ProviderName = "open_library"

const (
	coverBaseURL = "https://covers.openlibrary.org/b/id/"
	searchFields = "key,title,author_name,cover_i,isbn,first_publish_year,number_of_pages_median,first_sentence"
)

// Doc is one search.json document.
type Doc struct {
	Key               string   `json:"key"`
	Title             string   `json:"title"`
	AuthorNames       []string `json:"author_name"`
	CoverID           int64    `json:"cover_i"`
	ISBN              []string `json:"isbn"`
	FirstPublishYear  int      `json:"first_publish_year"`
	NumberOfPagesMean int      `json:"number_of_pages_median"`
	FirstSentence     []string `json:"first_sentence"`
}

// Response models the search.json payload.
type Response struct {
	NumFound int   `json:"numFound"`
	Docs     []Doc `json:"docs"`
}

// Client provides access to Open Library search.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ metadata.Provider = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the request timeout on the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// New creates an Open Library client.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("open library base url required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Name implements metadata.Provider.
func (c *Client) Name() string {
	return ProviderName
}

// SearchTitle runs a title search.
func (c *Client) SearchTitle(ctx context.Context, title string, limit int) (*Response, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("query must not be empty")
	}
	endpoint, err := url.Parse(c.baseURL + "/search.json")
	if err != nil {
		return nil, fmt.Errorf("parse open library url: %w", err)
	}
	params := url.Values{}
	params.Set("title", title)
	params.Set("fields", searchFields)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("open library search returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var payload Response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode open library response: %w", err)
	}
	return &payload, nil
}

// Search implements metadata.Provider.
func (c *Client) Search(ctx context.Context, title string, limit int) ([]metadata.Candidate, error) {
	resp, err := c.SearchTitle(ctx, title, limit)
	if err != nil {
		return nil, err
	}
	if resp.NumFound == 0 {
		return nil, nil
	}
	candidates := make([]metadata.Candidate, 0, len(resp.Docs))
	for _, doc := range resp.Docs {
		candidates = append(candidates, doc.Candidate())
	}
	return candidates, nil
}

// CoverURL returns the cover link for id in the given size (S, M or L).
func CoverURL(id int64, size string) string {
	if id <= 0 {
		return ""
	}
	return coverBaseURL + strconv.FormatInt(id, 10) + "-" + size + ".jpg"
}

// Candidate maps the document onto the provider-neutral shape.
func (d Doc) Candidate() metadata.Candidate {
	candidate := metadata.Candidate{
		ID:        strings.TrimPrefix(d.Key, "/works/"),
		Title:     d.Title,
		Authors:   d.AuthorNames,
		PageCount: d.NumberOfPagesMean,
	}
	if d.CoverID > 0 {
		candidate.ImageURLs = []string{CoverURL(d.CoverID, "L"), CoverURL(d.CoverID, "M")}
	}
	if d.FirstPublishYear > 0 {
		candidate.PublishedDate = strconv.Itoa(d.FirstPublishYear)
	}
	if len(d.FirstSentence) > 0 {
		candidate.Description = d.FirstSentence[0]
	}
	for _, isbn := range d.ISBN {
		isbn = strings.TrimSpace(isbn)
		switch len(isbn) {
		case 13:
			candidate.Identifiers = append(candidate.Identifiers, metadata.Identifier{Type: metadata.IdentifierISBN13, Value: isbn})
		case 10:
			candidate.Identifiers = append(candidate.Identifiers, metadata.Identifier{Type: metadata.IdentifierISBN10, Value: isbn})
		}
	}
	return candidate
}
