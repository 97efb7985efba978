package googlebooks

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
const ProviderName = "google_books"

// ImageLinks lists the cover sizes Google Books may return.
type ImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
	Small          string `json:"small"`
	Medium         string `json:"medium"`
	Large          string `json:"large"`
	ExtraLarge     string `json:"extraLarge"`
}

// IndustryIdentifier is an ISBN or other identifier.
type IndustryIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

// VolumeInfo is the descriptive part of a volume.
type VolumeInfo struct {
	Title               string               `json:"title"`
	Subtitle            string               `json:"subtitle"`
	Authors             []string             `json:"authors"`
	PublishedDate       string               `json:"publishedDate"`
	Description         string               `json:"description"`
	PageCount           int                  `json:"pageCount"`
	IndustryIdentifiers []IndustryIdentifier `json:"industryIdentifiers"`
	ImageLinks          *ImageLinks          `json:"imageLinks"`
}

// Volume is a single search result.
type Volume struct {
	ID         string     `json:"id"`
	VolumeInfo VolumeInfo `json:"volumeInfo"`
}

// Response models the volumes search response.
type Response struct {
	TotalItems int      `json:"totalItems"`
	Items      []Volume `json:"items"`
}

// Client provides access to the Google Books volumes API.
type Client struct {
	apiKey     string
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

// New creates a Google Books client. apiKey may be empty.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("google books base url required")
	}
	client := &Client{
		apiKey:     strings.TrimSpace(apiKey),
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

// SearchVolumes queries volumes whose title matches query.
func (c *Client) SearchVolumes(ctx context.Context, query string, limit int) (*Response, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	endpoint, err := url.Parse(c.baseURL + "/volumes")
	if err != nil {
		return nil, fmt.Errorf("parse google books url: %w", err)
	}
	params := url.Values{}
	params.Set("q", "intitle:"+query)
	if limit > 0 {
		params.Set("maxResults", strconv.Itoa(limit))
	}
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
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
		return nil, fmt.Errorf("google books search returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var payload Response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode google books response: %w", err)
	}
	return &payload, nil
}

// Search implements metadata.Provider.
func (c *Client) Search(ctx context.Context, title string, limit int) ([]metadata.Candidate, error) {
	resp, err := c.SearchVolumes(ctx, title, limit)
	if err != nil {
		return nil, err
	}
	candidates := make([]metadata.Candidate, 0, len(resp.Items))
	for _, item := range resp.Items {
		candidates = append(candidates, item.Candidate())
	}
	return candidates, nil
}

// Candidate maps the volume onto the provider-neutral shape.
func (v Volume) Candidate() metadata.Candidate {
	info := v.VolumeInfo
	candidate := metadata.Candidate{
		ID:            v.ID,
		Title:         info.Title,
		Authors:       info.Authors,
		PublishedDate: info.PublishedDate,
		Description:   info.Description,
		PageCount:     info.PageCount,
	}
	if info.ImageLinks != nil {
		links := info.ImageLinks
		for _, link := range []string{links.ExtraLarge, links.Large, links.Medium, links.Small, links.Thumbnail, links.SmallThumbnail} {
			if strings.TrimSpace(link) != "" {
				candidate.ImageURLs = append(candidate.ImageURLs, link)
			}
		}
	}
	for _, id := range info.IndustryIdentifiers {
		candidate.Identifiers = append(candidate.Identifiers, metadata.Identifier{Type: id.Type, Value: id.Identifier})
	}
	return candidate
}
