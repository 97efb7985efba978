package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"booktrack/internal/services"
)

const (
	apiVersion  = "2022-11-28"
	perPage     = 100
	maxPages    = 100
	userAgent   = "booktrack"
	acceptValue = "application/vnd.github+json"
)

// Client provides access to issues and comments of one repository.
type Client struct {
	token      string
	baseURL    string
	owner      string
	repo       string
	httpClient *http.Client
}

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

// New creates a client for owner/repo.
func New(token, baseURL, owner, repo string, opts ...Option) (*Client, error) {
	owner = strings.TrimSpace(owner)
	repo = strings.TrimSpace(repo)
	if owner == "" || repo == "" {
		return nil, errors.New("github owner and repository required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("github base url required")
	}
	client := &Client{
		token:      strings.TrimSpace(token),
		baseURL:    strings.TrimRight(baseURL, "/"),
		owner:      owner,
		repo:       repo,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Repository returns "owner/repo".
func (c *Client) Repository() string {
	return c.owner + "/" + c.repo
}

// CheckAccess verifies the token can read the repository.
func (c *Client) CheckAccess(ctx context.Context) error {
	var repo Repository
	path := fmt.Sprintf("/repos/%s/%s", url.PathEscape(c.owner), url.PathEscape(c.repo))
	return c.do(ctx, http.MethodGet, path, nil, nil, &repo)
}

// GetIssue fetches a single issue.
func (c *Client) GetIssue(ctx context.Context, number int) (*Issue, error) {
	if number <= 0 {
		return nil, services.Wrap(services.ErrValidation, "github", "get issue", "issue number must be positive", nil)
	}
	var issue Issue
	path := fmt.Sprintf("/repos/%s/%s/issues/%d", url.PathEscape(c.owner), url.PathEscape(c.repo), number)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// ListIssues returns every issue and pull request in the repository, open
// and closed, in API order.
func (c *Client) ListIssues(ctx context.Context) ([]Issue, error) {
	path := fmt.Sprintf("/repos/%s/%s/issues", url.PathEscape(c.owner), url.PathEscape(c.repo))
	var all []Issue
	for page := 1; page <= maxPages; page++ {
		params := url.Values{}
		params.Set("state", "all")
		params.Set("per_page", strconv.Itoa(perPage))
		params.Set("page", strconv.Itoa(page))

		var batch []Issue
		if err := c.do(ctx, http.MethodGet, path, params, nil, &batch); err != nil {
			return nil, fmt.Errorf("list issues page %d: %w", page, err)
		}
		all = append(all, batch...)
		if len(batch) < perPage {
			return all, nil
		}
	}
	return all, nil
}

// CreateComment posts body as a comment on issue number.
func (c *Client) CreateComment(ctx context.Context, number int, body string) error {
	if number <= 0 {
		return services.Wrap(services.ErrValidation, "github", "create comment", "issue number must be positive", nil)
	}
	payload := map[string]string{"body": body}
	path := fmt.Sprintf("/repos/%s/%s/issues/%d/comments", url.PathEscape(c.owner), url.PathEscape(c.repo), number)
	return c.do(ctx, http.MethodPost, path, nil, payload, nil)
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body any, out any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", acceptValue)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return services.Wrap(services.ErrExternal, "github", method+" "+path, fmt.Sprintf("latency=%v", latency), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		marker := services.ErrExternal
		if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
			marker = services.ErrNotFound
		}
		return services.Wrap(marker, "github", method+" "+path,
			fmt.Sprintf("status %d (latency=%v): %s", resp.StatusCode, latency, strings.TrimSpace(string(snippet))), nil)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return services.Wrap(services.ErrExternal, "github", method+" "+path, "decode response", err)
	}
	return nil
}
