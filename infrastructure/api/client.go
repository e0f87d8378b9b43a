// Package api implements contract.ContentClient against the school web API.
package api

import (
	"bytes"
	"class-detail/domain"
	"class-detail/errors"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const userAgent = "class-detail/1.0"

// Client is safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	token      string
	httpClient *http.Client
	log        *slog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client (tests, custom transports).
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithSessionToken sends the session token as a bearer credential.
func WithSessionToken(token string) Option {
	return func(client *Client) {
		client.token = token
	}
}

func NewClient(log *slog.Logger, baseURL string, timeout time.Duration, options ...Option) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: scheme and host are required", baseURL)
	}

	client := &Client{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
	for _, option := range options {
		option(client)
	}
	return client, nil
}

// PossibleContent lists the content descriptors configured for a section.
func (c *Client) PossibleContent(ctx context.Context, sectionID string) ([]domain.ContentDescriptor, error) {
	query := url.Values{}
	query.Set("format", "json")
	query.Set("leadSectionId", sectionID)

	body, err := c.get(ctx, c.endpoint("/api/datadirect/GroupPossibleContentGet/", query))
	if err != nil {
		return nil, err
	}

	var descriptors []domain.ContentDescriptor
	if err := decodeArray(body, &descriptors); err != nil {
		return nil, fmt.Errorf("possible content for section %s: %w", sectionID, err)
	}
	return descriptors, nil
}

// CategoryContent fetches every active item of one category.
func (c *Client) CategoryContent(ctx context.Context, category domain.Category, sectionID string) ([]domain.ContentItem, error) {
	body, err := c.get(ctx, c.forSection(category, sectionID))
	if err != nil {
		return nil, err
	}

	var items []domain.ContentItem
	if err := decodeArray(body, &items); err != nil {
		return nil, fmt.Errorf("%s content for section %s: %w", category, sectionID, err)
	}
	return items, nil
}

func (c *Client) Syllabus(ctx context.Context, sectionID string) ([]domain.ContentItem, error) {
	return c.CategoryContent(ctx, domain.Syllabus, sectionID)
}

// Download fetches raw bytes. Relative urls are resolved against the base url.
func (c *Client) Download(ctx context.Context, rawURL string) ([]byte, error) {
	target, err := c.resolve(rawURL)
	if err != nil {
		return nil, err
	}
	return c.get(ctx, target)
}

// forSection builds /api/{category}/forsection/{id}/ with the active-only filters.
func (c *Client) forSection(category domain.Category, sectionID string) string {
	query := url.Values{}
	query.Set("format", "json")
	query.Set("active", "true")
	query.Set("future", "false")
	query.Set("expired", "false")
	path := fmt.Sprintf("/api/%s/forsection/%s/", category.Slug(), sectionID)
	return c.endpoint(path, query)
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = query.Encode()
	return u.String()
}

func (c *Client) resolve(rawURL string) (string, error) {
	ref, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid download url %q: %w", rawURL, err)
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(ref.Path, "/")
	u.RawQuery = ref.RawQuery
	return u.String(), nil
}

func (c *Client) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json, */*")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s failed: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	c.log.Debug("api call", "path", req.URL.Path, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %d", errors.ErrUnexpectedStatus, req.URL.Path, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

// decodeArray rejects empty bodies and anything that is not a JSON array.
func decodeArray(body []byte, out any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty response body")
	}
	if trimmed[0] != '[' {
		return fmt.Errorf("incorrect data format: expected a JSON array")
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return fmt.Errorf("incorrect data format: %w", err)
	}
	return nil
}
