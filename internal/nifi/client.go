// Package nifi fetches process group status documents from the flow REST API.
package nifi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	retry "github.com/avast/retry-go"
	"go.uber.org/zap"

	"github.com/vburojevic/nifimon/internal/domain"
)

// DefaultPath is the flow endpoint for process groups, relative to the base URL
const DefaultPath = "/api/flow/process-groups"

// maxErrorBody caps how much of a failed response is kept on APIError
const maxErrorBody = 64 * 1024

// Config configures a Client
type Config struct {
	BaseURL  string
	Username string
	Password string
	Path     string

	// Timeout bounds each request; zero keeps the transport default.
	Timeout time.Duration
	// Retries is how many extra attempts a failed request gets. Zero means one
	// attempt per group.
	Retries    uint
	RetryDelay time.Duration

	UserAgent string
}

// Client issues GET requests for process groups
type Client struct {
	cfg    Config
	base   *url.URL
	http   *http.Client
	logger *zap.Logger
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used to report retries
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient validates cfg and returns a Client
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", cfg.BaseURL)
	}
	if cfg.Path == "" {
		cfg.Path = DefaultPath
	}

	c := &Client{
		cfg:    cfg,
		base:   base,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// GroupURL returns the endpoint for a process group. An empty id means root.
func (c *Client) GroupURL(groupID string) string {
	if groupID == "" {
		groupID = domain.RootGroupID
	}
	return c.base.String() + "/" + strings.Trim(c.cfg.Path, "/") + "/" + url.PathEscape(groupID)
}

// Fetch retrieves the status document for a process group. Non-200 responses
// are returned as *APIError.
func (c *Client) Fetch(ctx context.Context, groupID string) (*domain.ProcessGroupDocument, error) {
	target := c.GroupURL(groupID)
	if c.cfg.Retries == 0 {
		return c.fetchOnce(ctx, target)
	}

	var doc *domain.ProcessGroupDocument
	err := retry.Do(
		func() error {
			var err error
			doc, err = c.fetchOnce(ctx, target)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(c.cfg.Retries+1),
		retry.Delay(c.cfg.RetryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("",
				zap.String("event", "fetch_retry"),
				zap.String("url", target),
				zap.Uint("attempt", n+1),
				zap.Error(err),
			)
		}),
	)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (c *Client) fetchOnce(ctx context.Context, target string) (*domain.ProcessGroupDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	if c.cfg.Username != "" && c.cfg.Password != "" {
		req.SetBasicAuth(c.cfg.Username, c.cfg.Password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody+1))
		apiErr := &APIError{URL: target, StatusCode: resp.StatusCode}
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
			apiErr.Truncated = true
		}
		apiErr.Body = string(body)
		return nil, apiErr
	}

	var doc domain.ProcessGroupDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode response from %s: %w", target, err)
	}
	return &doc, nil
}

// retryable reports whether another attempt could succeed. Client errors
// (4xx) and context cancellation are final.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}
	return true
}
