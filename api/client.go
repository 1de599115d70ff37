package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Request describes one call to the API.
type Request struct {
	Path        string
	Method      Method
	Credentials Credentials
	Payload     *Payload
	Parameters  Parameters
}

// Client sends signed requests to the Amatino API. It holds no per-request
// state and is safe for concurrent use.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	now        func() time.Time
	logger     zerolog.Logger
}

// NewClient creates a new Amatino API client
func NewClient(logger zerolog.Logger, opts ...Option) (*Client, error) {
	o := &clientOptions{
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}

	baseURL := o.endpoint
	if baseURL == "" {
		baseURL = ProductionEndpoint
		if o.debug {
			baseURL = DebugEndpoint
		}
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("%w: endpoint %q must be an http(s) URL", ErrInvalidConfig, baseURL)
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: o.timeout}
	}

	return &Client{
		baseURL:    baseURL,
		userAgent:  o.userAgent,
		httpClient: httpClient,
		now:        o.now,
		logger:     logger,
	}, nil
}

// BaseURL returns the endpoint requests are sent to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do performs a single request. There are no retries: a transport failure,
// a 404 or any other non-2xx status is returned as an error.
func (c *Client) Do(ctx context.Context, r Request) (*Response, error) {
	if !r.Method.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMethod, r.Method)
	}
	if !strings.HasPrefix(r.Path, "/") {
		return nil, fmt.Errorf("path %q must begin with /", r.Path)
	}

	body := r.Payload.bytes()
	target := c.baseURL + r.Path + r.Parameters.String()

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method.String(), target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header = BuildHeaders(c.userAgent, r.Path, r.Credentials, body, c.now())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug().
		Str("method", r.Method.String()).
		Str("path", r.Path).
		Int("status", resp.StatusCode).
		Int("bytes", len(data)).
		Dur("duration", time.Since(start)).
		Msg("Amatino API request")

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &ResourceNotFoundError{Method: r.Method.String(), Path: r.Path}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       string(data),
		}
	}

	return newResponse(resp.StatusCode, data)
}
