package api

import (
	"net/http"
	"time"
)

const (
	// ProductionEndpoint is the live API.
	ProductionEndpoint = "https://api.amatino.io"
	// DebugEndpoint is a locally running API instance.
	DebugEndpoint = "http://127.0.0.1:5000"

	// DefaultTimeout bounds each request.
	DefaultTimeout = 5 * time.Second
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	endpoint   string
	debug      bool
	timeout    time.Duration
	userAgent  string
	httpClient *http.Client
	now        func() time.Time
}

// WithDebug points the client at the local debug endpoint.
func WithDebug(debug bool) Option {
	return func(o *clientOptions) {
		o.debug = debug
	}
}

// WithEndpoint overrides the API base URL. It wins over WithDebug.
func WithEndpoint(endpoint string) Option {
	return func(o *clientOptions) {
		o.endpoint = endpoint
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		o.userAgent = userAgent
	}
}

// WithHTTPClient uses the supplied http.Client as-is, ignoring WithTimeout.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithClock replaces the time source used for signing.
func WithClock(now func() time.Time) Option {
	return func(o *clientOptions) {
		if now != nil {
			o.now = now
		}
	}
}
