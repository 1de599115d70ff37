package api

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(zerolog.Nop(), WithEndpoint(server.URL), WithClock(func() time.Time { return fixedTime }))
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name    string
		opts    []Option
		want    string
		wantErr bool
	}{
		{
			name: "production by default",
			want: ProductionEndpoint,
		},
		{
			name: "debug endpoint",
			opts: []Option{WithDebug(true)},
			want: DebugEndpoint,
		},
		{
			name: "explicit endpoint wins",
			opts: []Option{WithDebug(true), WithEndpoint("http://localhost:9000/")},
			want: "http://localhost:9000",
		},
		{
			name:    "invalid endpoint",
			opts:    []Option{WithEndpoint("ftp://example.com")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(logger, tt.opts...)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, client.BaseURL())
		})
	}
}

func TestClientOptions(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("default timeout", func(t *testing.T) {
		client, err := NewClient(logger)
		require.NoError(t, err)
		assert.Equal(t, DefaultTimeout, client.httpClient.Timeout)
	})

	t.Run("with timeout", func(t *testing.T) {
		client, err := NewClient(logger, WithTimeout(2*time.Second))
		require.NoError(t, err)
		assert.Equal(t, 2*time.Second, client.httpClient.Timeout)
	})

	t.Run("with custom http client", func(t *testing.T) {
		customClient := &http.Client{Timeout: 10 * time.Second}
		client, err := NewClient(logger, WithHTTPClient(customClient))
		require.NoError(t, err)
		assert.Equal(t, customClient, client.httpClient)
	})

	t.Run("with user agent", func(t *testing.T) {
		client, err := NewClient(logger, WithUserAgent("amatino-cli/1.2.3"))
		require.NoError(t, err)
		assert.Equal(t, "amatino-cli/1.2.3", client.userAgent)
	})
}

func TestClientDo(t *testing.T) {
	creds := testCredentials{key: "test-api-key", id: 42}

	t.Run("authenticated GET", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/accounts", r.URL.Path)
			assert.Equal(t, "entity_id=E1&account_id=7", r.URL.RawQuery)
			assert.Equal(t, "42", r.Header.Get("X-Session-ID"))
			assert.Equal(t, Sign("test-api-key", "/accounts", nil, fixedTime).String, r.Header.Get("X-Signature"))
			assert.Empty(t, r.Header.Get("Content-Type"))
			assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))

			w.Write([]byte(`[{"account_id":7}]`))
		})

		resp, err := client.Do(context.Background(), Request{
			Path:        "/accounts",
			Method:      MethodGet,
			Credentials: creds,
			Parameters:  NewParameters("E1", IntTarget("account_id", 7)),
		})
		require.NoError(t, err)
		list, err := resp.List()
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("signed bytes equal sent bytes", func(t *testing.T) {
		payload, err := NewObjectPayload(xObject{X: 1}, false)
		require.NoError(t, err)

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			assert.Equal(t, `[{"x":1}]`, string(body))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.Equal(t, Sign("test-api-key", "/transactions", body, fixedTime).String, r.Header.Get("X-Signature"))

			w.Write([]byte(`{"ok":true}`))
		})

		resp, err := client.Do(context.Background(), Request{
			Path:        "/transactions",
			Method:      MethodPost,
			Credentials: creds,
			Payload:     payload,
		})
		require.NoError(t, err)
		obj, err := resp.Object()
		require.NoError(t, err)
		assert.True(t, obj.Has("ok"))
	})

	t.Run("404 maps to resource not found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		_, err := client.Do(context.Background(), Request{Path: "/entities", Method: MethodGet, Credentials: creds})
		require.Error(t, err)

		var notFound *ResourceNotFoundError
		require.True(t, errors.As(err, &notFound))
		assert.Equal(t, "/entities", notFound.Path)
		assert.True(t, IsNotFound(err))
	})

	t.Run("other statuses map to APIError", func(t *testing.T) {
		tests := []struct {
			status       int
			unauthorized bool
			server       bool
		}{
			{status: http.StatusBadRequest},
			{status: http.StatusUnauthorized, unauthorized: true},
			{status: http.StatusForbidden, unauthorized: true},
			{status: http.StatusInternalServerError, server: true},
		}

		for _, tt := range tests {
			t.Run(http.StatusText(tt.status), func(t *testing.T) {
				client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tt.status)
					w.Write([]byte("nope"))
				})

				_, err := client.Do(context.Background(), Request{Path: "/entities", Method: MethodGet, Credentials: creds})
				var apiErr *APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, tt.status, apiErr.StatusCode)
				assert.Equal(t, "nope", apiErr.Body)
				assert.Equal(t, tt.unauthorized, apiErr.IsUnauthorized())
				assert.Equal(t, tt.unauthorized, IsUnauthorized(err))
				assert.Equal(t, tt.server, apiErr.IsServerError())
				assert.False(t, IsNotFound(err))
			})
		}
	})

	t.Run("empty success body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		resp, err := client.Do(context.Background(), Request{Path: "/session", Method: MethodDelete, Credentials: creds})
		require.NoError(t, err)
		assert.True(t, resp.Empty())
	})

	t.Run("scalar body is rejected", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`"hello"`))
		})

		_, err := client.Do(context.Background(), Request{Path: "/entities", Method: MethodGet, Credentials: creds})
		var typeErr *UnexpectedResponseTypeError
		require.True(t, errors.As(err, &typeErr))
		assert.Equal(t, "string", typeErr.Actual)
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})

	t.Run("invalid method", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("request should not be sent")
		})

		_, err := client.Do(context.Background(), Request{Path: "/entities", Method: "TRACE"})
		assert.ErrorIs(t, err, ErrInvalidMethod)
	})

	t.Run("transport error is wrapped", func(t *testing.T) {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		addr := listener.Addr().String()
		listener.Close()

		client, err := NewClient(zerolog.Nop(), WithEndpoint("http://"+addr))
		require.NoError(t, err)

		_, err = client.Do(context.Background(), Request{Path: "/entities", Method: MethodGet})
		require.Error(t, err)
		var opErr *net.OpError
		assert.True(t, errors.As(err, &opErr))
	})

	t.Run("timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		client, err := NewClient(zerolog.Nop(), WithEndpoint(server.URL), WithTimeout(20*time.Millisecond))
		require.NoError(t, err)

		_, err = client.Do(context.Background(), Request{Path: "/entities", Method: MethodGet})
		require.Error(t, err)
		var netErr net.Error
		require.True(t, errors.As(err, &netErr))
		assert.True(t, netErr.Timeout())
	})

	t.Run("single attempt", func(t *testing.T) {
		calls := 0
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		_, err := client.Do(context.Background(), Request{Path: "/entities", Method: MethodGet})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}
