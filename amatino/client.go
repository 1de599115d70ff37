package amatino

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/s0up4200/amatino/api"
)

// Requester sends one API request. *api.Client satisfies it.
type Requester interface {
	Do(ctx context.Context, r api.Request) (*api.Response, error)
}

// Client performs Amatino operations on behalf of one Session.
type Client struct {
	api     Requester
	session Session
	logger  zerolog.Logger
}

// New returns a Client that signs every request with session.
func New(requester Requester, session Session, logger zerolog.Logger) *Client {
	return &Client{
		api:     requester,
		session: session,
		logger:  logger,
	}
}

// Session returns the session the client signs with
func (c *Client) Session() Session {
	return c.session
}

// Request is a raw signed call for API features without a typed binding.
// query is used verbatim and body, when non-nil, is sent as-is.
func (c *Client) Request(ctx context.Context, method api.Method, path, query string, body any) (*api.Response, error) {
	var payload *api.Payload
	if body != nil {
		p, err := api.NewRawPayload(body)
		if err != nil {
			return nil, err
		}
		payload = p
	}

	return c.api.Do(ctx, api.Request{
		Path:        path,
		Method:      method,
		Credentials: c.session,
		Payload:     payload,
		Parameters:  api.RawParameters(query),
	})
}

// call is the typed path shared by every resource.
func (c *Client) call(ctx context.Context, method api.Method, path string, payload *api.Payload, params api.Parameters) (*api.Response, error) {
	resp, err := c.api.Do(ctx, api.Request{
		Path:        path,
		Method:      method,
		Credentials: c.session,
		Payload:     payload,
		Parameters:  params,
	})
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

func (c *Client) send(ctx context.Context, method api.Method, path string, obj api.Encodable, params api.Parameters) (*api.Response, error) {
	payload, err := api.NewObjectPayload(obj, false)
	if err != nil {
		return nil, err
	}
	return c.call(ctx, method, path, payload, params)
}

func (c *Client) sendBare(ctx context.Context, method api.Method, path string, obj api.Encodable, params api.Parameters) (*api.Response, error) {
	payload, err := api.NewObjectPayload(obj, true)
	if err != nil {
		return nil, err
	}
	return c.call(ctx, method, path, payload, params)
}

func (c *Client) sendList(ctx context.Context, method api.Method, path string, items []api.Encodable, params api.Parameters) (*api.Response, error) {
	payload, err := api.NewListPayload(items)
	if err != nil {
		return nil, err
	}
	return c.call(ctx, method, path, payload, params)
}

// firstOrObject decodes a body that is either a single object or a list
// holding one.
func firstOrObject[T any](data json.RawMessage, decode api.DecodeFunc[T]) (T, error) {
	if _, err := api.AsList(data); err == nil {
		return api.DecodeFirst(data, decode)
	}
	return decode(data)
}
