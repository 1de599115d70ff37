package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Response is the decoded outcome of one successful exchange.
type Response struct {
	StatusCode int
	data       json.RawMessage
}

func newResponse(status int, body []byte) (*Response, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return &Response{StatusCode: status}, nil
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidResponse)
	}
	if kind := jsonKind(body); kind != kindObject && kind != kindList {
		return nil, &UnexpectedResponseTypeError{Expected: "object or list", Actual: kind}
	}
	return &Response{StatusCode: status, data: body}, nil
}

// Raw returns the response JSON, or nil when the API sent no body.
func (r *Response) Raw() json.RawMessage {
	return r.data
}

// Empty reports whether the API sent no body.
func (r *Response) Empty() bool {
	return len(r.data) == 0
}

// Object returns the body as a JSON object.
func (r *Response) Object() (Object, error) {
	return AsObject(r.data)
}

// List returns the body as a JSON array.
func (r *Response) List() ([]json.RawMessage, error) {
	return AsList(r.data)
}

// Indent returns the body pretty-printed for display.
func (r *Response) Indent() string {
	if r.Empty() {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, r.data, "", "  "); err != nil {
		return string(r.data)
	}
	return buf.String()
}
