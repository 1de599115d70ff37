package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Encodable is anything that can produce a JSON-serialisable form of itself.
type Encodable interface {
	Serialise() any
}

// Payload is a request body, serialised once at construction so the bytes
// that are signed are the bytes that are sent.
type Payload struct {
	body []byte
}

// NewObjectPayload wraps a single object. The API expects lists, so the
// object is sent as a one-element array unless overrideListing is set.
func NewObjectPayload(obj Encodable, overrideListing bool) (*Payload, error) {
	if obj == nil {
		return nil, fmt.Errorf("%w: nil object", ErrNotSerialisable)
	}
	if overrideListing {
		return marshalPayload(obj.Serialise())
	}
	return marshalPayload([]any{obj.Serialise()})
}

// NewListPayload serialises items in order into a JSON array.
func NewListPayload(items []Encodable) (*Payload, error) {
	data := make([]any, len(items))
	for i, item := range items {
		if item == nil {
			return nil, fmt.Errorf("%w: nil list element at index %d", ErrNotSerialisable, i)
		}
		data[i] = item.Serialise()
	}
	return marshalPayload(data)
}

// NewRawPayload sends data as-is. data must be JSON serialisable.
func NewRawPayload(data any) (*Payload, error) {
	if raw, ok := data.(json.RawMessage); ok {
		if !json.Valid(raw) {
			return nil, fmt.Errorf("%w: invalid raw JSON", ErrNotSerialisable)
		}
		compact, err := compactJSON(raw)
		if err != nil {
			return nil, err
		}
		return &Payload{body: compact}, nil
	}
	return marshalPayload(data)
}

// EncodeAll converts a typed slice into the []Encodable NewListPayload takes.
func EncodeAll[T Encodable](items []T) []Encodable {
	out := make([]Encodable, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

// Bytes returns a copy of the serialised body.
func (p *Payload) Bytes() []byte {
	if p == nil {
		return nil
	}
	out := make([]byte, len(p.body))
	copy(out, p.body)
	return out
}

func (p *Payload) String() string {
	if p == nil {
		return ""
	}
	return string(p.body)
}

func (p *Payload) bytes() []byte {
	if p == nil {
		return nil
	}
	return p.body
}

func marshalPayload(data any) (*Payload, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotSerialisable, err)
	}
	return &Payload{body: body}, nil
}

func compactJSON(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotSerialisable, err)
	}
	return buf.Bytes(), nil
}
