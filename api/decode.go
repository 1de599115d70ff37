package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

const (
	kindObject = "object"
	kindList   = "list"
	kindString = "string"
	kindBool   = "bool"
	kindNull   = "null"
	kindNumber = "number"
	kindEmpty  = "empty body"
)

// DecodeFunc builds a value from raw response JSON.
type DecodeFunc[T any] func(data json.RawMessage) (T, error)

// Object is a JSON object whose values are decoded on demand.
type Object map[string]json.RawMessage

// AsObject checks that data is a JSON object and splits it into its keys.
func AsObject(data json.RawMessage) (Object, error) {
	if kind := jsonKind(data); kind != kindObject {
		return nil, &UnexpectedResponseTypeError{Expected: kindObject, Actual: kind}
	}
	var obj Object
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	return obj, nil
}

// AsList checks that data is a JSON array and splits it into its elements.
func AsList(data json.RawMessage) ([]json.RawMessage, error) {
	if kind := jsonKind(data); kind != kindList {
		return nil, &UnexpectedResponseTypeError{Expected: kindList, Actual: kind}
	}
	var list []json.RawMessage
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	return list, nil
}

// Has reports whether key is present, null or not.
func (o Object) Has(key string) bool {
	_, ok := o[key]
	return ok
}

// IsNull reports whether key is present with a null value.
func (o Object) IsNull(key string) bool {
	v, ok := o[key]
	return ok && jsonKind(v) == kindNull
}

// Require decodes key into dst. An absent key is a *MissingKeyError. A null
// is accepted only when dst points at a pointer, map, slice or interface,
// which are left nil; any other destination gets an
// *UnexpectedResponseTypeError.
func (o Object) Require(key string, dst any) error {
	v, ok := o[key]
	if !ok {
		return &MissingKeyError{Key: key}
	}
	if jsonKind(v) == kindNull && !nullable(dst) {
		return &UnexpectedResponseTypeError{Key: key, Expected: "non-null value", Actual: kindNull}
	}
	if err := json.Unmarshal(v, dst); err != nil {
		return fmt.Errorf("%w: key %q: %w", ErrInvalidResponse, key, err)
	}
	return nil
}

func nullable(dst any) bool {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return false
	}
	switch rv.Elem().Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return true
	}
	return false
}

// Optional decodes key into dst when present and reports whether it was.
func (o Object) Optional(key string, dst any) (bool, error) {
	if _, ok := o[key]; !ok {
		return false, nil
	}
	return true, o.Require(key, dst)
}

// Raw returns the undecoded value for key.
func (o Object) Raw(key string) (json.RawMessage, error) {
	v, ok := o[key]
	if !ok {
		return nil, &MissingKeyError{Key: key}
	}
	return v, nil
}

// DecodeMany decodes every element of a JSON array with decode.
func DecodeMany[T any](data json.RawMessage, decode DecodeFunc[T]) ([]T, error) {
	list, err := AsList(data)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(list))
	for _, item := range list {
		v, err := decode(item)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// DecodeFirst decodes a JSON array that must hold at least one element and
// returns the first.
func DecodeFirst[T any](data json.RawMessage, decode DecodeFunc[T]) (T, error) {
	var zero T
	many, err := DecodeMany(data, decode)
	if err != nil {
		return zero, err
	}
	if len(many) == 0 {
		return zero, &UnexpectedResponseTypeError{Expected: "non-empty list", Actual: "empty list"}
	}
	return many[0], nil
}

// DecodeOptional returns nil for absent or null data.
func DecodeOptional[T any](data json.RawMessage, decode DecodeFunc[T]) (*T, error) {
	if kind := jsonKind(data); kind == kindNull || kind == kindEmpty {
		return nil, nil
	}
	v, err := decode(data)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// DecodeOptionalMany is DecodeMany that maps null to nil, or to an empty
// slice when defaultEmpty is set.
func DecodeOptionalMany[T any](data json.RawMessage, decode DecodeFunc[T], defaultEmpty bool) ([]T, error) {
	if kind := jsonKind(data); kind == kindNull || kind == kindEmpty {
		if defaultEmpty {
			return []T{}, nil
		}
		return nil, nil
	}
	return DecodeMany(data, decode)
}

// Deserialise decodes a whole response body.
func Deserialise[T any](resp *Response, decode DecodeFunc[T]) (T, error) {
	if resp.Empty() {
		var zero T
		return zero, &UnexpectedResponseTypeError{Expected: "response data", Actual: kindEmpty}
	}
	return decode(resp.Raw())
}

// DeserialiseMany decodes a response body holding a JSON array.
func DeserialiseMany[T any](resp *Response, decode DecodeFunc[T]) ([]T, error) {
	return DecodeMany(resp.Raw(), decode)
}

// DeserialiseFirst decodes the first element of a response body array.
func DeserialiseFirst[T any](resp *Response, decode DecodeFunc[T]) (T, error) {
	return DecodeFirst(resp.Raw(), decode)
}

func jsonKind(data []byte) string {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return kindEmpty
	}
	switch data[0] {
	case '{':
		return kindObject
	case '[':
		return kindList
	case '"':
		return kindString
	case 't', 'f':
		return kindBool
	case 'n':
		return kindNull
	}
	return kindNumber
}
