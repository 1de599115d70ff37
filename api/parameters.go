package api

import (
	"net/url"
	"strconv"
	"strings"
)

const entityIDKey = "entity_id"

// Target is one key=value pair in a query string.
type Target struct {
	Key   string
	Value string
}

// NewTarget returns a Target for a string value.
func NewTarget(key, value string) Target {
	return Target{Key: key, Value: value}
}

// IntTarget returns a Target for an integer value.
func IntTarget(key string, value int64) Target {
	return Target{Key: key, Value: strconv.FormatInt(value, 10)}
}

// String renders key=value with both sides query-escaped, so "a b" becomes
// "a+b". Callers rebuilding a URL from it must not escape it again.
func (t Target) String() string {
	return url.QueryEscape(t.Key) + "=" + url.QueryEscape(t.Value)
}

// Parameters is an ordered query string. The zero value renders empty.
type Parameters struct {
	entityID string
	targets  []Target
	raw      string
	hasRaw   bool
}

// NewParameters builds a query string with entity_id first, when non-empty,
// followed by targets in the order given.
func NewParameters(entityID string, targets ...Target) Parameters {
	cp := make([]Target, len(targets))
	copy(cp, targets)
	return Parameters{entityID: entityID, targets: cp}
}

// RawParameters uses query verbatim. A leading "?" is added if missing.
func RawParameters(query string) Parameters {
	return Parameters{raw: query, hasRaw: true}
}

// Targets returns a copy of the parameter targets, entity_id included.
func (p Parameters) Targets() []Target {
	out := make([]Target, 0, len(p.targets)+1)
	if p.entityID != "" {
		out = append(out, Target{Key: entityIDKey, Value: p.entityID})
	}
	return append(out, p.targets...)
}

// String renders the query string, including the leading "?", or "" when
// there is nothing to send.
func (p Parameters) String() string {
	if p.hasRaw {
		if p.raw == "" || strings.HasPrefix(p.raw, "?") {
			return p.raw
		}
		return "?" + p.raw
	}

	var b strings.Builder
	for i, t := range p.Targets() {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(t.String())
	}
	return b.String()
}
