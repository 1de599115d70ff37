package api

import (
	"net/http"
	"strconv"
	"time"
)

const (
	headerUserAgent   = "User-Agent"
	headerContentType = "Content-Type"
	headerSignature   = "X-Signature"
	headerSessionID   = "X-Session-ID"

	contentTypeJSON = "application/json"
)

// DefaultUserAgent identifies this library to the API.
const DefaultUserAgent = "Amatino Go"

// BuildHeaders assembles the headers for one request. Content-Type is only
// set when body is non-empty, and the signature headers only when creds is
// non-nil.
func BuildHeaders(userAgent, path string, creds Credentials, body []byte, now time.Time) http.Header {
	h := make(http.Header, 4)
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	h.Set(headerUserAgent, userAgent)

	if len(body) > 0 {
		h.Set(headerContentType, contentTypeJSON)
	}

	if creds != nil {
		sig := Sign(creds.APIKey(), path, body, now)
		h.Set(headerSignature, sig.String)
		h.Set(headerSessionID, strconv.FormatInt(creds.SessionID(), 10))
	}

	return h
}
