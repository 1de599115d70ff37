package api

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/base64"
	"strconv"
	"time"
)

// Signature is an HMAC over a single request, valid only for the instant it
// was computed at.
type Signature struct {
	Timestamp int64
	String    string
}

// Sign computes the request signature for path and body at time now. body
// must be exactly the bytes that will be sent, or nil when there is no body.
func Sign(apiKey, path string, body []byte, now time.Time) Signature {
	ts := now.Unix()
	mac := hmac.New(sha512.New, []byte(apiKey))
	mac.Write(Message(ts, path, body))

	return Signature{
		Timestamp: ts,
		String:    base64.StdEncoding.EncodeToString(mac.Sum(nil)),
	}
}

// Message returns the bytes that are signed: timestamp, then path, then body.
// A nil or empty body contributes nothing.
func Message(timestamp int64, path string, body []byte) []byte {
	msg := make([]byte, 0, 20+len(path)+len(body))
	msg = strconv.AppendInt(msg, timestamp, 10)
	msg = append(msg, path...)
	msg = append(msg, body...)
	return msg
}
