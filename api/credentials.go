package api

// Credentials authenticate a request. A nil Credentials sends the request
// unsigned, which the API only accepts when creating a session.
type Credentials interface {
	APIKey() string
	SessionID() int64
}
