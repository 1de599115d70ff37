package amatino

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/s0up4200/amatino/api"
)

const sessionPath = "/session"

// Session is an authenticated login. It is the only credential type, and is
// passed to every request after creation.
type Session struct {
	id     int64
	userID int64
	apiKey string
}

// NewSession restores a session from previously issued values.
func NewSession(sessionID, userID int64, apiKey string) Session {
	return Session{id: sessionID, userID: userID, apiKey: apiKey}
}

func (s Session) SessionID() int64 { return s.id }
func (s Session) UserID() int64    { return s.userID }
func (s Session) APIKey() string   { return s.apiKey }

type sessionFile struct {
	SessionID int64  `json:"session_id"`
	UserID    int64  `json:"user_id"`
	APIKey    string `json:"api_key"`
}

// sessionCreate is the body for POST /session. Exactly one of email and
// user id is sent; the other is null.
type sessionCreate struct {
	secret string
	email  *string
	userID *int64
}

func (a sessionCreate) Serialise() any {
	return map[string]any{
		"secret":        a.secret,
		"account_email": a.email,
		"user_id":       a.userID,
	}
}

// CreateSession logs in with an account email and secret.
func CreateSession(ctx context.Context, requester Requester, email, secret string) (Session, error) {
	if email == "" {
		return Session{}, fmt.Errorf("%w: email is required", ErrInvalidArgument)
	}
	return createSession(ctx, requester, sessionCreate{secret: secret, email: &email})
}

// CreateSessionWithUserID logs in with a user id and secret.
func CreateSessionWithUserID(ctx context.Context, requester Requester, userID int64, secret string) (Session, error) {
	return createSession(ctx, requester, sessionCreate{secret: secret, userID: &userID})
}

func createSession(ctx context.Context, requester Requester, args sessionCreate) (Session, error) {
	if args.secret == "" {
		return Session{}, fmt.Errorf("%w: secret is required", ErrInvalidArgument)
	}

	payload, err := api.NewObjectPayload(args, false)
	if err != nil {
		return Session{}, err
	}

	resp, err := requester.Do(ctx, api.Request{
		Path:    sessionPath,
		Method:  api.MethodPost,
		Payload: payload,
	})
	if err != nil {
		return Session{}, fmt.Errorf("failed to create session: %w", err)
	}

	return firstOrObject(resp.Raw(), decodeSession)
}

func decodeSession(data json.RawMessage) (Session, error) {
	obj, err := api.AsObject(data)
	if err != nil {
		return Session{}, err
	}
	var f sessionFile
	if err := obj.Require("session_id", &f.SessionID); err != nil {
		return Session{}, err
	}
	if err := obj.Require("user_id", &f.UserID); err != nil {
		return Session{}, err
	}
	if err := obj.Require("api_key", &f.APIKey); err != nil {
		return Session{}, err
	}
	return NewSession(f.SessionID, f.UserID, f.APIKey), nil
}

// DeleteSession invalidates the client's session on the server.
func (c *Client) DeleteSession(ctx context.Context) error {
	body := map[string]int64{"session_id": c.session.id}
	payload, err := api.NewRawPayload(body)
	if err != nil {
		return err
	}
	_, err = c.call(ctx, api.MethodDelete, sessionPath, payload, api.Parameters{})
	return err
}

// Save writes the session to path as {"session_id","user_id","api_key"},
// readable only by the owner.
func (s Session) Save(path string) error {
	data, err := json.Marshal(sessionFile{SessionID: s.id, UserID: s.userID, APIKey: s.apiKey})
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create session directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// LoadSession reads a file written by Session.Save. The file must hold
// exactly the three session keys with the right JSON types.
func LoadSession(path string) (Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Session{}, fmt.Errorf("failed to read session file: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Session{}, fmt.Errorf("%w: %w", ErrInvalidSessionFile, err)
	}
	if len(raw) != 3 {
		return Session{}, fmt.Errorf("%w: expected 3 keys, found %d", ErrInvalidSessionFile, len(raw))
	}

	var f sessionFile
	fields := []struct {
		key string
		dst any
	}{
		{"session_id", &f.SessionID},
		{"user_id", &f.UserID},
		{"api_key", &f.APIKey},
	}
	for _, field := range fields {
		v, ok := raw[field.key]
		if !ok {
			return Session{}, fmt.Errorf("%w: missing %q", ErrInvalidSessionFile, field.key)
		}
		if err := strictDecode(v, field.dst); err != nil {
			return Session{}, fmt.Errorf("%w: %q: %w", ErrInvalidSessionFile, field.key, err)
		}
	}

	return NewSession(f.SessionID, f.UserID, f.APIKey), nil
}

// strictDecode rejects null, which json.Unmarshal would silently accept.
func strictDecode(v json.RawMessage, dst any) error {
	if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
		return fmt.Errorf("unexpected null")
	}
	return json.Unmarshal(v, dst)
}
