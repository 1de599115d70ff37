package amatino

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/amatino/api"
)

func TestCreateSession(t *testing.T) {
	t.Run("with email", func(t *testing.T) {
		rec := &recorder{body: `{"session_id": 11, "user_id": 3, "api_key": "k3y"}`}
		requester := newRequester(t, rec)

		session, err := CreateSession(context.Background(), requester, "a@example.com", "s3cret")
		require.NoError(t, err)
		assert.Equal(t, int64(11), session.SessionID())
		assert.Equal(t, int64(3), session.UserID())
		assert.Equal(t, "k3y", session.APIKey())

		got := rec.last(t)
		assert.Equal(t, http.MethodPost, got.Method)
		assert.Equal(t, "/session", got.Path)
		assert.JSONEq(t, `[{"secret":"s3cret","account_email":"a@example.com","user_id":null}]`, got.Body)
		assert.Empty(t, got.Header.Get("X-Signature"), "session creation is unsigned")
		assert.Empty(t, got.Header.Get("X-Session-ID"))
	})

	t.Run("with user id and listed response", func(t *testing.T) {
		rec := &recorder{body: `[{"session_id": 12, "user_id": 9, "api_key": "k"}]`}
		requester := newRequester(t, rec)

		session, err := CreateSessionWithUserID(context.Background(), requester, 9, "s3cret")
		require.NoError(t, err)
		assert.Equal(t, int64(12), session.SessionID())
		assert.JSONEq(t, `[{"secret":"s3cret","account_email":null,"user_id":9}]`, rec.last(t).Body)
	})

	t.Run("missing secret", func(t *testing.T) {
		rec := &recorder{}
		requester := newRequester(t, rec)

		_, err := CreateSession(context.Background(), requester, "a@example.com", "")
		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.Zero(t, rec.count())
	})

	t.Run("null key in response", func(t *testing.T) {
		rec := &recorder{body: `{"session_id": null, "user_id": null, "api_key": null}`}
		requester := newRequester(t, rec)

		session, err := CreateSession(context.Background(), requester, "a@example.com", "s3cret")
		var unexpected *api.UnexpectedResponseTypeError
		require.ErrorAs(t, err, &unexpected)
		assert.Equal(t, "session_id", unexpected.Key)
		assert.Empty(t, session.APIKey())
	})

	t.Run("null api key", func(t *testing.T) {
		rec := &recorder{body: `{"session_id": 11, "user_id": 3, "api_key": null}`}
		requester := newRequester(t, rec)

		_, err := CreateSession(context.Background(), requester, "a@example.com", "s3cret")
		var unexpected *api.UnexpectedResponseTypeError
		require.ErrorAs(t, err, &unexpected)
		assert.Equal(t, "api_key", unexpected.Key)
	})

	t.Run("missing key in response", func(t *testing.T) {
		rec := &recorder{body: `{"session_id": 11, "user_id": 3}`}
		requester := newRequester(t, rec)

		_, err := CreateSession(context.Background(), requester, "a@example.com", "s3cret")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "api_key")
	})
}

func TestDeleteSession(t *testing.T) {
	client, rec := newTestClient(t, http.StatusOK, ``)

	require.NoError(t, client.DeleteSession(context.Background()))

	got := rec.last(t)
	assert.Equal(t, http.MethodDelete, got.Method)
	assert.Equal(t, "/session", got.Path)
	assert.JSONEq(t, `{"session_id":42}`, got.Body)
	assert.Equal(t, "42", got.Header.Get("X-Session-ID"))
}

func TestSessionSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	require.NoError(t, testSession.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := LoadSession(path)
	require.NoError(t, err)
	assert.Equal(t, testSession, loaded)

	client := New(nil, loaded, zerolog.Nop())
	assert.Equal(t, int64(42), client.Session().SessionID())
}

func TestLoadSessionRejectsMalformedFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: `session`},
		{name: "missing key", content: `{"session_id": 1, "user_id": 2}`},
		{name: "extra key", content: `{"session_id": 1, "user_id": 2, "api_key": "k", "x": 1}`},
		{name: "wrong type", content: `{"session_id": "1", "user_id": 2, "api_key": "k"}`},
		{name: "null value", content: `{"session_id": 1, "user_id": 2, "api_key": null}`},
		{name: "misspelt key", content: `{"session_id": 1, "userid": 2, "api_key": "k"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "session.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			_, err := LoadSession(path)
			assert.ErrorIs(t, err, ErrInvalidSessionFile)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadSession(filepath.Join(t.TempDir(), "absent.json"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
