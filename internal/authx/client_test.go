package authx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/valeri-app/valeri/internal/utils"
)

func TestSignInWithPassword(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/v1/token", r.URL.Path)
		require.Equal(t, "password", r.URL.Query().Get("grant_type"))
		require.Equal(t, "anon-key", r.Header.Get("apikey"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		if body["password"] != "secret" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]any{"error_description": "Invalid login credentials"})
			return
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "tok-123",
			"token_type":    "bearer",
			"expires_in":    3600,
			"refresh_token": "ref-456",
			"user":          map[string]any{"id": "u-1", "email": body["email"]},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "anon-key", "service-key")

	t.Run("valid credentials yield a session", func(t *testing.T) {
		sess, err := c.SignInWithPassword(context.Background(), "x@example.com", "secret", "")
		require.NoError(t, err)
		require.Equal(t, "tok-123", sess.AccessToken)
		require.NotNil(t, sess.User)
		require.Equal(t, "u-1", sess.User.ID)
		require.Equal(t, "x@example.com", sess.User.Email)
	})

	t.Run("invalid credentials map to invalid argument", func(t *testing.T) {
		_, err := c.SignInWithPassword(context.Background(), "x@example.com", "wrong", "")
		require.Error(t, err)
		require.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
		require.Equal(t, "Invalid login credentials", utils.Message(err))
	})
}

func TestSignUpDuplicateEmail(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/v1/signup", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"msg": "User already registered"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "anon-key", "service-key")
	_, err := c.SignUp(context.Background(), "x@example.com", "pw", "captcha-tok", nil)
	require.True(t, utils.IsCode(err, utils.CodeConflict))
}

func TestSignUpSendsCaptchaToken(t *testing.T) {
	t.Parallel()

	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "u-1", "email": "x@example.com"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "anon-key", "service-key")
	u, err := c.SignUp(context.Background(), "x@example.com", "pw", "cap-123", map[string]any{"full_name": "Ada"})
	require.NoError(t, err)
	require.Equal(t, "u-1", u.ID)

	sec, ok := got["gotrue_meta_security"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "cap-123", sec["captcha_token"])
	data, ok := got["data"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "Ada", data["full_name"])
}

func TestAdminDeleteUser(t *testing.T) {
	t.Parallel()

	var gotPath, gotAuth, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get("apikey")
		require.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "anon-key", "service-key")

	require.NoError(t, c.AdminDeleteUser(context.Background(), "u-1"))
	require.Equal(t, "/auth/v1/admin/users/u-1", gotPath)
	// privileged call runs under the service-role credential
	require.Equal(t, "Bearer service-key", gotAuth)
	require.Equal(t, "service-key", gotKey)

	err := c.AdminDeleteUser(context.Background(), "")
	require.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestGetUser(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/v1/user", r.URL.Path)
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{"msg": "invalid token"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "u-1", "email": "x@example.com"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "anon-key", "service-key")

	u, err := c.GetUser(context.Background(), "tok-123")
	require.NoError(t, err)
	require.Equal(t, "u-1", u.ID)

	_, err = c.GetUser(context.Background(), "bad")
	require.True(t, utils.IsCode(err, utils.CodeUnauthorized))

	_, err = c.GetUser(context.Background(), "")
	require.True(t, utils.IsCode(err, utils.CodeUnauthorized))
}
