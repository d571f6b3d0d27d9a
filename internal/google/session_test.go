package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/teemow/meetscheduler/internal/logging"
)

func TestStaticSessionProvider(t *testing.T) {
	token, err := NewStaticSessionProvider("abc").Session(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", token.AccessToken)
	assert.True(t, token.Valid())

	_, err = NewStaticSessionProvider("").Session(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestFileSessionProvider_ReadsToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, WriteTokenFile(path, &oauth2.Token{
		AccessToken: "stored",
		Expiry:      time.Now().Add(time.Hour),
	}))

	token, err := NewFileSessionProvider(path).Session(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "stored", token.AccessToken)
}

func TestFileSessionProvider_Missing(t *testing.T) {
	_, err := NewFileSessionProvider(filepath.Join(t.TempDir(), "absent.json")).Session(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestFileSessionProvider_ExpiredWithoutRefreshConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, WriteTokenFile(path, &oauth2.Token{
		AccessToken:  "old",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(-time.Hour),
	}))

	token, err := NewFileSessionProvider(path).Session(context.Background())
	require.NoError(t, err)
	assert.False(t, token.Valid())
}

func newTokenServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestFileSessionProvider_RefreshesAndPersists(t *testing.T) {
	srv, calls := newTokenServer(t, http.StatusOK,
		`{"access_token":"fresh","token_type":"Bearer","expires_in":3600}`)

	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, WriteTokenFile(path, &oauth2.Token{
		AccessToken:  "old",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(-time.Hour),
	}))

	config := &oauth2.Config{ClientID: "id", ClientSecret: "secret", Endpoint: oauth2.Endpoint{TokenURL: srv.URL}}
	provider := NewFileSessionProvider(path, WithRefreshConfig(config), WithSessionLogger(logging.Discard()))

	token, err := provider.Session(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh", token.AccessToken)
	assert.True(t, token.Valid())
	assert.Equal(t, int32(1), calls.Load())

	stored, err := ReadTokenFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fresh", stored.AccessToken)
	assert.Equal(t, "refresh", stored.RefreshToken, "refresh token is kept when the server omits it")

	// The stored token is valid now, so no second refresh happens.
	_, err = provider.Session(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFileSessionProvider_RefreshFailureReturnsStaleToken(t *testing.T) {
	srv, _ := newTokenServer(t, http.StatusBadRequest, `{"error":"invalid_grant"}`)

	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, WriteTokenFile(path, &oauth2.Token{
		AccessToken:  "old",
		RefreshToken: "revoked",
		Expiry:       time.Now().Add(-time.Hour),
	}))

	config := &oauth2.Config{ClientID: "id", Endpoint: oauth2.Endpoint{TokenURL: srv.URL}}
	token, err := NewFileSessionProvider(path, WithRefreshConfig(config), WithSessionLogger(logging.Discard())).
		Session(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "old", token.AccessToken)
	assert.False(t, token.Valid())
}

func TestReadTokenFile_Invalid(t *testing.T) {
	dir := t.TempDir()

	garbage := filepath.Join(dir, "garbage.json")
	require.NoError(t, os.WriteFile(garbage, []byte("not json"), 0600))
	_, err := ReadTokenFile(garbage)
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{}`), 0600))
	_, err = ReadTokenFile(empty)
	assert.Error(t, err)
}

func TestWriteTokenFile_Permissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	require.NoError(t, WriteTokenFile(path, &oauth2.Token{AccessToken: "abc"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestOAuthConfig(t *testing.T) {
	assert.Nil(t, OAuthConfig("", "secret"))

	config := OAuthConfig("client-id", "client-secret")
	require.NotNil(t, config)
	assert.Equal(t, "client-id", config.ClientID)
	assert.Equal(t, DefaultOAuthScopes, config.Scopes)
	assert.Contains(t, config.Endpoint.TokenURL, "oauth2.googleapis.com")
}

func TestDefaultTokenPath(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	t.Setenv("HOME", "/tmp/home")

	path, err := DefaultTokenPath()
	require.NoError(t, err)
	assert.Contains(t, path, filepath.Join("meetscheduler", "google-token.json"))
}

func TestDefaultOAuthScopes(t *testing.T) {
	assert.Contains(t, DefaultOAuthScopes, "https://www.googleapis.com/auth/calendar")
	assert.Contains(t, DefaultOAuthScopes, "https://www.googleapis.com/auth/calendar.events")
}
