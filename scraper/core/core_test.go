package core

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientOptions{
		BaseUrl:   server.URL,
		GoldenKey: "test_golden_key",
	})
	require.NoError(t, err)
	return client
}

func TestRefreshSession(t *testing.T) {
	var gotCookie string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotCookie = r.Header.Get("Cookie")
		http.SetCookie(w, &http.Cookie{Name: "PHPSESSID", Value: "fresh_session", Path: "/"})
		w.Write([]byte(`<body data-app-data='{"csrf-token": "fresh_csrf"}'></body>`))
	})

	session, err := client.RefreshSession(context.Background())
	require.NoError(t, err)
	require.Equal(t, "golden_key=test_golden_key", gotCookie)
	require.Equal(t, Session{CsrfToken: "fresh_csrf", SessionID: "fresh_session"}, session)
	require.Equal(t, session, client.Session())
	require.True(t, session.Ready())
	require.Equal(t, "golden_key=test_golden_key; PHPSESSID=fresh_session", client.AuthCookie())
}

func TestRefreshSessionReplacesWholesale(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "PHPSESSID", Value: "second_session", Path: "/"})
		w.Write([]byte(`<body data-app-data='{"csrf-token": "second_csrf"}'></body>`))
	})
	client.session = Session{CsrfToken: "first_csrf", SessionID: "first_session"}

	session, err := client.RefreshSession(context.Background())
	require.NoError(t, err)
	require.Equal(t, Session{CsrfToken: "second_csrf", SessionID: "second_session"}, session)
}

func TestRefreshSessionMissingToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "PHPSESSID", Value: "fresh_session", Path: "/"})
		w.Write([]byte(`<body></body>`))
	})

	_, err := client.RefreshSession(context.Background())
	var apiErr *ApiError
	require.ErrorAs(t, err, &apiErr)
	// a partial session must never be persisted
	require.False(t, client.Session().Ready())
	require.Empty(t, client.Session().SessionID)
}

func TestRefreshSessionMissingCookie(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<body data-app-data='{"csrf-token": "fresh_csrf"}'></body>`))
	})

	_, err := client.RefreshSession(context.Background())
	var apiErr *ApiError
	require.ErrorAs(t, err, &apiErr)
	require.False(t, client.Session().Ready())
}

func TestRefreshSessionRejectedGoldenKey(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := client.RefreshSession(context.Background())
	require.ErrorIs(t, err, ErrInvalidGoldenKey)
}

func TestRefreshSessionWithoutGoldenKey(t *testing.T) {
	client, err := NewClient(ClientOptions{BaseUrl: "https://example.com"})
	require.NoError(t, err)

	_, err = client.RefreshSession(context.Background())
	require.Error(t, err)
}

func TestAuthCookieWithoutSession(t *testing.T) {
	client, err := NewClient(ClientOptions{GoldenKey: "k"})
	require.NoError(t, err)
	require.Equal(t, "golden_key=k", client.AuthCookie())
}
