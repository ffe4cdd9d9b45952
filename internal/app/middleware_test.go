package app

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/centersguide/centersguide/internal/locale"
	"github.com/centersguide/centersguide/internal/shared"
)

func buildStack(t *testing.T, handler http.Handler) (http.Handler, *shared.CSRFManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	csrf := shared.NewCSRFManager("csrf-secret")
	stack := MiddlewareStack(MiddlewareConfig{
		Logger:         slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
		Config:         &Config{AppRequestTimeout: 50 * time.Millisecond},
		SessionManager: shared.NewSessionManager(client, "sid", time.Hour, false),
		CSRFManager:    csrf,
	})
	h := handler
	for i := len(stack) - 1; i >= 0; i-- {
		h = stack[i](h)
	}
	return h, csrf
}

func TestMiddlewareIssuesSessionCookieAndLanguage(t *testing.T) {
	var lang locale.Lang
	h, _ := buildStack(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang = locale.FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/?lang=ar", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, locale.Arabic, lang)
	require.Contains(t, strings.Join(rec.Header().Values("Set-Cookie"), ";"), "sid=")
	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestMiddlewareRejectsPostWithoutCSRFToken(t *testing.T) {
	h, _ := buildStack(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/center/profile", strings.NewReader("name=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMiddlewareAcceptsPostWithSessionToken(t *testing.T) {
	var csrf *shared.CSRFManager
	h, csrf := buildStack(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			token, err := csrf.EnsureToken(r.Context(), shared.SessionFromContext(r.Context()))
			require.NoError(t, err)
			_, _ = w.Write([]byte(token))
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))

	get := httptest.NewRecorder()
	h.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/", nil))
	token := get.Body.String()
	cookies := get.Result().Cookies()
	require.NotEmpty(t, cookies)

	form := url.Values{shared.CSRFFormField: {token}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
}

func TestMiddlewareTimeoutSkipsEventStreams(t *testing.T) {
	h, _ := buildStack(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
			return
		case <-time.After(200 * time.Millisecond):
			w.WriteHeader(http.StatusOK)
		}
	}))

	plain := httptest.NewRecorder()
	h.ServeHTTP(plain, httptest.NewRequest(http.MethodGet, "/slow", nil))
	require.Equal(t, http.StatusGatewayTimeout, plain.Code)

	req := httptest.NewRequest(http.MethodGet, "/center/events", nil)
	req.Header.Set("Accept", "text/event-stream")
	stream := httptest.NewRecorder()
	h.ServeHTTP(stream, req)
	require.Equal(t, http.StatusOK, stream.Code)
}
