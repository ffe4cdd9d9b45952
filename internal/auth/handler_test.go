package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/centersguide/centersguide/internal/auth"
	"github.com/centersguide/centersguide/internal/roles"
	"github.com/centersguide/centersguide/internal/shared"
	"github.com/centersguide/centersguide/internal/view"
	_ "github.com/centersguide/centersguide/testing"
)

type stubRepo struct {
	user    *auth.User
	created []string
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, shared.ErrNotFound
	}
	return s.user, nil
}

func (s *stubRepo) CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	s.created = append(s.created, id)
	return nil
}

func (s *stubRepo) DeleteSession(ctx context.Context, id string) error {
	return nil
}

type stubRoles map[int64]roles.Role

func (s stubRoles) Lookup(ctx context.Context, userID int64) (roles.Assignment, error) {
	role, ok := s[userID]
	if !ok {
		return roles.Assignment{}, roles.ErrNotFound
	}
	return roles.Assignment{UserID: userID, Role: role}, nil
}

func newAuthHandler(t *testing.T, repo auth.Repository) (*auth.Handler, *shared.SessionManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })
	sessionManager := shared.NewSessionManager(redisClient, "test_session", time.Hour, false)
	csrfManager := shared.NewCSRFManager("csrfsecret")
	templates, err := view.NewEngine()
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	service := auth.NewService(repo, stubRoles{1: roles.CenterAdmin})
	handler := auth.NewHandler(nil, service, view.NewResponder(templates, csrfManager, nil), sessionManager)
	return handler, sessionManager
}

func activeUser(t *testing.T) *auth.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("correctpass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return &auth.User{ID: 1, Email: "owner@nile.example", PasswordHash: string(hashed), IsActive: true}
}

// serve runs h with a session loaded from req and committed afterwards.
func serve(t *testing.T, sessions *shared.SessionManager, h http.HandlerFunc, req *http.Request) (*httptest.ResponseRecorder, *shared.Session) {
	t.Helper()
	sess, err := sessions.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	ctx := shared.ContextWithSession(req.Context(), sess)
	res := httptest.NewRecorder()
	h(res, req.WithContext(ctx))
	if err := sessions.Commit(ctx, res, sess); err != nil {
		t.Fatalf("commit session: %v", err)
	}
	return res, sess
}

func postLogin(form url.Values, cookie string, sessions *shared.SessionManager) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/center/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: sessions.CookieName(), Value: cookie})
	}
	return req
}

func TestLoginPage(t *testing.T) {
	handler, sessionManager := newAuthHandler(t, &stubRepo{})

	req := httptest.NewRequest(http.MethodGet, "/center/login?from=/center/dashboard", nil)
	res, sess := serve(t, sessionManager, handler.LoginPage(auth.CenterPortal), req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "<form") {
		t.Fatalf("expected login form in body")
	}
	if !strings.Contains(res.Body.String(), `value="/center/dashboard"`) {
		t.Fatalf("expected return path carried in form")
	}
	if sess.Get(shared.CSRFSessionKey) == "" {
		t.Fatalf("csrf token not set")
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	handler, sessionManager := newAuthHandler(t, &stubRepo{user: activeUser(t)})

	form := url.Values{"email": {"owner@nile.example"}, "password": {"wrongpass"}}
	res, sess := serve(t, sessionManager, handler.Login(auth.CenterPortal), postLogin(form, "", sessionManager))

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "Invalid email or password") {
		t.Fatalf("expected error message in response")
	}
	if sess.User() != "" {
		t.Fatalf("expected anonymous session, got %q", sess.User())
	}
}

func TestLoginRedirectsToReturnPath(t *testing.T) {
	repo := &stubRepo{user: activeUser(t)}
	handler, sessionManager := newAuthHandler(t, repo)

	_, first := serve(t, sessionManager, handler.LoginPage(auth.CenterPortal), httptest.NewRequest(http.MethodGet, "/center/login", nil))

	form := url.Values{"email": {"owner@nile.example"}, "password": {"correctpass"}, "from": {"/center/dashboard?tab=teachers"}}
	res, sess := serve(t, sessionManager, handler.Login(auth.CenterPortal), postLogin(form, first.ID, sessionManager))

	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", res.Code)
	}
	if got := res.Header().Get("Location"); got != "/center/dashboard?tab=teachers" {
		t.Fatalf("unexpected redirect %q", got)
	}
	if sess.User() != "1" {
		t.Fatalf("expected signed-in user 1, got %q", sess.User())
	}
	if sess.ID == first.ID {
		t.Fatalf("expected session id to rotate on login")
	}
	if len(repo.created) != 1 || repo.created[0] != sess.ID {
		t.Fatalf("expected login recorded under new session id")
	}
}

func TestLoginIgnoresForeignReturnPath(t *testing.T) {
	handler, sessionManager := newAuthHandler(t, &stubRepo{user: activeUser(t)})

	form := url.Values{"email": {"owner@nile.example"}, "password": {"correctpass"}, "from": {"//evil.example/phish"}}
	res, _ := serve(t, sessionManager, handler.Login(auth.CenterPortal), postLogin(form, "", sessionManager))

	if got := res.Header().Get("Location"); got != "/center/dashboard" {
		t.Fatalf("expected role home, got %q", got)
	}
}
