package admin

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centersguide/centersguide/internal/access"
	"github.com/centersguide/centersguide/internal/centers"
	"github.com/centersguide/centersguide/internal/roles"
	"github.com/centersguide/centersguide/internal/shared"
	"github.com/centersguide/centersguide/internal/view"
)

type fakeRoles struct {
	assigned []roles.AssignInput
	revoked  []int64
}

func (f *fakeRoles) List(ctx context.Context) ([]roles.Assignment, error) { return nil, nil }

func (f *fakeRoles) Assign(ctx context.Context, in roles.AssignInput) (roles.Assignment, error) {
	f.assigned = append(f.assigned, in)
	role, _ := roles.Parse(in.Role)
	return roles.Assignment{UserID: 9, Email: in.Email, Role: role}, nil
}

func (f *fakeRoles) Revoke(ctx context.Context, userID int64) error {
	if userID == 404 {
		return roles.ErrNotFound
	}
	f.revoked = append(f.revoked, userID)
	return nil
}

type noCenters struct{}

func (noCenters) List(ctx context.Context, f centers.ListFilters) (centers.Page, error) {
	return centers.Page{}, nil
}

func newRouter(svc *fakeRoles) http.Handler {
	h := NewHandler(slog.Default(), svc, noCenters{}, view.NewResponder(nil, nil, nil))
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := &shared.Session{ID: "test"}
			next.ServeHTTP(w, r.WithContext(shared.ContextWithSession(r.Context(), sess)))
		})
	})
	r.Route("/admin", func(r chi.Router) {
		h.MountOverview(r)
		r.Route("/roles", h.MountRoles)
	})
	return r
}

func TestAssignRoleRedirects(t *testing.T) {
	svc := &fakeRoles{}
	form := url.Values{"email": {"owner@nile.example"}, "role": {"center_admin"}, "center_id": {"3"}}
	req := httptest.NewRequest(http.MethodPost, "/admin/roles", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	newRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/roles", rec.Header().Get("Location"))
	require.Len(t, svc.assigned, 1)
	assert.Equal(t, int64(3), svc.assigned[0].CenterID)
}

func TestRevokeRole(t *testing.T) {
	svc := &fakeRoles{}
	router := newRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/roles/12/revoke", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, []int64{12}, svc.revoked)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/roles/404/revoke", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/roles/abc/revoke", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOverviewSendsCenterAdminsToDashboard(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req = req.WithContext(access.ContextWithRole(req.Context(), roles.State{Role: roles.CenterAdmin, CenterID: 3}))
	rec := httptest.NewRecorder()

	newRouter(&fakeRoles{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/center/dashboard", rec.Header().Get("Location"))
}
