// Package admin serves the administration area shared by super and center admins.
package admin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/centersguide/centersguide/internal/access"
	"github.com/centersguide/centersguide/internal/centers"
	"github.com/centersguide/centersguide/internal/roles"
	"github.com/centersguide/centersguide/internal/shared"
	"github.com/centersguide/centersguide/internal/view"
)

const rolesPath = "/admin/roles"

// RoleService is the role administration used by the handler.
type RoleService interface {
	List(ctx context.Context) ([]roles.Assignment, error)
	Assign(ctx context.Context, in roles.AssignInput) (roles.Assignment, error)
	Revoke(ctx context.Context, userID int64) error
}

// CenterLister feeds the center picker of the role form.
type CenterLister interface {
	List(ctx context.Context, f centers.ListFilters) (centers.Page, error)
}

// Handler serves /admin.
type Handler struct {
	logger   *slog.Logger
	roles    RoleService
	centers  CenterLister
	pages    *view.Responder
	validate *validator.Validate
}

// NewHandler builds a Handler.
func NewHandler(logger *slog.Logger, roleSvc RoleService, centerSvc CenterLister, pages *view.Responder) *Handler {
	return &Handler{logger: logger, roles: roleSvc, centers: centerSvc, pages: pages, validate: validator.New()}
}

// MountOverview registers the landing page open to any admin.
func (h *Handler) MountOverview(r chi.Router) {
	r.Get("/", h.overview)
}

// MountRoles registers role administration, reserved for super admins.
func (h *Handler) MountRoles(r chi.Router) {
	r.Get("/", h.listRoles)
	r.Post("/", h.assignRole)
	r.Post("/{userID}/revoke", h.revokeRole)
}

func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	role, _ := access.RoleFromContext(r.Context())
	if role.Role == roles.CenterAdmin {
		http.Redirect(w, r, "/center/dashboard", http.StatusSeeOther)
		return
	}
	page, err := h.centers.List(r.Context(), centers.ListFilters{Sort: centers.SortNewest, PerPage: 5})
	if err != nil {
		h.logger.Error("admin overview centers", slog.Any("error", err))
	}
	assignments, err := h.roles.List(r.Context())
	if err != nil {
		h.logger.Error("admin overview roles", slog.Any("error", err))
	}
	h.pages.Render(w, r, "pages/admin/overview.html", "Administration", map[string]any{
		"Centers":     page,
		"Assignments": len(assignments),
	}, http.StatusOK)
}

type roleForm struct {
	Email    string `validate:"required,email"`
	Role     string `validate:"required,oneof=super_admin center_admin user"`
	CenterID int64  `validate:"gte=0"`
}

func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request) {
	h.renderRoles(w, r, roleForm{}, nil, http.StatusOK)
}

func (h *Handler) renderRoles(w http.ResponseWriter, r *http.Request, form roleForm, formErrors map[string]string, status int) {
	assignments, err := h.roles.List(r.Context())
	if err != nil {
		h.logger.Error("list roles", slog.Any("error", err))
		http.Error(w, "Failed to load roles", http.StatusInternalServerError)
		return
	}
	page, err := h.centers.List(r.Context(), centers.ListFilters{PerPage: 50})
	if err != nil {
		h.logger.Error("list centers for roles", slog.Any("error", err))
	}
	h.pages.Render(w, r, "pages/admin/roles.html", "Roles", map[string]any{
		"Assignments": assignments,
		"Centers":     page.Centers,
		"Roles":       roles.All(),
		"Form":        form,
		"Errors":      formErrors,
	}, status)
}

func (h *Handler) assignRole(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	centerID, _ := strconv.ParseInt(r.PostFormValue("center_id"), 10, 64)
	form := roleForm{
		Email:    r.PostFormValue("email"),
		Role:     r.PostFormValue("role"),
		CenterID: centerID,
	}
	if err := h.validate.Struct(form); err != nil {
		h.renderRoles(w, r, form, map[string]string{"general": "Enter a valid email and role"}, http.StatusBadRequest)
		return
	}
	a, err := h.roles.Assign(r.Context(), roles.AssignInput(form))
	if err != nil {
		msg := "Role could not be assigned"
		switch {
		case errors.Is(err, roles.ErrNotFound):
			msg = "No user has that email"
		case errors.Is(err, roles.ErrCenterRequired):
			msg = "Center admins need a center"
		case errors.Is(err, roles.ErrUnexpectedCenter):
			msg = "Only center admins belong to a center"
		default:
			h.logger.Error("assign role", slog.Any("error", err), slog.String("email", form.Email))
		}
		h.renderRoles(w, r, form, map[string]string{"general": msg}, http.StatusBadRequest)
		return
	}
	h.logger.Info("role assigned", slog.Int64("user_id", a.UserID), slog.String("role", a.Role.String()))
	h.pages.RedirectWithFlash(w, r, rolesPath, "success", "Role saved for "+a.Email)
}

func (h *Handler) revokeRole(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	if err := h.roles.Revoke(r.Context(), userID); err != nil {
		msg := "That user has no role to revoke"
		if !errors.Is(err, roles.ErrNotFound) {
			h.logger.Error("revoke role", slog.Any("error", err), slog.Int64("user_id", userID))
			msg = shared.UserSafeMessage(err)
		}
		h.pages.RedirectWithFlash(w, r, rolesPath, "error", msg)
		return
	}
	h.logger.Info("role revoked", slog.Int64("user_id", userID))
	h.pages.RedirectWithFlash(w, r, rolesPath, "success", "Role revoked")
}
