package centers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/centersguide/centersguide/internal/schedules"
	"github.com/centersguide/centersguide/internal/shared"
	"github.com/centersguide/centersguide/internal/view"
)

const adminCentersPath = "/admin/centers"

// AdminHandler lets super admins list and remove centers.
type AdminHandler struct {
	logger  *slog.Logger
	service *Service
	pages   *view.Responder
}

// NewAdminHandler builds an AdminHandler.
func NewAdminHandler(logger *slog.Logger, service *Service, pages *view.Responder) *AdminHandler {
	return &AdminHandler{logger: logger, service: service, pages: pages}
}

// MountRoutes registers the super admin center routes.
func (h *AdminHandler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Post("/{id}/delete", h.delete)
}

type adminListView struct {
	Page         Page
	Pagination   shared.Pagination
	Governorates []string
	Subjects     []string
	Errors       map[string]string
}

func (h *AdminHandler) list(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, nil, http.StatusOK)
}

func (h *AdminHandler) renderList(w http.ResponseWriter, r *http.Request, formErrors map[string]string, status int) {
	filters := filtersFromRequest(r)
	filters.PerPage = 50
	page, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("admin list centers", slog.Any("error", err))
		http.Error(w, "Failed to load centers", http.StatusInternalServerError)
		return
	}
	h.pages.Render(w, r, "pages/admin/centers.html", "Centers", adminListView{
		Page:         page,
		Pagination:   shared.NewPagination(page.Filters.Page, page.Filters.PerPage, page.Total),
		Governorates: Governorates,
		Subjects:     schedules.SubjectCodes(),
		Errors:       formErrors,
	}, status)
}

func (h *AdminHandler) create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	created, err := h.service.Create(r.Context(), CreateInput{
		Name:        r.PostFormValue("name"),
		Slug:        r.PostFormValue("slug"),
		Governorate: r.PostFormValue("governorate"),
		Area:        r.PostFormValue("area"),
		Address:     r.PostFormValue("address"),
		Phone:       r.PostFormValue("phone"),
		Description: r.PostFormValue("description"),
		Subjects:    r.PostForm["subjects"],
	})
	if err != nil {
		var safe shared.SafeError
		msg := shared.UserSafeMessage(err)
		if errors.Is(err, ErrSlugTaken) {
			msg = "Another center already uses that slug"
		} else if !errors.As(err, &safe) {
			h.logger.Error("create center", slog.Any("error", err))
		}
		h.renderList(w, r, map[string]string{"general": msg}, http.StatusBadRequest)
		return
	}
	h.logger.Info("center created", slog.Int64("center_id", created.ID), slog.String("slug", created.Slug))
	h.pages.RedirectWithFlash(w, r, adminCentersPath, "success", "Center "+created.Name+" created")
}

func (h *AdminHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid center ID", http.StatusBadRequest)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		if !errors.Is(err, ErrNotFound) {
			h.logger.Error("delete center", slog.Any("error", err), slog.Int64("center_id", id))
		}
		h.pages.RedirectWithFlash(w, r, adminCentersPath, "error", "Center could not be deleted")
		return
	}
	h.pages.RedirectWithFlash(w, r, adminCentersPath, "success", "Center deleted")
}
