package centers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/centersguide/centersguide/internal/locale"
	"github.com/centersguide/centersguide/internal/platform/httpx"
	"github.com/centersguide/centersguide/internal/schedules"
	"github.com/centersguide/centersguide/internal/shared"
	"github.com/centersguide/centersguide/internal/view"
)

// Handler serves the public directory pages and JSON API.
type Handler struct {
	logger  *slog.Logger
	service *Service
	pages   *view.Responder
}

// NewHandler builds a Handler.
func NewHandler(logger *slog.Logger, service *Service, pages *view.Responder) *Handler {
	return &Handler{logger: logger, service: service, pages: pages}
}

// MountRoutes registers the public directory pages.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.home)
	r.Get("/centers", h.list)
	r.Get("/centers/{slug}", h.show)
}

// MountAPI registers the read-only JSON API.
func (h *Handler) MountAPI(r chi.Router) {
	r.Get("/centers", h.apiList)
	r.Get("/centers/{slug}", h.apiShow)
}

type listView struct {
	Page         Page
	Pagination   shared.Pagination
	Governorates []string
	Subjects     []string
}

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.List(r.Context(), ListFilters{Sort: SortNewest, PerPage: 6})
	if err != nil {
		h.logger.Error("list latest centers", slog.Any("error", err))
		page = Page{}
	}
	h.pages.Render(w, r, "pages/home.html", locale.T(locale.FromContext(r.Context()), "site.name"), listView{
		Page:         page,
		Governorates: Governorates,
		Subjects:     schedules.SubjectCodes(),
	}, http.StatusOK)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.List(r.Context(), filtersFromRequest(r))
	if err != nil {
		h.logger.Error("list centers", slog.Any("error", err))
		http.Error(w, "Failed to load centers", http.StatusInternalServerError)
		return
	}
	h.pages.Render(w, r, "pages/centers/list.html", locale.T(locale.FromContext(r.Context()), "nav.centers"), listView{
		Page:         page,
		Pagination:   shared.NewPagination(page.Filters.Page, page.Filters.PerPage, page.Total),
		Governorates: Governorates,
		Subjects:     schedules.SubjectCodes(),
	}, http.StatusOK)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.Detail(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("load center", slog.Any("error", err), slog.String("slug", chi.URLParam(r, "slug")))
		http.Error(w, "Failed to load center", http.StatusInternalServerError)
		return
	}
	h.pages.Render(w, r, "pages/centers/detail.html", detail.Center.Name, detail, http.StatusOK)
}

func (h *Handler) apiList(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.List(r.Context(), filtersFromRequest(r))
	if err != nil {
		h.logger.Error("api list centers", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"centers":  nonNil(page.Centers),
		"total":    page.Total,
		"page":     page.Filters.Page,
		"per_page": page.Filters.PerPage,
	})
}

func (h *Handler) apiShow(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.Detail(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			h.logger.Error("api load center", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, detail)
}

func filtersFromRequest(r *http.Request) ListFilters {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	return ListFilters{
		Governorate: q.Get("governorate"),
		Subject:     q.Get("subject"),
		Search:      q.Get("q"),
		Sort:        Sort(q.Get("sort")),
		Page:        page,
		PerPage:     perPage,
	}
}

func nonNil(list []Center) []Center {
	if list == nil {
		return []Center{}
	}
	return list
}
