package centers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/centersguide/centersguide/internal/access"
	"github.com/centersguide/centersguide/internal/locale"
	"github.com/centersguide/centersguide/internal/schedules"
	"github.com/centersguide/centersguide/internal/shared"
	"github.com/centersguide/centersguide/internal/teachers"
	"github.com/centersguide/centersguide/internal/view"
)

const dashboardPath = "/center/dashboard"

// ManageHandler serves the dashboard a center admin uses to edit their own center.
// Routes must sit behind a guard admitting center admins; the center comes from
// the admitted role snapshot, never from the request.
type ManageHandler struct {
	logger    *slog.Logger
	centers   *Service
	teachers  *teachers.Service
	schedules *schedules.Service
	pages     *view.Responder
}

// NewManageHandler builds a ManageHandler.
func NewManageHandler(logger *slog.Logger, centers *Service, teacherSvc *teachers.Service, scheduleSvc *schedules.Service, pages *view.Responder) *ManageHandler {
	return &ManageHandler{logger: logger, centers: centers, teachers: teacherSvc, schedules: scheduleSvc, pages: pages}
}

// MountRoutes registers the center dashboard routes.
func (h *ManageHandler) MountRoutes(r chi.Router) {
	r.Get("/dashboard", h.dashboard)
	r.Post("/profile", h.updateProfile)
	r.Post("/teachers", h.createTeacher)
	r.Post("/teachers/{id}/delete", h.deleteTeacher)
	r.Post("/sessions", h.createSession)
	r.Post("/sessions/{id}/delete", h.deleteSession)
}

type dashboardView struct {
	Detail       Detail
	Governorates []string
	Subjects     []string
	Grades       []string
	Weekdays     []time.Weekday
}

func (h *ManageHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	centerID, ok := h.centerID(w, r)
	if !ok {
		return
	}
	detail, err := h.centers.DetailByID(r.Context(), centerID)
	if err != nil {
		h.logger.Error("load managed center", slog.Any("error", err), slog.Int64("center_id", centerID))
		http.Error(w, "Failed to load center", http.StatusInternalServerError)
		return
	}
	h.pages.Render(w, r, "pages/center/dashboard.html", locale.T(locale.FromContext(r.Context()), "nav.dashboard"), dashboardView{
		Detail:       detail,
		Governorates: Governorates,
		Subjects:     schedules.SubjectCodes(),
		Grades:       schedules.GradeCodes(),
		Weekdays:     []time.Weekday{time.Saturday, time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
	}, http.StatusOK)
}

func (h *ManageHandler) updateProfile(w http.ResponseWriter, r *http.Request) {
	centerID, ok := h.centerID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	err := h.centers.UpdateProfile(r.Context(), centerID, ProfileInput{
		Name:        r.PostFormValue("name"),
		Governorate: r.PostFormValue("governorate"),
		Area:        r.PostFormValue("area"),
		Address:     r.PostFormValue("address"),
		Phone:       r.PostFormValue("phone"),
		Description: r.PostFormValue("description"),
		Subjects:    r.PostForm["subjects"],
	})
	h.finish(w, r, err, "Profile updated")
}

func (h *ManageHandler) createTeacher(w http.ResponseWriter, r *http.Request) {
	centerID, ok := h.centerID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	_, err := h.teachers.Create(r.Context(), centerID, teachers.Input{
		Name:     r.PostFormValue("name"),
		Subjects: r.PostForm["subjects"],
		Bio:      r.PostFormValue("bio"),
		Phone:    r.PostFormValue("phone"),
	})
	h.finish(w, r, err, "Teacher added")
}

func (h *ManageHandler) deleteTeacher(w http.ResponseWriter, r *http.Request) {
	centerID, ok := h.centerID(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid teacher ID", http.StatusBadRequest)
		return
	}
	err = h.teachers.Delete(r.Context(), centerID, id)
	if errors.Is(err, teachers.ErrNotFound) {
		err = shared.Invalid("teacher not found")
	}
	h.finish(w, r, err, "Teacher removed")
}

func (h *ManageHandler) createSession(w http.ResponseWriter, r *http.Request) {
	centerID, ok := h.centerID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	weekday, err := strconv.Atoi(r.PostFormValue("weekday"))
	if err != nil {
		h.finish(w, r, shared.Invalid("choose a weekday"), "")
		return
	}
	duration, err := strconv.Atoi(r.PostFormValue("duration"))
	if err != nil {
		h.finish(w, r, shared.Invalid("duration must be a number of minutes"), "")
		return
	}
	var teacherID int64
	if raw := r.PostFormValue("teacher_id"); raw != "" {
		if teacherID, err = strconv.ParseInt(raw, 10, 64); err != nil {
			h.finish(w, r, shared.Invalid("choose a teacher from the list"), "")
			return
		}
	}
	_, err = h.schedules.Create(r.Context(), centerID, schedules.Input{
		TeacherID:       teacherID,
		Subject:         r.PostFormValue("subject"),
		Grade:           r.PostFormValue("grade"),
		Weekday:         weekday,
		Start:           r.PostFormValue("start"),
		DurationMinutes: duration,
	})
	h.finish(w, r, err, "Session added")
}

func (h *ManageHandler) deleteSession(w http.ResponseWriter, r *http.Request) {
	centerID, ok := h.centerID(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid session ID", http.StatusBadRequest)
		return
	}
	err = h.schedules.Delete(r.Context(), centerID, id)
	if errors.Is(err, schedules.ErrNotFound) {
		err = shared.Invalid("session not found")
	}
	h.finish(w, r, err, "Session removed")
}

// centerID reads the affiliation admitted by the guard. Admins without a
// center are sent to the unauthorized page.
func (h *ManageHandler) centerID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	role, ok := access.RoleFromContext(r.Context())
	if !ok || !role.HasCenter() {
		http.Redirect(w, r, access.UnauthorizedPath, http.StatusSeeOther)
		return 0, false
	}
	return role.CenterID, true
}

func (h *ManageHandler) finish(w http.ResponseWriter, r *http.Request, err error, success string) {
	if err != nil {
		var safe shared.SafeError
		if !errors.As(err, &safe) {
			h.logger.Error("center dashboard update", slog.Any("error", err), slog.String("path", r.URL.Path))
		}
		h.pages.RedirectWithFlash(w, r, dashboardPath, "error", shared.UserSafeMessage(err))
		return
	}
	h.centers.Invalidate(r.Context())
	h.pages.RedirectWithFlash(w, r, dashboardPath, "success", success)
}
