package view

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/centersguide/centersguide/internal/access"
	"github.com/centersguide/centersguide/internal/locale"
	"github.com/centersguide/centersguide/internal/shared"
)

// Responder renders pages with the request-scoped session, language and role.
type Responder struct {
	engine *Engine
	csrf   *shared.CSRFManager
	logger *slog.Logger
}

// NewResponder builds a Responder.
func NewResponder(engine *Engine, csrf *shared.CSRFManager, logger *slog.Logger) *Responder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Responder{engine: engine, csrf: csrf, logger: logger}
}

// Render writes the named page with status.
func (rs *Responder) Render(w http.ResponseWriter, r *http.Request, name, title string, data any, status int) {
	sess := shared.SessionFromContext(r.Context())
	lang := locale.FromContext(r.Context())
	viewData := TemplateData{
		Title:       title,
		CurrentPath: r.URL.Path,
		Lang:        lang,
		Dir:         lang.Dir(),
		Data:        data,
	}
	if sess != nil {
		if rs.csrf != nil {
			viewData.CSRFToken, _ = rs.csrf.EnsureToken(r.Context(), sess)
		}
		viewData.Flash = sess.PopFlash()
		viewData.SignedIn = sess.User() != ""
	}
	if role, ok := access.RoleFromContext(r.Context()); ok {
		viewData.Role = role
	}
	var buf bytes.Buffer
	if err := rs.engine.Execute(&buf, name, viewData); err != nil {
		rs.logger.Error("render template", slog.Any("error", err), slog.String("template", name))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// RedirectWithFlash queues a flash message and redirects with 303.
func (rs *Responder) RedirectWithFlash(w http.ResponseWriter, r *http.Request, location, kind, message string) {
	shared.AddFlash(r.Context(), kind, message)
	http.Redirect(w, r, location, http.StatusSeeOther)
}
