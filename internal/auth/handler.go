package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/centersguide/centersguide/internal/access"
	"github.com/centersguide/centersguide/internal/locale"
	"github.com/centersguide/centersguide/internal/shared"
	"github.com/centersguide/centersguide/internal/view"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger         *slog.Logger
	service        *Service
	pages          *view.Responder
	sessionManager *shared.SessionManager
	validator      *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, pages *view.Responder, sessions *shared.SessionManager) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:         logger,
		service:        service,
		pages:          pages,
		sessionManager: sessions,
		validator:      validator.New(),
	}
}

// LoginPage returns the GET handler of a sign-in portal.
func (h *Handler) LoginPage(portal Portal) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.renderLogin(w, r, portal, loginForm{}, nil, http.StatusOK)
	}
}

// Login returns the POST handler of a sign-in portal.
func (h *Handler) Login(portal Portal) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.handleLogin(w, r, portal)
	}
}

// MountRoutes registers the portal independent auth routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/logout", h.handleLogout)
}

type loginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

type loginPageData struct {
	Portal Portal
	Form   loginForm
	From   string
	Errors map[string]string
}

func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, portal Portal, form loginForm, errs map[string]string, status int) {
	form.Password = ""
	lang := locale.FromContext(r.Context())
	h.pages.Render(w, r, "pages/login.html", locale.T(lang, portal.Title), loginPageData{
		Portal: portal,
		Form:   form,
		From:   access.SafeReturn(r.FormValue(access.ReturnParam), ""),
		Errors: errs,
	}, status)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request, portal Portal) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		h.logger.Error("session missing during login")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	form := loginForm{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	errs := make(map[string]string)
	if err := h.validator.Struct(form); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fieldErr := range fieldErrs {
				errs[fieldErr.Field()] = fieldErr.Error()
			}
		}
	}
	if len(errs) > 0 {
		h.renderLogin(w, r, portal, form, errs, http.StatusBadRequest)
		return
	}

	user, err := h.service.Authenticate(r.Context(), form.Email, form.Password)
	if err != nil {
		h.logger.Info("login failed", slog.String("portal", portal.Path), slog.String("ip", r.RemoteAddr))
		errs["general"] = "Invalid email or password"
		h.renderLogin(w, r, portal, form, errs, http.StatusBadRequest)
		return
	}

	h.sessionManager.Renew(sess)
	sess.SetUser(strconv.FormatInt(user.ID, 10))
	sess.AddFlash(shared.FlashMessage{Kind: "success", Message: "Welcome back"})
	expiresAt := time.Now().Add(h.sessionManager.TTL())
	if err := h.service.RegisterSession(r.Context(), sess.ID, user.ID, expiresAt, r.RemoteAddr, r.UserAgent()); err != nil {
		h.logger.Warn("register session", slog.Any("error", err))
	}
	h.logger.Info("login", slog.Int64("user_id", user.ID), slog.String("portal", portal.Path))

	target := access.SafeReturn(r.PostFormValue(access.ReturnParam), "")
	if target == "" {
		target = h.service.Home(r.Context(), user.ID)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		if err := h.service.RemoveSession(r.Context(), sess.ID); err != nil {
			h.logger.Warn("remove session", slog.Any("error", err))
		}
		h.sessionManager.Destroy(sess)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
