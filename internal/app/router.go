package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/centersguide/centersguide/internal/access"
	"github.com/centersguide/centersguide/internal/admin"
	"github.com/centersguide/centersguide/internal/auth"
	"github.com/centersguide/centersguide/internal/centers"
	"github.com/centersguide/centersguide/internal/locale"
	"github.com/centersguide/centersguide/internal/observability"
	"github.com/centersguide/centersguide/internal/shared"
	"github.com/centersguide/centersguide/internal/view"
	"github.com/centersguide/centersguide/jobs"
	"github.com/centersguide/centersguide/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	Pages          *view.Responder
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	Guard          *access.Guard

	AuthHandler         *auth.Handler
	CentersHandler      *centers.Handler
	ManageHandler       *centers.ManageHandler
	CentersAdminHandler *centers.AdminHandler
	AdminHandler        *admin.Handler
	JobHandler          *jobs.Handler
	Metrics             *observability.Metrics
}

// NewRouter constructs the chi.Router with the application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	if !InTestMode() {
		r.Use(chimw.Logger)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get(access.UnauthorizedPath, func(w http.ResponseWriter, r *http.Request) {
		lang := locale.FromContext(r.Context())
		params.Pages.Render(w, r, "pages/unauthorized.html", locale.T(lang, "unauthorized.title"), nil, http.StatusForbidden)
	})

	params.CentersHandler.MountRoutes(r)
	r.Route("/api", params.CentersHandler.MountAPI)

	loginLimit := LoginRateLimit(0)
	if params.Config != nil {
		loginLimit = LoginRateLimit(params.Config.LoginRateLimit)
	}
	guard := params.Guard

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Route("/center", func(r chi.Router) {
		r.Get("/login", params.AuthHandler.LoginPage(auth.CenterPortal))
		r.With(loginLimit).Post("/login", params.AuthHandler.Login(auth.CenterPortal))
		r.Get("/events", guard.Stream(access.CenterAdminOnly))
		r.Group(func(r chi.Router) {
			r.Use(guard.Require(access.CenterAdminOnly))
			params.ManageHandler.MountRoutes(r)
		})
	})

	r.Route("/admin", func(r chi.Router) {
		r.Get("/login", params.AuthHandler.LoginPage(auth.AdminPortal))
		r.With(loginLimit).Post("/login", params.AuthHandler.Login(auth.AdminPortal))
		r.Group(func(r chi.Router) {
			r.Use(guard.Require(access.AnyAdmin))
			params.AdminHandler.MountOverview(r)
		})
		r.Route("/centers", func(r chi.Router) {
			r.Use(guard.Require(access.SuperAdminOnly))
			params.CentersAdminHandler.MountRoutes(r)
		})
		r.Route("/roles", func(r chi.Router) {
			r.Use(guard.Require(access.SuperAdminOnly))
			params.AdminHandler.MountRoles(r)
		})
	})

	if params.JobHandler != nil {
		r.Route("/jobs", func(r chi.Router) {
			r.Use(guard.Require(access.SuperAdminOnly))
			params.JobHandler.MountRoutes(r)
		})
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))
	}

	return r
}

// staticCacheHandler wraps a file server with Cache-Control headers.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
