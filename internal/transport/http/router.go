// Package httptransport assembles the full HTTP surface: the wizard routes
// behind the client-key scope, the auth routes, the authenticated document
// intake, and the operational endpoints.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhandler "engage/internal/auth/handler"
	dochandler "engage/internal/documents/handler"
	onboardinghandler "engage/internal/onboarding/handler"
	"engage/internal/platform/middleware"
)

// Deps holds everything the router mounts.
type Deps struct {
	Logger     *slog.Logger
	Validator  middleware.JWTValidator
	Onboarding onboardinghandler.Service
	Auth       authhandler.Service
	Documents  dochandler.Service
	Registry   *prometheus.Registry
	Health     func() error
}

// NewRouter wires the middleware chain and all route groups.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.ContentTypeJSON)

	// Wizard routes: client-key scoped, identity attached when present.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireClientKey)
		r.Use(middleware.OptionalAuth(deps.Validator))
		onboardinghandler.New(deps.Onboarding, deps.Logger).Register(r)
	})

	authhandler.New(deps.Auth, deps.Logger).Register(r)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(deps.Validator, deps.Logger))
		dochandler.New(deps.Documents, deps.Logger).Register(r)
	})

	r.Get("/healthz", healthHandler(deps.Health))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))

	return r
}

func healthHandler(check func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if check != nil {
			if err := check(); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"degraded"}`))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}
