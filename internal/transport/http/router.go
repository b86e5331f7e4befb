package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterDeps collects the services the router exposes.
type RouterDeps struct {
	Enroll  Enroller
	Listing EnrollmentLister
	Catalog interface {
		CatalogActivityService
		CatalogScheduleService
	}
	Logger      *slog.Logger
	CORSOrigins []string
}

// NewRouter wires all routes and middleware.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger(deps.Logger))
	r.Use(CORS(deps.CORSOrigins))

	r.Get("/health", HealthHandler)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/enrollments", func(r chi.Router) {
		r.Post("/", HandleEnroll(deps.Enroll))
		r.Get("/", HandleListEnrollments(deps.Listing, false))
		r.Get("/visitors", HandleListEnrollments(deps.Listing, true))
	})

	r.Route("/activities", func(r chi.Router) {
		r.Post("/", HandleCreateActivity(deps.Catalog))
		r.Get("/", HandleListActivities(deps.Catalog))
	})

	r.Route("/schedules", func(r chi.Router) {
		r.Post("/", HandleCreateSchedule(deps.Catalog))
		r.Get("/", HandleListSchedules(deps.Catalog))
		r.Put("/{id}/status", HandleSetScheduleStatus(deps.Catalog))
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
	})

	return r
}
