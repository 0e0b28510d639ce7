package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dropDatabas3/coldquote/internal/domain/repository"
)

// NewRouter arma el árbol de rutas completo con middlewares y guards.
func NewRouter(a *API) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID, Recover, Logging, Instrument)

	metricsHandler := RegisterMetrics(prometheus.DefaultRegisterer)

	r.Get("/healthz", a.handleHealthz)
	r.Get("/readyz", a.handleReadyz)
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/auth/register", a.handleRegister)
		r.Post("/auth/login", a.handleLogin)
		r.Post("/humid-air", a.handleHumidAir)

		// todo lo que sigue requiere bearer token
		r.Group(func(r chi.Router) {
			r.Use(Auth(a.Tokens))

			r.With(RequireRole(repository.RoleAdmin, repository.RoleModerator)).
				Get("/users", a.handleListUsers)
			r.Get("/users/{userID}", a.handleGetUser)
			r.With(RequireRole(repository.RoleAdmin)).
				Delete("/users/{userID}", a.handleDeleteUser)
			r.Get("/users/{userID}/projects", a.handleUserProjects)

			r.Post("/projects", a.handleCreateProject)
			r.Get("/projects", a.handleListProjects)
			r.Get("/projects/{projectID}", a.handleGetProject)
			r.Get("/projects/{projectID}/members", a.handleListMembers)

			// mutaciones de proyecto: ADMIN del proyecto (o ADMIN global)
			r.Group(func(r chi.Router) {
				r.Use(RequireProjectRole(a.Projects, repository.ProjectRoleAdmin))
				r.Put("/projects/{projectID}", a.handleUpdateProject)
				r.Delete("/projects/{projectID}", a.handleDeleteProject)
				r.Post("/projects/{projectID}/members", a.handleAddMember)
				r.Delete("/projects/{projectID}/members/{userID}", a.handleRemoveMember)
			})

			r.Post("/fast-quote/cold-room", a.handleColdRoomQuote)
			r.Get("/fast-quote/coefficients", a.handleListCoefficients)
			r.With(RequireRole(repository.RoleAdmin)).
				Post("/fast-quote/coefficients", a.handleAddCoefficient)
			r.With(RequireRole(repository.RoleAdmin)).
				Put("/fast-quote/coefficients/{coefficientID}", a.handleUpdateCoefficient)
		})
	})

	return r
}
