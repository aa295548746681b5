package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/reqstudio/reqstudio/internal/docservice"
	"github.com/reqstudio/reqstudio/internal/endpointservice"
	"github.com/reqstudio/reqstudio/internal/envservice"
	"github.com/reqstudio/reqstudio/internal/projectservice"
	"github.com/reqstudio/reqstudio/internal/runner"
	"github.com/reqstudio/reqstudio/internal/store"
)

// Handler holds the API route handlers and their service dependencies.
type Handler struct {
	projects  *projectservice.Service
	endpoints *endpointservice.Service
	docs      *docservice.Service
	envs      *envservice.Service
	runner    *runner.Runner
	store     *store.Store
}

// NewHandler creates a new Handler.
func NewHandler(
	projects *projectservice.Service,
	endpoints *endpointservice.Service,
	docs *docservice.Service,
	envs *envservice.Service,
	run *runner.Runner,
	st *store.Store,
) *Handler {
	return &Handler{
		projects:  projects,
		endpoints: endpoints,
		docs:      docs,
		envs:      envs,
		runner:    run,
		store:     st,
	}
}

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
func NewRouter(h *Handler, authEnabled bool, token string) chi.Router {
	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Route("/projects", func(r chi.Router) {
		r.Get("/", h.ListProjects)
		r.Post("/", h.CreateProject)

		r.Route("/{projectID}", func(r chi.Router) {
			r.Get("/", h.GetProject)
			r.Put("/", h.UpdateProject)
			r.Delete("/", h.DeleteProject)

			r.Get("/endpoints", h.ListProjectEndpoints)
			r.Post("/endpoints", h.CreateProjectEndpoint)
			r.Put("/endpoints/reorder", h.ReorderEndpoints)
			r.Get("/endpoints/search", h.SearchEndpoints)
			r.Get("/endpoints/validate-path", h.ValidateEndpointPath)

			r.Get("/documentation", h.ListDocumentation)
			r.Post("/documentation", h.CreateDocumentation)

			r.Get("/environments", h.ListEnvironments)
			r.Post("/environments", h.CreateEnvironment)
		})
	})

	r.Route("/endpoints/{endpointID}", func(r chi.Router) {
		r.Get("/", h.GetEndpoint)
		r.Put("/", h.UpdateEndpoint)
		r.Delete("/", h.DeleteEndpoint)
		r.Post("/duplicate", h.DuplicateEndpoint)
		r.Post("/run", h.RunEndpoint)
		r.Get("/history", h.EndpointHistory)
	})

	r.Route("/documentation/{docID}", func(r chi.Router) {
		r.Get("/", h.GetDocumentation)
		r.Put("/", h.UpdateDocumentation)
		r.Delete("/", h.DeleteDocumentation)
	})

	r.Route("/environments/{envID}", func(r chi.Router) {
		r.Get("/", h.GetEnvironment)
		r.Put("/", h.UpdateEnvironment)
		r.Delete("/", h.DeleteEnvironment)
	})

	r.Post("/backup", h.Backup)

	return r
}
