package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/daiskipp/documenter/internal/api/handlers"
	mw "github.com/daiskipp/documenter/internal/api/middleware"
)

type Dependencies struct {
	// HMACSecret enables JWT auth on the API group when non-empty.
	HMACSecret       []byte
	AuthHandler      *handlers.AuthHandler
	ProjectsHandler  *handlers.ProjectsHandler
	DocumentsHandler *handlers.DocumentsHandler
	VersionsHandler  *handlers.VersionsHandler
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.Recovery)
	r.Use(mw.Logging)
	r.Use(mw.CORS)
	r.Use(mw.RateLimit(10, 20))
	r.Use(chimid.Compress(5))

	hh := handlers.NewHealthHandler()
	r.Get("/healthz", hh.Liveness)
	r.Get("/readyz", hh.Readiness)

	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	r.Route("/api/v1", func(api chi.Router) {
		if dep.AuthHandler != nil {
			api.Route("/auth", func(ar chi.Router) {
				ar.Post("/register", dep.AuthHandler.Register)
				ar.Post("/login", dep.AuthHandler.Login)
				ar.Post("/logout", dep.AuthHandler.Logout)
			})
		}

		api.Group(func(protected chi.Router) {
			if len(dep.HMACSecret) > 0 {
				protected.Use(mw.Auth(dep.HMACSecret))
			}

			protected.Route("/projects", func(pr chi.Router) {
				pr.Get("/", dep.ProjectsHandler.List)
				pr.Post("/", dep.ProjectsHandler.Create)
				pr.Get("/{id}", dep.ProjectsHandler.Get)
				pr.Put("/{id}", dep.ProjectsHandler.Update)
				pr.Delete("/{id}", dep.ProjectsHandler.Delete)
				pr.Get("/{id}/documents", dep.DocumentsHandler.ListByProject)
				pr.Post("/{id}/documents", dep.DocumentsHandler.Create)
			})

			protected.Route("/documents", func(dr chi.Router) {
				dr.Get("/{id}", dep.DocumentsHandler.Get)
				dr.Put("/{id}", dep.DocumentsHandler.Update)
				dr.Delete("/{id}", dep.DocumentsHandler.Delete)
				dr.Get("/{id}/versions", dep.VersionsHandler.ListByDocument)
				dr.Post("/{id}/versions/{versionID}/restore", dep.VersionsHandler.Restore)
			})

			protected.Route("/versions", func(vr chi.Router) {
				vr.Get("/{id}", dep.VersionsHandler.Get)
				vr.Delete("/{id}", dep.VersionsHandler.Delete)
			})
		})
	})

	return r
}
