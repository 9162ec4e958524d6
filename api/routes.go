package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRoutes registers the HTML pages, the JSON API and the operational endpoints
func setupRoutes(r chi.Router, handlers *routeHandlers, loginLimiter func(http.Handler) http.Handler) {
	gate := handlers.adminGate
	pages := handlers.pageHandler

	r.Get("/health", handlers.statusHandler.health())
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(gate.loadAdmin)

		// Pages
		r.Get("/", pages.home())
		r.Get("/projects", pages.listProjects())
		r.Get("/projects/{id}", pages.showProject())
		r.Get("/experts", pages.expertsPage())
		r.Get("/admin", pages.adminPage())

		r.Group(func(r chi.Router) {
			r.Use(gate.requirePageAdmin)
			r.Get("/projects/new", pages.newProjectForm())
			r.Post("/projects/new/submit", pages.createProject())
			r.Get("/projects/{id}/edit", pages.editProjectForm())
			r.Post("/projects/{id}/edit/submit", pages.updateProject())
			r.Post("/projects/{id}/delete", pages.deleteProject())
		})

		// Sign-in
		r.With(loginLimiter).Post("/admin/login", gate.login())
		r.Post("/admin/logout", gate.logout())
		r.Get("/auth/google", gate.googleBegin())
		r.Get("/auth/google/callback", gate.googleCallback())

		// JSON API
		r.Route("/api", func(r chi.Router) {
			r.Get("/projects", handlers.projectHandler.getAllProjects())
			r.Get("/projects/{id}", handlers.projectHandler.getProject())
			r.Get("/export", handlers.exportHandler.export())
			r.Get("/projects-csv", handlers.exportHandler.exportCSV())
			r.Get("/home-stats", handlers.statusHandler.homeStats())
			r.Get("/status", handlers.statusHandler.status())
			r.Get("/version", handlers.statusHandler.version())
			r.Get("/experts", handlers.statusHandler.experts())

			r.Group(func(r chi.Router) {
				r.Use(gate.requireAPIAdmin)
				r.Delete("/projects/{id}", handlers.projectHandler.deleteProject())
				r.Post("/exports/archive", handlers.exportHandler.archiveExport())
			})
		})
	})
}
