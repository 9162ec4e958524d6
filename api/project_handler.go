package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fetchops/ai-project-catalog/catalog"
	"github.com/fetchops/ai-project-catalog/errs"
)

type projectHandler struct {
	responder   Responder
	logger      zerolog.Logger
	projectRepo ProjectStore
}

func newProjectHandler(projectRepo ProjectStore) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		projectRepo: projectRepo,
	}
}

// parseProjectID reads the {id} route parameter. Anything that is not a
// positive integer names no project.
func parseProjectID(r *http.Request) (uint, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errs.NewNotFound("project")
	}
	return uint(id), nil
}

// getAllProjects lists projects matching the query criteria
// @Summary List projects
// @Tags Projects
// @Produce json
// @Param q query string false "Keyword"
// @Param team query string false "Team"
// @Param owner query string false "Owner"
// @Param tool query []string false "Tool names"
// @Param dateFrom query string false "YYYY-MM-DD"
// @Param dateTo query string false "YYYY-MM-DD"
// @Success 200 {object} ProjectCollection
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid date"
// @Router /api/projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		criteria, err := catalog.ParseCriteria(r.URL.Query())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		projects, err := h.projectRepo.FindAll(r.Context(), criteria)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "projects", err))
			return
		}

		records := make([]catalog.ExportRecord, 0, len(projects))
		for _, p := range projects {
			records = append(records, catalog.NewExportRecord(p))
		}
		h.responder.WriteJSON(w, ProjectCollection{Projects: records, Total: len(records)})
	}
}

// getProject retrieves a specific project by ID
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} catalog.ExportRecord
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /api/projects/{id} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseProjectID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projectRepo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}

		h.responder.WriteJSON(w, catalog.NewExportRecord(*project))
	}
}

// deleteProject deletes a project and its tool associations and links
// @Summary Delete project
// @Tags Projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} map[string]string "Success message"
// @Failure 401 {object} ErrorResponse "Unauthorized - Admin required"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /api/projects/{id} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseProjectID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.projectRepo.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "project", err))
			return
		}

		admin, _ := ctxGetAdmin(r.Context())
		h.logger.Info().Uint("projectId", id).Str("admin", admin.Subject).Msg("project deleted")

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "project deleted successfully",
		})
	}
}
