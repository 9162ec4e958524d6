package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fetchops/ai-project-catalog/catalog"
	"github.com/fetchops/ai-project-catalog/errs"
	"github.com/fetchops/ai-project-catalog/services"
)

type exportHandler struct {
	responder   Responder
	logger      zerolog.Logger
	projectRepo ProjectStore
	archiver    services.Archiver
	now         func() time.Time
}

func newExportHandler(projectRepo ProjectStore, archiver services.Archiver) exportHandler {
	logger := log.With().Str("handlerName", "exportHandler").Logger()

	return exportHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		projectRepo: projectRepo,
		archiver:    archiver,
		now:         time.Now,
	}
}

// export serves the filtered collection as CSV (default) or JSON. The document
// is rendered completely before the first byte goes out, so a failed fetch
// yields an error payload and never a truncated file.
// @Summary Export projects
// @Tags Export
// @Produce text/csv
// @Produce json
// @Param format query string false "csv or json"
// @Success 200 {string} string "CSV document"
// @Failure 400 {object} ErrorResponse "Bad Request - Unknown format or invalid date"
// @Router /api/export [get]
func (h exportHandler) export() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format, err := catalog.ParseFormat(r.URL.Query().Get("format"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.serve(w, r, format)
	}
}

// exportCSV is the legacy CSV-only download route
func (h exportHandler) exportCSV() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.serve(w, r, catalog.FormatCSV)
	}
}

func (h exportHandler) serve(w http.ResponseWriter, r *http.Request, format catalog.Format) {
	criteria, err := catalog.ParseCriteria(r.URL.Query())
	if err != nil {
		h.responder.WriteError(w, err)
		return
	}

	projects, err := h.projectRepo.FindAll(r.Context(), criteria)
	if err != nil {
		h.logger.Error().Err(err).Str("format", string(format)).Msg("export aborted, projects unavailable")
		h.responder.WriteError(w, wrapDatabaseError("export", "projects", err))
		return
	}

	exportsTotal.WithLabelValues(string(format)).Inc()

	if format == catalog.FormatJSON {
		w.Header().Set("Cache-Control", "no-store")
		h.responder.WriteJSON(w, catalog.NewExportDocument(projects))
		return
	}

	body := catalog.RenderCSV(projects)
	w.Header().Set("Content-Type", catalog.CSVContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+catalog.CSVFilename+`"`)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.logger.Error().Err(err).Msg("error writing csv export")
	}
}

// archiveExport renders the CSV for the query criteria and stores it in the export bucket
// @Summary Archive an export snapshot
// @Tags Export
// @Produce json
// @Success 201 {object} map[string]string "Archived object key and location"
// @Failure 401 {object} ErrorResponse "Unauthorized - Admin required"
// @Failure 503 {object} ErrorResponse "Service Unavailable - No export bucket configured"
// @Router /api/exports/archive [post]
func (h exportHandler) archiveExport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.archiver == nil {
			h.responder.WriteError(w, errs.NewConfigMissingError("EXPORT_BUCKET"))
			return
		}

		criteria, err := catalog.ParseCriteria(r.URL.Query())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		projects, err := h.projectRepo.FindAll(r.Context(), criteria)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("export", "projects", err))
			return
		}

		key := services.ArchiveKey(h.now(), string(catalog.FormatCSV))
		location, err := h.archiver.Archive(r.Context(), key, catalog.RenderCSV(projects), catalog.CSVContentType)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("key", key).Int("count", len(projects)).Msg("export archived")
		h.responder.WriteJSONWithStatus(w, http.StatusCreated, map[string]interface{}{
			"key":      key,
			"location": location,
			"count":    len(projects),
		})
	}
}
