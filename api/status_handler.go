package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/fetchops/ai-project-catalog/catalog"
	"github.com/fetchops/ai-project-catalog/models"
)

// Version is stamped at build time with -ldflags "-X .../api.Version=..."
var Version = "dev"

const appName = "ai-project-catalog"

type statusHandler struct {
	responder   Responder
	logger      zerolog.Logger
	projectRepo ProjectStore
	toolRepo    ToolStore
	pinger      Pinger
	environment string
	startupTime time.Time
}

func newStatusHandler(projectRepo ProjectStore, toolRepo ToolStore, pinger Pinger, environment string, startupTime time.Time) statusHandler {
	logger := log.With().Str("handlerName", "statusHandler").Logger()

	return statusHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		projectRepo: projectRepo,
		toolRepo:    toolRepo,
		pinger:      pinger,
		environment: environment,
		startupTime: startupTime,
	}
}

// loadStats fetches projects and tools concurrently and summarizes them
func loadStats(ctx context.Context, projectRepo ProjectStore, toolRepo ToolStore) (catalog.Stats, error) {
	var (
		projects []models.Project
		tools    []models.Tool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		projects, err = projectRepo.FindAll(gctx, catalog.Criteria{})
		return err
	})
	g.Go(func() error {
		var err error
		tools, err = toolRepo.FindAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return catalog.Stats{}, err
	}
	return catalog.Summarize(projects, tools), nil
}

// @Summary Home statistics
// @Tags Status
// @Produce json
// @Success 200 {object} catalog.Stats
// @Router /api/home-stats [get]
func (h statusHandler) homeStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := loadStats(r.Context(), h.projectRepo, h.toolRepo)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("summarize", "projects", err))
			return
		}
		h.responder.WriteJSON(w, stats)
	}
}

// status reports database reachability; it answers 200 even when the database is down
func (h statusHandler) status() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		response := map[string]interface{}{
			"ok":       true,
			"db":       "up",
			"projects": 0,
		}
		if err := h.pinger.Ping(ctx); err != nil {
			h.logger.Warn().Err(err).Msg("database ping failed")
			response["ok"] = false
			response["db"] = "down"
			h.responder.WriteJSON(w, response)
			return
		}

		count, err := h.projectRepo.Count(ctx)
		if err != nil {
			h.logger.Warn().Err(err).Msg("project count failed")
			response["ok"] = false
		}
		response["projects"] = count
		h.responder.WriteJSON(w, response)
	}
}

func (h statusHandler) version() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, map[string]interface{}{
			"app":     appName,
			"env":     h.environment,
			"time":    time.Now().UTC().Format(time.RFC3339),
			"version": Version,
			"uptime":  time.Since(h.startupTime).Round(time.Second).String(),
		})
	}
}

func (h statusHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, map[string]string{"status": "ok"})
	}
}

// experts lists owners who have built with the requested tool
// @Summary Find an expert
// @Tags Projects
// @Produce json
// @Param tool query string true "Tool name"
// @Success 200 {object} map[string]interface{}
// @Router /api/experts [get]
func (h statusHandler) experts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tool := strings.TrimSpace(r.URL.Query().Get("tool"))
		experts := []catalog.Expert{}
		if tool != "" {
			projects, err := h.projectRepo.FindAll(r.Context(), catalog.Criteria{Tools: []string{tool}})
			if err != nil {
				h.responder.WriteError(w, wrapDatabaseError("find", "projects", err))
				return
			}
			experts = catalog.Experts(projects, tool)
		}
		h.responder.WriteJSON(w, map[string]interface{}{
			"tool":    tool,
			"experts": experts,
		})
	}
}
