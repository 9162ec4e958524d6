package api

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fetchops/ai-project-catalog/catalog"
	"github.com/fetchops/ai-project-catalog/errs"
	"github.com/fetchops/ai-project-catalog/models"
	"github.com/fetchops/ai-project-catalog/services"
)

type pageHandler struct {
	logger        zerolog.Logger
	renderer      *pageRenderer
	projectRepo   ProjectStore
	toolRepo      ToolStore
	validator     *catalog.Validator
	notifier      services.Notifier
	notifyTimeout time.Duration
	googleEnabled bool
}

func newPageHandler(renderer *pageRenderer, projectRepo ProjectStore, toolRepo ToolStore, validator *catalog.Validator, notifier services.Notifier, googleEnabled bool) pageHandler {
	return pageHandler{
		logger:        log.With().Str("handlerName", "pageHandler").Logger(),
		renderer:      renderer,
		projectRepo:   projectRepo,
		toolRepo:      toolRepo,
		validator:     validator,
		notifier:      notifier,
		notifyTimeout: 15 * time.Second,
		googleEnabled: googleEnabled,
	}
}

func (h pageHandler) renderPage(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	if err := h.renderer.render(w, r, status, name, title, data); err != nil {
		h.logger.Error().Err(err).Str("page", name).Msg("failed to render page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// failPage renders the not-found page for missing projects and a bare 500 otherwise
func (h pageHandler) failPage(w http.ResponseWriter, r *http.Request, err error) {
	if errs.IsNotFound(err) {
		h.renderPage(w, r, http.StatusNotFound, "notfound", "Not found", nil)
		return
	}
	h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("page request failed")
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

type homeView struct {
	Stats       catalog.Stats
	Unavailable bool
}

func (h pageHandler) home() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := homeView{}
		stats, err := loadStats(r.Context(), h.projectRepo, h.toolRepo)
		if err != nil {
			h.logger.Warn().Err(err).Msg("home statistics unavailable")
			stats = catalog.Summarize(nil, nil)
			view.Unavailable = true
		}
		view.Stats = stats
		h.renderPage(w, r, http.StatusOK, "home", "Home", view)
	}
}

type listView struct {
	Criteria      catalog.Criteria
	DateFrom      string
	DateTo        string
	SelectedTools map[string]bool
	Options       catalog.FilterOptions
	Projects      []models.Project
	ExportCSV     template.URL
	ExportJSON    template.URL
	CriteriaError string
	Saved         bool
	Deleted       bool
	Unavailable   bool
}

func exportURL(format catalog.Format, criteria catalog.Criteria) template.URL {
	values := criteria.Values()
	values.Set("format", string(format))
	return template.URL("/api/export?" + values.Encode())
}

// listProjects shows the filtered collection. Filter options come from the
// whole collection, so it is loaded once and filtered in memory.
func (h pageHandler) listProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		view := listView{
			SelectedTools: map[string]bool{},
			Projects:      []models.Project{},
			Saved:         query.Get("ok") == "1",
			Deleted:       query.Get("deleted") == "1",
		}

		criteria, err := catalog.ParseCriteria(query)
		if err != nil {
			view.CriteriaError = "Dates must look like 2024-03-15."
			view.Criteria = catalog.Criteria{Keyword: query.Get("q")}
			h.renderPage(w, r, http.StatusBadRequest, "projects", "Projects", view)
			return
		}
		view.Criteria = criteria
		if criteria.DateFrom != nil {
			view.DateFrom = criteria.DateFrom.Format(catalog.DateLayout)
		}
		if criteria.DateTo != nil {
			view.DateTo = criteria.DateTo.Format(catalog.DateLayout)
		}
		for _, t := range criteria.Tools {
			view.SelectedTools[t] = true
		}
		view.ExportCSV = exportURL(catalog.FormatCSV, criteria)
		view.ExportJSON = exportURL(catalog.FormatJSON, criteria)

		all, err := h.projectRepo.FindAll(r.Context(), catalog.Criteria{})
		if err != nil {
			h.logger.Warn().Err(err).Msg("project list unavailable")
			view.Unavailable = true
			view.Options = catalog.Options(nil)
			h.renderPage(w, r, http.StatusOK, "projects", "Projects", view)
			return
		}

		view.Options = catalog.Options(all)
		view.Projects = catalog.Filter(all, criteria)
		h.renderPage(w, r, http.StatusOK, "projects", "Projects", view)
	}
}

type detailView struct {
	Project models.Project
	Saved   bool
}

func (h pageHandler) showProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseProjectID(r)
		if err != nil {
			h.failPage(w, r, err)
			return
		}
		project, err := h.projectRepo.FindByID(r.Context(), id)
		if err != nil {
			h.failPage(w, r, err)
			return
		}
		h.renderPage(w, r, http.StatusOK, "project", project.Title, detailView{
			Project: *project,
			Saved:   r.URL.Query().Get("ok") == "1",
		})
	}
}

type formView struct {
	Action         string
	Input          catalog.ProjectInput
	Error          string
	Teams          []string
	ToolCatalog    []string
	SelectedTools  map[string]bool
	OtherTools     string
	LinkTypes      []string
	Links          []catalog.LinkInput
	MaxDescription int
}

func (h pageHandler) newFormView(ctx context.Context, action string, in catalog.ProjectInput, query url.Values) formView {
	view := formView{
		Action:         action,
		Input:          in,
		Error:          formErrorMessage(query.Get("error"), query.Get("len")),
		Teams:          models.Teams,
		SelectedTools:  map[string]bool{},
		LinkTypes:      models.LinkTypes,
		MaxDescription: catalog.MaxDescriptionLength,
	}
	if in.Team != "" && !models.IsTeam(in.Team) {
		view.Teams = append(append([]string{}, models.Teams...), in.Team)
	}

	tools, err := h.toolRepo.FindAll(ctx)
	if err != nil {
		h.logger.Warn().Err(err).Msg("tool catalog unavailable")
	}
	known := map[string]bool{}
	for _, t := range tools {
		view.ToolCatalog = append(view.ToolCatalog, t.Name)
		known[t.Name] = true
	}
	var other []string
	for _, name := range in.Tools {
		if known[name] {
			view.SelectedTools[name] = true
		} else {
			other = append(other, name)
		}
	}
	view.OtherTools = strings.Join(other, ", ")

	view.Links = append(view.Links, in.Links...)
	for len(view.Links) < models.MaxFormLinks {
		view.Links = append(view.Links, catalog.LinkInput{Type: models.DefaultLinkType})
	}
	return view
}

// formErrorMessage turns the error kind carried in the redirect back into prose
func formErrorMessage(kind, length string) string {
	switch errs.ValidationKind(kind) {
	case "":
		return ""
	case errs.KindMissingTitle:
		return "Title is required."
	case errs.KindDescTooLong:
		if n, err := strconv.Atoi(length); err == nil {
			return fmt.Sprintf("Description must be %d characters or fewer (yours was %d).", catalog.MaxDescriptionLength, n)
		}
		return fmt.Sprintf("Description must be %d characters or fewer.", catalog.MaxDescriptionLength)
	case errs.KindInvalidTeam:
		return "Choose a team from the list."
	case errs.KindMissingOwner:
		return "Owner is required."
	case errs.KindInvalidDate:
		return "Deployment date must be a valid date."
	default:
		return "The project could not be saved. Please try again."
	}
}

// formErrorQuery encodes a validation failure for the redirect back to the form
func formErrorQuery(err error) string {
	values := url.Values{}
	ve, ok := errs.AsValidationError(err)
	if !ok {
		values.Set("error", "save")
		return values.Encode()
	}
	values.Set("error", string(ve.Kind))
	if ve.Kind == errs.KindDescTooLong {
		values.Set("len", strconv.Itoa(ve.Length))
	}
	return values.Encode()
}

func (h pageHandler) newProjectForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := h.newFormView(r.Context(), "/projects/new/submit", catalog.ProjectInput{}, r.URL.Query())
		h.renderPage(w, r, http.StatusOK, "form", "Submit a project", view)
	}
}

// createProject validates the form, stores the project and announces it.
// Notification runs detached from the request and never affects the outcome.
func (h pageHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/projects/new?error=save", http.StatusSeeOther)
			return
		}

		project, err := h.validator.Validate(catalog.ParseProjectForm(r.PostForm))
		if err != nil {
			http.Redirect(w, r, "/projects/new?"+formErrorQuery(err), http.StatusSeeOther)
			return
		}

		if err := h.projectRepo.Create(r.Context(), project); err != nil {
			h.logger.Error().Err(err).Str("title", project.Title).Msg("failed to create project")
			http.Redirect(w, r, "/projects/new?error=save", http.StatusSeeOther)
			return
		}

		admin, _ := ctxGetAdmin(r.Context())
		h.logger.Info().Uint("projectId", project.ID).Str("admin", admin.Subject).Msg("project created")
		h.notifyAsync(r.Context(), *project)

		http.Redirect(w, r, "/projects?ok=1", http.StatusSeeOther)
	}
}

func (h pageHandler) notifyAsync(ctx context.Context, project models.Project) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.notifyTimeout)
	go func() {
		defer cancel()
		if err := h.notifier.NotifyNewProject(ctx, project); err != nil {
			notificationFailures.Inc()
			h.logger.Warn().Err(err).Uint("projectId", project.ID).Msg("new project notification failed")
		}
	}()
}

func (h pageHandler) editProjectForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseProjectID(r)
		if err != nil {
			h.failPage(w, r, err)
			return
		}
		project, err := h.projectRepo.FindByID(r.Context(), id)
		if err != nil {
			h.failPage(w, r, err)
			return
		}

		action := fmt.Sprintf("/projects/%d/edit/submit", id)
		view := h.newFormView(r.Context(), action, catalog.InputFromProject(*project), r.URL.Query())
		h.renderPage(w, r, http.StatusOK, "form", "Edit "+project.Title, view)
	}
}

// updateProject replaces the project's fields, tools and links with the submitted form
func (h pageHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseProjectID(r)
		if err != nil {
			h.failPage(w, r, err)
			return
		}
		editURL := fmt.Sprintf("/projects/%d/edit", id)

		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, editURL+"?error=save", http.StatusSeeOther)
			return
		}

		project, err := h.validator.Validate(catalog.ParseProjectForm(r.PostForm))
		if err != nil {
			http.Redirect(w, r, editURL+"?"+formErrorQuery(err), http.StatusSeeOther)
			return
		}
		project.ID = id

		if err := h.projectRepo.Update(r.Context(), project); err != nil {
			if errs.IsNotFound(err) {
				h.failPage(w, r, err)
				return
			}
			h.logger.Error().Err(err).Uint("projectId", id).Msg("failed to update project")
			http.Redirect(w, r, editURL+"?error=save", http.StatusSeeOther)
			return
		}

		http.Redirect(w, r, fmt.Sprintf("/projects/%d?ok=1", id), http.StatusSeeOther)
	}
}

func (h pageHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseProjectID(r)
		if err != nil {
			h.failPage(w, r, err)
			return
		}
		if err := h.projectRepo.Delete(r.Context(), id); err != nil {
			h.failPage(w, r, err)
			return
		}

		admin, _ := ctxGetAdmin(r.Context())
		h.logger.Info().Uint("projectId", id).Str("admin", admin.Subject).Msg("project deleted")
		http.Redirect(w, r, "/projects?deleted=1", http.StatusSeeOther)
	}
}

type adminView struct {
	Error         string
	GoogleEnabled bool
}

func (h pageHandler) adminPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := adminView{GoogleEnabled: h.googleEnabled}
		switch r.URL.Query().Get("err") {
		case "":
		case "signin":
			view.Error = "Sign in as an admin to make changes."
		case "google":
			view.Error = "Google sign-in failed. Please try again."
		case "domain":
			view.Error = "That Google account is not allowed to administer the catalog."
		default:
			view.Error = "That key is not right."
		}
		h.renderPage(w, r, http.StatusOK, "admin", "Admin", view)
	}
}

type expertsView struct {
	Tool        string
	Tools       []string
	Experts     []catalog.Expert
	Unavailable bool
}

func (h pageHandler) expertsPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := expertsView{Tool: strings.TrimSpace(r.URL.Query().Get("tool"))}

		tools, err := h.toolRepo.FindAll(r.Context())
		if err != nil {
			h.logger.Warn().Err(err).Msg("tool catalog unavailable")
			view.Unavailable = true
		}
		for _, t := range tools {
			view.Tools = append(view.Tools, t.Name)
		}

		if view.Tool != "" && !view.Unavailable {
			projects, err := h.projectRepo.FindAll(r.Context(), catalog.Criteria{Tools: []string{view.Tool}})
			if err != nil {
				h.logger.Warn().Err(err).Msg("experts unavailable")
				view.Unavailable = true
			} else {
				view.Experts = catalog.Experts(projects, view.Tool)
			}
		}
		h.renderPage(w, r, http.StatusOK, "experts", "Find an Expert", view)
	}
}
