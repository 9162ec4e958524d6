package api

import (
	"time"

	"github.com/fetchops/ai-project-catalog/catalog"
	"github.com/fetchops/ai-project-catalog/config"
	"github.com/fetchops/ai-project-catalog/services"
)

// Dependencies are the collaborators the HTTP surface is built on
type Dependencies struct {
	Projects ProjectStore
	Tools    ToolStore
	Pinger   Pinger
	Notifier services.Notifier
	Archiver services.Archiver // nil when no export bucket is configured
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(settings config.Settings, deps Dependencies, startupTime time.Time) (*routeHandlers, error) {
	renderer, err := newPageRenderer()
	if err != nil {
		return nil, err
	}

	notifier := deps.Notifier
	if notifier == nil {
		notifier = services.NoopNotifier{}
	}

	gate := newAdminGate(adminGateConfig{
		AdminKey:           settings.AdminKey,
		SessionSecret:      settings.SessionSecret,
		TokenSecret:        settings.APITokenSecret,
		GoogleClientID:     settings.GoogleClientID,
		GoogleClientSecret: settings.GoogleClientSecret,
		AdminEmailDomain:   settings.AdminEmailDomain,
		BaseURL:            settings.AppBaseURL,
		SecureCookies:      settings.IsProduction(),
	})

	validator := catalog.NewValidator(settings.StrictTeams)

	return &routeHandlers{
		projectHandler: newProjectHandler(deps.Projects),
		exportHandler:  newExportHandler(deps.Projects, deps.Archiver),
		pageHandler:    newPageHandler(renderer, deps.Projects, deps.Tools, validator, notifier, gate.googleEnabled()),
		statusHandler:  newStatusHandler(deps.Projects, deps.Tools, deps.Pinger, settings.Environment, startupTime),
		adminGate:      gate,
	}, nil
}
