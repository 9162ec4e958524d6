package api

import (
	"context"

	"github.com/fetchops/ai-project-catalog/catalog"
	"github.com/fetchops/ai-project-catalog/models"
)

// ProjectStore is the persistence the handlers need. *database.ProjectRepo satisfies it.
type ProjectStore interface {
	FindAll(ctx context.Context, criteria catalog.Criteria) ([]models.Project, error)
	FindByID(ctx context.Context, id uint) (*models.Project, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id uint) error
}

type ToolStore interface {
	FindAll(ctx context.Context) ([]models.Tool, error)
}

// Pinger reports whether the database is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler projectHandler
	exportHandler  exportHandler
	pageHandler    pageHandler
	statusHandler  statusHandler
	adminGate      *adminGate
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// ProjectCollection is the JSON list response
type ProjectCollection struct {
	Projects []catalog.ExportRecord `json:"projects"`
	Total    int                    `json:"total"`
}
