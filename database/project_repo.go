package database

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fetchops/ai-project-catalog/catalog"
	"github.com/fetchops/ai-project-catalog/errs"
	"github.com/fetchops/ai-project-catalog/models"
)

type ProjectRepo struct {
	db    *gorm.DB
	retry RetryPolicy
}

func NewProjectRepo(db *gorm.DB, retry RetryPolicy) *ProjectRepo {
	return &ProjectRepo{db: db, retry: retry}
}

// projectColumns are written on update; id and created_at never change
var projectColumns = []string{
	"title",
	"description",
	"team",
	"owner",
	"hours_saved_per_week",
	"deployment_date",
	"how_you_built_it",
	"challenges_solutions_tips",
	"other_impacts",
	"next_steps",
	"other_notes",
	"updated_at",
}

func (r *ProjectRepo) withAssociations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Tools", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Tools.Tool").
		Preload("Links", func(db *gorm.DB) *gorm.DB { return db.Order("position") })
}

// scopeCriteria pushes the structured predicates of c into SQL. The keyword
// predicate is left to catalog.Filter.
func scopeCriteria(c catalog.Criteria) func(*gorm.DB) *gorm.DB {
	n := c.Normalized()
	return func(db *gorm.DB) *gorm.DB {
		if n.Team != "" {
			db = db.Where("projects.team = ?", n.Team)
		}
		if n.Owner != "" {
			db = db.Where("projects.owner = ?", n.Owner)
		}
		if len(n.Tools) > 0 {
			db = db.Where(`EXISTS (
				SELECT 1 FROM project_tools pt
				JOIN tools t ON t.id = pt.tool_id
				WHERE pt.project_id = projects.id AND t.name IN ?)`, n.Tools)
		}
		// compared as ISO date strings so the column type decides, not the session time zone
		if n.DateFrom != nil {
			db = db.Where("projects.deployment_date >= ?", n.DateFrom.Format(catalog.DateLayout))
		}
		if n.DateTo != nil {
			db = db.Where("projects.deployment_date < ?", n.DateTo.AddDate(0, 0, 1).Format(catalog.DateLayout))
		}
		return db
	}
}

// FindAll returns the projects matching c, newest first, with tools and links
// loaded. Transient failures are retried according to the repo's policy.
func (r *ProjectRepo) FindAll(ctx context.Context, c catalog.Criteria) ([]models.Project, error) {
	var projects []models.Project
	err := r.retry.Do(ctx, "find projects", func() error {
		projects = nil
		return r.withAssociations(ctx).
			Scopes(scopeCriteria(c)).
			Order("projects.created_at DESC").
			Order("projects.id DESC").
			Find(&projects).Error
	})
	if err != nil {
		return nil, err
	}
	return catalog.Filter(projects, c), nil
}

// FindByID returns a project by its ID
func (r *ProjectRepo) FindByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	err := r.retry.Do(ctx, "find project", func() error {
		return r.withAssociations(ctx).First(&project, id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("project")
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Count returns the number of stored projects
func (r *ProjectRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).Count(&n).Error
	return n, err
}

// Create inserts the project, creating any tools it names that do not exist
// yet, and stores its links. On success project carries its new ID and
// resolved associations.
func (r *ProjectRepo) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		joins, err := resolveTools(tx, project.Tools)
		if err != nil {
			return err
		}
		links := project.Links
		project.Tools, project.Links = nil, nil

		if err := tx.Omit(clause.Associations).Create(project).Error; err != nil {
			return err
		}
		if err := insertAssociations(tx, project.ID, joins, links); err != nil {
			return err
		}
		project.Tools, project.Links = joins, links
		return nil
	})
}

// Update replaces the scalar fields, tools and links of an existing project
func (r *ProjectRepo) Update(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Project
		if err := tx.Select("id", "created_at").First(&existing, project.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.NewNotFound("project")
			}
			return err
		}

		joins, err := resolveTools(tx, project.Tools)
		if err != nil {
			return err
		}
		links := project.Links
		project.Tools, project.Links = nil, nil
		project.CreatedAt = existing.CreatedAt
		project.UpdatedAt = time.Now()

		if err := tx.Model(project).Select(projectColumns).Updates(project).Error; err != nil {
			return err
		}
		if err := deleteAssociations(tx, project.ID); err != nil {
			return err
		}
		if err := insertAssociations(tx, project.ID, joins, links); err != nil {
			return err
		}
		project.Tools, project.Links = joins, links
		return nil
	})
}

// Delete removes a project and its dependents; dependents go first
func (r *ProjectRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteAssociations(tx, id); err != nil {
			return err
		}
		res := tx.Delete(&models.Project{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.NewNotFound("project")
		}
		return nil
	})
}

// resolveTools gets or creates each named tool, keeping the submitted order
func resolveTools(tx *gorm.DB, requested []models.ProjectTool) ([]models.ProjectTool, error) {
	joins := make([]models.ProjectTool, 0, len(requested))
	for i, pt := range requested {
		tool := models.Tool{}
		if err := tx.Where(models.Tool{Name: pt.Tool.Name}).FirstOrCreate(&tool).Error; err != nil {
			return nil, err
		}
		joins = append(joins, models.ProjectTool{ToolID: tool.ID, Position: i, Tool: tool})
	}
	return joins, nil
}

func insertAssociations(tx *gorm.DB, projectID uint, joins []models.ProjectTool, links []models.Link) error {
	if len(joins) > 0 {
		for i := range joins {
			joins[i].ProjectID = projectID
		}
		if err := tx.Omit(clause.Associations).Create(&joins).Error; err != nil {
			return err
		}
	}
	if len(links) > 0 {
		for i := range links {
			links[i].ProjectID = projectID
			links[i].Position = i
		}
		if err := tx.Create(&links).Error; err != nil {
			return err
		}
	}
	return nil
}

func deleteAssociations(tx *gorm.DB, projectID uint) error {
	if err := tx.Where("project_id = ?", projectID).Delete(&models.ProjectTool{}).Error; err != nil {
		return err
	}
	return tx.Where("project_id = ?", projectID).Delete(&models.Link{}).Error
}
