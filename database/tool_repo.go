package database

import (
	"context"

	"gorm.io/gorm"

	"github.com/fetchops/ai-project-catalog/models"
)

type ToolRepo struct {
	db    *gorm.DB
	retry RetryPolicy
}

func NewToolRepo(db *gorm.DB, retry RetryPolicy) *ToolRepo {
	return &ToolRepo{db: db, retry: retry}
}

// FindAll returns every known tool ordered by name
func (r *ToolRepo) FindAll(ctx context.Context) ([]models.Tool, error) {
	var tools []models.Tool
	err := r.retry.Do(ctx, "find tools", func() error {
		tools = nil
		return r.db.WithContext(ctx).Order("name").Find(&tools).Error
	})
	return tools, err
}
