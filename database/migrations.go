package database

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"github.com/fetchops/ai-project-catalog/models"
)

// migrations are applied in order and recorded in the migrations table
func migrations() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			ID: "202401150900_create_catalog_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(
					&models.Tool{},
					&models.Project{},
					&models.ProjectTool{},
					&models.Link{},
				)
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(
					&models.Link{},
					&models.ProjectTool{},
					&models.Project{},
					&models.Tool{},
				)
			},
		},
		{
			// owners used to be entered as Slack handles
			ID: "202402200900_strip_owner_at_prefix",
			Migrate: func(tx *gorm.DB) error {
				return tx.Exec("UPDATE projects SET owner = LTRIM(owner, '@') WHERE owner LIKE '@%'").Error
			},
			Rollback: func(tx *gorm.DB) error {
				return nil
			},
		},
	}
}

// Migrate brings the schema up to date
func Migrate(db *gorm.DB) error {
	return gormigrate.New(db, gormigrate.DefaultOptions, migrations()).Migrate()
}
