package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fetchops/ai-project-catalog/catalog"
	"github.com/fetchops/ai-project-catalog/models"
)

var testRetry = RetryPolicy{Attempts: 2, InitialInterval: time.Millisecond}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, Migrate(db))
	return db
}

func newTestDatabase(t *testing.T) Database {
	return New(newTestDB(t), testRetry)
}

type draft struct {
	title, team, owner, date string
	tools                    []string
}

func createProject(t *testing.T, repo *ProjectRepo, d draft) *models.Project {
	t.Helper()

	project, err := catalog.NewValidator(true).Validate(catalog.ProjectInput{
		Title:          d.title,
		Description:    d.title + " description",
		Team:           d.team,
		Owner:          d.owner,
		DeploymentDate: d.date,
		Tools:          d.tools,
	})
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), project))
	// distinct created_at values keep ordering deterministic
	time.Sleep(2 * time.Millisecond)
	return project
}
