package models_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fetchops/ai-project-catalog/database"
	"github.com/fetchops/ai-project-catalog/models"
)

func TestIsTeam(t *testing.T) {
	assert.True(t, models.IsTeam("Performance / UA"))
	assert.False(t, models.IsTeam("performance / ua"))
	assert.False(t, models.IsTeam(""))
}

func TestProject_ToolNamesAndDeployedOn(t *testing.T) {
	local := time.FixedZone("UTC-8", -8*60*60)
	d := datatypes.Date(time.Date(2024, 3, 15, 0, 0, 0, 0, local))
	p := models.Project{
		DeploymentDate: &d,
		Tools: []models.ProjectTool{
			{Tool: models.Tool{Name: "Claude"}},
			{Tool: models.Tool{}},
			{Tool: models.Tool{Name: "n8n"}},
		},
	}

	assert.Equal(t, []string{"Claude", "n8n"}, p.ToolNames())

	day, ok := p.DeployedOn()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), day)

	_, ok = models.Project{}.DeployedOn()
	assert.False(t, ok)
}

func TestLink_BeforeCreateAssignsID(t *testing.T) {
	l := &models.Link{}
	require.NoError(t, l.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, l.ID)

	fixed := uuid.New()
	l = &models.Link{ID: fixed}
	require.NoError(t, l.BeforeCreate(nil))
	assert.Equal(t, fixed, l.ID)
}

func TestGenerateColumnMismatchReport(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	assert.Equal(t, 0, models.GenerateColumnMismatchReport(db))

	require.NoError(t, db.Exec("ALTER TABLE projects ADD COLUMN legacy_owner_name text").Error)
	assert.Equal(t, 1, models.GenerateColumnMismatchReport(db))
}
