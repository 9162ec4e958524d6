package catalog

import (
	"time"

	"gorm.io/datatypes"

	"github.com/fetchops/ai-project-catalog/models"
)

var baseTime = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func newProject(id uint, title, team, owner string, tools ...string) models.Project {
	p := models.Project{
		ID:        id,
		Title:     title,
		Team:      team,
		Owner:     owner,
		CreatedAt: baseTime.Add(time.Duration(id) * time.Hour),
		UpdatedAt: baseTime.Add(time.Duration(id) * time.Hour),
	}
	for i, name := range tools {
		p.Tools = append(p.Tools, models.ProjectTool{
			ProjectID: id,
			ToolID:    uint(i + 1),
			Tool:      models.Tool{ID: uint(i + 1), Name: name},
		})
	}
	return p
}

func deployedOn(p models.Project, day string) models.Project {
	t, err := time.Parse(DateLayout, day)
	if err != nil {
		panic(err)
	}
	d := datatypes.Date(t)
	p.DeploymentDate = &d
	return p
}

func mustDate(day string) *time.Time {
	t, err := time.Parse(DateLayout, day)
	if err != nil {
		panic(err)
	}
	return &t
}

func ids(projects []models.Project) []uint {
	out := make([]uint, 0, len(projects))
	for _, p := range projects {
		out = append(out, p.ID)
	}
	return out
}

func strPtr(s string) *string {
	return &s
}
