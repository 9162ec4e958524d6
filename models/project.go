package models

import (
	"time"

	"gorm.io/datatypes"
)

// Project is a single catalogued AI project with its tools and links
type Project struct {
	ID                      uint            `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Title                   string          `json:"title" db:"title" gorm:"type:text;not null"`
	Description             string          `json:"description" db:"description" gorm:"type:text;not null"`
	Team                    string          `json:"team" db:"team" gorm:"type:text;not null;index:idx_projects_team"`
	Owner                   string          `json:"owner" db:"owner" gorm:"type:text;not null;index:idx_projects_owner"`
	HoursSavedPerWeek       int             `json:"hoursSavedPerWeek" db:"hours_saved_per_week" gorm:"not null;default:0"`
	DeploymentDate          *datatypes.Date `json:"deploymentDate,omitempty" db:"deployment_date" gorm:"index:idx_projects_deployment_date"`
	HowYouBuiltIt           *string         `json:"howYouBuiltIt,omitempty" db:"how_you_built_it" gorm:"type:text"`
	ChallengesSolutionsTips *string         `json:"challengesSolutionsTips,omitempty" db:"challenges_solutions_tips" gorm:"type:text"`
	OtherImpacts            *string         `json:"otherImpacts,omitempty" db:"other_impacts" gorm:"type:text"`
	NextSteps               *string         `json:"nextSteps,omitempty" db:"next_steps" gorm:"type:text"`
	OtherNotes              *string         `json:"otherNotes,omitempty" db:"other_notes" gorm:"type:text"`
	CreatedAt               time.Time       `json:"createdAt" db:"created_at" gorm:"not null;index:idx_projects_created_at"`
	UpdatedAt               time.Time       `json:"updatedAt" db:"updated_at" gorm:"not null"`

	Tools []ProjectTool `json:"tools,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
	Links []Link        `json:"links,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
}

// ToolNames returns the names of the project's tools in association order.
func (p Project) ToolNames() []string {
	names := make([]string, 0, len(p.Tools))
	for _, pt := range p.Tools {
		if pt.Tool.Name != "" {
			names = append(names, pt.Tool.Name)
		}
	}
	return names
}

// DeployedOn returns the deployment date as a UTC calendar date, or false when
// the project has none.
func (p Project) DeployedOn() (time.Time, bool) {
	if p.DeploymentDate == nil {
		return time.Time{}, false
	}
	y, m, d := time.Time(*p.DeploymentDate).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
}
