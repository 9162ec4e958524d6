package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Link types offered by the project form
var LinkTypes = []string{"Demo", "Jira", "Tool/Homepage", "Drive", "Other"}

// MaxFormLinks is the number of link slots on the project form
const MaxFormLinks = 3

// DefaultLinkType is used when a link is submitted without a type
const DefaultLinkType = "Other"

// Link is a typed URL attached to a project
type Link struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey"`
	ProjectID uint      `json:"projectId" db:"project_id" gorm:"not null;index:idx_links_project_id"`
	Type      string    `json:"type" db:"type" gorm:"type:text;not null"`
	URL       string    `json:"url" db:"url" gorm:"type:text;not null"`
	Position  int       `json:"position" db:"position" gorm:"not null;default:0"`
}

func (l *Link) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
