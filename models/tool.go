package models

// Tool is a named AI tool shared across projects. Names are unique and
// compared case-sensitively.
type Tool struct {
	ID   uint   `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" db:"name" gorm:"type:text;not null;uniqueIndex:idx_tools_name"`
}

// ProjectTool joins a project to one of its tools
type ProjectTool struct {
	ProjectID uint `json:"projectId" db:"project_id" gorm:"primaryKey;autoIncrement:false"`
	ToolID    uint `json:"toolId" db:"tool_id" gorm:"primaryKey;autoIncrement:false;index:idx_project_tools_tool_id"`
	Position  int  `json:"position" db:"position" gorm:"not null;default:0"`

	Tool Tool `json:"tool" gorm:"foreignKey:ToolID;references:ID;constraint:OnDelete:CASCADE"`
}
