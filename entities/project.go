package entities

import (
	"time"
)

type Project struct {
	ProjectID   uint      `json:"project_id" gorm:"column:project_id;primaryKey;autoIncrement"`
	ProjectName string    `json:"project_name" gorm:"type:varchar(255);uniqueIndex;not null"`
	Description *string   `json:"description" gorm:"type:text"`
	ProjectPath string    `json:"project_path" gorm:"type:varchar(500);not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Project) TableName() string {
	return "projects"
}
