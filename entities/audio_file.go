package entities

import (
	"time"
)

// AudioFile is the converted wav artifact acquired for a URL, at most one
// per source.
type AudioFile struct {
	AudioID         uint      `json:"audio_id" gorm:"column:audio_id;primaryKey;autoIncrement"`
	ProjectID       uint      `json:"project_id" gorm:"not null;index:idx_audio_files_project_id"`
	URLID           uint      `json:"url_id" gorm:"not null;uniqueIndex:uq_audio_url"`
	URLFolder       string    `json:"url_folder" gorm:"type:varchar(255);not null"`
	FileName        string    `json:"file_name" gorm:"type:varchar(255);not null"`
	AudioPath       string    `json:"audio_path" gorm:"type:varchar(500);not null"`
	DurationSeconds float64   `json:"duration_seconds" gorm:"type:decimal(10,2)"`
	CreatedAt       time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`

	Project Project `json:"-" gorm:"belongsTo:Project;foreignKey:ProjectID;references:ProjectID;constraint:OnDelete:CASCADE"`
	URLRef  URL     `json:"-" gorm:"belongsTo:URL;foreignKey:URLID;references:URLID;constraint:OnDelete:CASCADE"`
}

func (AudioFile) TableName() string {
	return "audio_files"
}
