package entities

import (
	"time"
)

// URL is a remote audio source registered under a project. The same locator
// may appear in different projects but only once per project.
type URL struct {
	URLID     uint      `json:"url_id" gorm:"column:url_id;primaryKey;autoIncrement"`
	ProjectID uint      `json:"project_id" gorm:"not null;uniqueIndex:uq_project_url;index:idx_urls_project_id"`
	URL       string    `json:"url" gorm:"type:varchar(2083);not null;uniqueIndex:uq_project_url,length:512"`
	URLType   string    `json:"url_type" gorm:"type:varchar(50);not null"`
	Title     *string   `json:"title" gorm:"type:varchar(500)"`
	Author    *string   `json:"author" gorm:"type:varchar(255)"`
	ViewCount *int64    `json:"view_count" gorm:"type:bigint"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`

	Project Project `json:"-" gorm:"belongsTo:Project;foreignKey:ProjectID;references:ProjectID;constraint:OnDelete:CASCADE"`
}

func (URL) TableName() string {
	return "urls"
}
