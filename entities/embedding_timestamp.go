package entities

import (
	"time"
)

// EmbeddingTimestamp is a speech interval attributed to an embedding's
// speaker, in seconds relative to the owning segment. Intervals shorter
// than the configured minimum are never stored.
type EmbeddingTimestamp struct {
	TimestampID uint      `json:"timestamp_id" gorm:"column:timestamp_id;primaryKey;autoIncrement"`
	EmbeddingID uint      `json:"embedding_id" gorm:"not null;index:idx_timestamps_embedding_id"`
	StartTime   float64   `json:"start_time" gorm:"type:decimal(10,2);not null"`
	EndTime     float64   `json:"end_time" gorm:"type:decimal(10,2);not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`

	Embedding Embedding `json:"-" gorm:"belongsTo:Embedding;foreignKey:EmbeddingID;references:EmbeddingID;constraint:OnDelete:CASCADE"`
}

func (EmbeddingTimestamp) TableName() string {
	return "embedding_timestamps"
}
