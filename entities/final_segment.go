package entities

import (
	"time"
)

// FinalSegment is the audio artifact sliced out of a parent segment for one
// speech interval. Keyed by the interval so reruns of the materializer are
// exact no-ops.
type FinalSegment struct {
	FinalSegmentID uint      `json:"final_segment_id" gorm:"column:final_segment_id;primaryKey;autoIncrement"`
	TimestampID    uint      `json:"timestamp_id" gorm:"not null;uniqueIndex:uq_final_segment_timestamp"`
	LabelID        *uint     `json:"label_id" gorm:"index:idx_final_segments_label_id"`
	FilePath       string    `json:"file_path" gorm:"type:varchar(500);not null"`
	CreatedAt      time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`

	Timestamp EmbeddingTimestamp `json:"-" gorm:"belongsTo:EmbeddingTimestamp;foreignKey:TimestampID;references:TimestampID;constraint:OnDelete:CASCADE"`
}

func (FinalSegment) TableName() string {
	return "final_segments"
}
