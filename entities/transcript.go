package entities

import (
	"time"
)

type Transcript struct {
	TranscriptID uint      `json:"transcript_id" gorm:"column:transcript_id;primaryKey;autoIncrement"`
	TimestampID  uint      `json:"timestamp_id" gorm:"not null;uniqueIndex:uq_transcript_timestamp"`
	Text         string    `json:"text" gorm:"type:text;not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`

	Timestamp EmbeddingTimestamp `json:"-" gorm:"belongsTo:EmbeddingTimestamp;foreignKey:TimestampID;references:TimestampID;constraint:OnDelete:CASCADE"`
}

func (Transcript) TableName() string {
	return "transcripts"
}
