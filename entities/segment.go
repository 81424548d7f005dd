package entities

import (
	"time"
)

// Segment is a fixed-length slice of an AudioFile. Segments of one audio
// file are contiguous, non-overlapping and together cover [0, duration].
// Times are seconds relative to the owning audio file.
type Segment struct {
	SegmentID uint      `json:"segment_id" gorm:"column:segment_id;primaryKey;autoIncrement"`
	AudioID   uint      `json:"audio_id" gorm:"not null;index:idx_segments_audio_id"`
	StartTime float64   `json:"start_time" gorm:"type:decimal(10,2);not null"`
	EndTime   float64   `json:"end_time" gorm:"type:decimal(10,2);not null"`
	Duration  float64   `json:"duration" gorm:"type:decimal(10,2);not null"`
	FilePath  string    `json:"file_path" gorm:"type:varchar(500);not null"`
	FileName  string    `json:"file_name" gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`

	AudioFile AudioFile `json:"-" gorm:"belongsTo:AudioFile;foreignKey:AudioID;references:AudioID;constraint:OnDelete:CASCADE"`
}

func (Segment) TableName() string {
	return "segments"
}
