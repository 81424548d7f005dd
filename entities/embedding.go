package entities

import (
	"time"
)

// Embedding is one detected speaker's voice vector inside a segment. The
// vector is a raw little-endian float32 array with no length header; the
// dimensionality is fixed by the diarization model. An embedding only
// exists with at least one EmbeddingTimestamp.
type Embedding struct {
	EmbeddingID uint      `json:"embedding_id" gorm:"column:embedding_id;primaryKey;autoIncrement"`
	SegmentID   uint      `json:"segment_id" gorm:"not null;index:idx_embeddings_segment_id"`
	Vector      []byte    `json:"-" gorm:"type:bytea;not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`

	Segment Segment `json:"-" gorm:"belongsTo:Segment;foreignKey:SegmentID;references:SegmentID;constraint:OnDelete:CASCADE"`
}

func (Embedding) TableName() string {
	return "embeddings"
}
