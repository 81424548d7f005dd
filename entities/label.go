package entities

import (
	"time"
)

// LabelName is a speaker identity. The namespace is global: labels outlive
// the projects whose embeddings reference them.
type LabelName struct {
	LabelID   uint      `json:"label_id" gorm:"column:label_id;primaryKey;autoIncrement"`
	LabelName string    `json:"label_name" gorm:"type:varchar(255);uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (LabelName) TableName() string {
	return "label_names"
}

// EmbeddingLabel assigns an identity to an embedding, at most once per
// (embedding, label) pair. Rows are insert-only: re-clustering never
// deletes prior assignments.
type EmbeddingLabel struct {
	EmbeddingLabelID uint      `json:"embedding_label_id" gorm:"column:embedding_label_id;primaryKey;autoIncrement"`
	EmbeddingID      uint      `json:"embedding_id" gorm:"not null;uniqueIndex:uq_embedding_label"`
	LabelID          uint      `json:"label_id" gorm:"not null;uniqueIndex:uq_embedding_label;index:idx_embedding_labels_label_id"`
	CreatedAt        time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`

	Embedding Embedding `json:"-" gorm:"belongsTo:Embedding;foreignKey:EmbeddingID;references:EmbeddingID;constraint:OnDelete:CASCADE"`
	Label     LabelName `json:"-" gorm:"belongsTo:LabelName;foreignKey:LabelID;references:LabelID;constraint:OnDelete:CASCADE"`
}

func (EmbeddingLabel) TableName() string {
	return "embedding_labels"
}
