package models

import (
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// TranscriptChunk is one indexed passage of the knowledge base. Rows are
// created on ingestion, never mutated, and deleted only by an explicit index
// clear. The serial id doubles as the similarity tie-break (insertion order).
//
// The embedding column is created by vectorindex.EnsureSchema with the
// deployment's configured dimension; this struct is not auto-migrated.
type TranscriptChunk struct {
	ID        int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Content   string          `gorm:"column:content;type:text" json:"content"`
	Embedding pgvector.Vector `gorm:"column:embedding" json:"-"`
	Metadata  datatypes.JSON  `gorm:"column:metadata;type:jsonb" json:"metadata"`
	CreatedAt time.Time       `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (TranscriptChunk) TableName() string { return "transcript_chunks" }
