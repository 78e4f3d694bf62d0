package models

import (
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type CollectionType string

const (
	CollectionSkills   CollectionType = "skills"
	CollectionServices CollectionType = "services"
	CollectionProject  CollectionType = "project"
)

// EmbeddingDim is the output dimension of text-embedding-004.
const EmbeddingDim = 768

// VectorizedContent is one embedded portfolio item. A (collection_type, title)
// pair identifies at most one row; upserts replace content in place.
type VectorizedContent struct {
	ID             string          `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CollectionType CollectionType  `gorm:"column:collection_type;type:text;uniqueIndex:idx_vector_collection_title;index" json:"collection_type"`
	Title          string          `gorm:"column:title;type:text;uniqueIndex:idx_vector_collection_title" json:"title"`
	Content        string          `gorm:"column:content;type:text" json:"content"`
	Metadata       datatypes.JSON  `gorm:"column:metadata;type:jsonb" json:"metadata"`
	Embedding      pgvector.Vector `gorm:"column:embedding;type:vector(768)" json:"embedding"`
	CreatedAt      time.Time       `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;type:timestamptz;index" json:"updated_at"`
}

func (VectorizedContent) TableName() string { return "vectorized_contents" }

// VectorSearchHit is a record plus its cosine similarity to the query vector.
type VectorSearchHit struct {
	Record     VectorizedContent
	Similarity float64
}

// ContextSnippet is what the retriever hands to the prompt assembler.
type ContextSnippet struct {
	Title          string         `json:"title"`
	CollectionType CollectionType `json:"collection_type"`
	Content        string         `json:"content"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}
