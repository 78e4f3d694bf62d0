package services

import (
	"context"
	"encoding/json"

	"github.com/shahtaz/medusa/internal/models"
)

// Retriever returns the top-K context snippets for a query. An empty store
// yields an empty slice; callers treat "no context" as a normal case.
type Retriever interface {
	Retrieve(ctx context.Context, query string, collection models.CollectionType, limit int) ([]models.ContextSnippet, error)
}

type retriever struct {
	vectors VectorService
}

func NewRetriever(vectors VectorService) Retriever {
	return &retriever{vectors: vectors}
}

func (r *retriever) Retrieve(ctx context.Context, query string, collection models.CollectionType, limit int) ([]models.ContextSnippet, error) {
	hits, err := r.vectors.Search(ctx, query, collection, limit)
	if err != nil {
		return nil, err
	}

	snippets := make([]models.ContextSnippet, 0, len(hits))
	for _, h := range hits {
		var md map[string]any
		if len(h.Record.Metadata) > 0 {
			_ = json.Unmarshal(h.Record.Metadata, &md)
		}
		snippets = append(snippets, models.ContextSnippet{
			Title:          h.Record.Title,
			CollectionType: h.Record.CollectionType,
			Content:        h.Record.Content,
			Metadata:       md,
		})
	}
	return snippets, nil
}
