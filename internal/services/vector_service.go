package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"

	"github.com/shahtaz/medusa/internal/models"
	"github.com/shahtaz/medusa/internal/providers/embedding"
	"github.com/shahtaz/medusa/internal/utils"
)

// VectorRepository is the storage contract behind similarity search. The
// pgvector-backed repo and the in-memory brute-force repo both satisfy it,
// so the SQL extension can be swapped without touching callers.
type VectorRepository interface {
	Upsert(ctx context.Context, rec *models.VectorizedContent) error
	SearchByVector(ctx context.Context, vec []float32, collection models.CollectionType, limit int) ([]models.VectorSearchHit, error)
	DeleteByMetadataID(ctx context.Context, collection models.CollectionType, id string) error
}

type VectorService interface {
	Upsert(ctx context.Context, collection models.CollectionType, title, content string, metadata map[string]any) (*models.VectorizedContent, error)
	Search(ctx context.Context, query string, collection models.CollectionType, limit int) ([]models.VectorSearchHit, error)
	DeleteByMetadataID(ctx context.Context, collection models.CollectionType, id string) error
}

type vectorService struct {
	repo     VectorRepository
	embedder embedding.Provider
}

func NewVectorService(repo VectorRepository, embedder embedding.Provider) VectorService {
	return &vectorService{repo: repo, embedder: embedder}
}

// Upsert embeds "{title} {content}" and writes the record keyed by
// (collection, title).
func (s *vectorService) Upsert(ctx context.Context, collection models.CollectionType, title, content string, metadata map[string]any) (*models.VectorizedContent, error) {
	const op = "VectorService.Upsert"

	if collection == "" || title == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "collection and title are required", nil)
	}
	if metadata == nil {
		metadata = map[string]any{}
	}

	vec, err := s.embedder.Embed(ctx, title+" "+content)
	if err != nil {
		if errors.Is(err, embedding.ErrUnavailable) {
			return nil, utils.E(utils.CodeUnavailable, op, "embedding provider unavailable", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to embed content", err)
	}

	md, err := json.Marshal(metadata)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to encode metadata", err)
	}

	now := time.Now().UTC()
	rec := &models.VectorizedContent{
		ID:             uuid.NewString(),
		CollectionType: collection,
		Title:          title,
		Content:        content,
		Metadata:       datatypes.JSON(md),
		Embedding:      pgvector.NewVector(vec),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Upsert(ctx, rec); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to upsert vector record", err)
	}
	return rec, nil
}

func (s *vectorService) Search(ctx context.Context, query string, collection models.CollectionType, limit int) ([]models.VectorSearchHit, error) {
	const op = "VectorService.Search"

	if query == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "query is required", nil)
	}
	if limit <= 0 {
		limit = 5
	}

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		if errors.Is(err, embedding.ErrUnavailable) {
			return nil, utils.E(utils.CodeUnavailable, op, "embedding provider unavailable", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to embed query", err)
	}

	hits, err := s.repo.SearchByVector(ctx, vec, collection, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "similarity search failed", err)
	}
	return hits, nil
}

func (s *vectorService) DeleteByMetadataID(ctx context.Context, collection models.CollectionType, id string) error {
	const op = "VectorService.DeleteByMetadataID"

	if collection == "" || id == "" {
		return utils.E(utils.CodeInvalidArgument, op, "collection and id are required", nil)
	}
	if err := s.repo.DeleteByMetadataID(ctx, collection, id); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to delete vector records", err)
	}
	return nil
}
