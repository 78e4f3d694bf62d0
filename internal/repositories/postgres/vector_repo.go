package postgres

import (
	"context"
	"strings"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shahtaz/medusa/internal/models"
)

// VectorRepo stores embeddings in Postgres and searches them with the
// pgvector cosine distance operator. The brute-force in-memory variant in
// repositories/memory satisfies the same contract.
type VectorRepo struct {
	db *gorm.DB
}

func NewVectorRepo(db *gorm.DB) *VectorRepo {
	return &VectorRepo{db: db}
}

// Upsert inserts or replaces the row keyed by (collection_type, title),
// keeping the existing id on conflict.
func (r *VectorRepo) Upsert(ctx context.Context, rec *models.VectorizedContent) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection_type"}, {Name: "title"}},
			DoUpdates: clause.AssignmentColumns([]string{"content", "metadata", "embedding", "updated_at"}),
		}).
		Create(rec).Error
}

type vectorHitRow struct {
	models.VectorizedContent `gorm:"embedded"`
	Similarity               float64 `gorm:"column:similarity"`
}

func (r *VectorRepo) SearchByVector(ctx context.Context, vec []float32, collection models.CollectionType, limit int) ([]models.VectorSearchHit, error) {
	if limit <= 0 {
		limit = 5
	}

	var sb strings.Builder
	args := []any{pgvector.NewVector(vec)}

	sb.WriteString("SELECT *, 1 - (embedding <=> ?) AS similarity FROM vectorized_contents")
	if collection != "" {
		sb.WriteString(" WHERE collection_type = ?")
		args = append(args, collection)
	}
	sb.WriteString(" ORDER BY similarity DESC, updated_at DESC LIMIT ?")
	args = append(args, limit)

	var rows []vectorHitRow
	if err := r.db.WithContext(ctx).Raw(sb.String(), args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	hits := make([]models.VectorSearchHit, 0, len(rows))
	for _, row := range rows {
		hits = append(hits, models.VectorSearchHit{Record: row.VectorizedContent, Similarity: row.Similarity})
	}
	return hits, nil
}

// DeleteByMetadataID removes every record in a collection whose metadata
// references the given source entity id.
func (r *VectorRepo) DeleteByMetadataID(ctx context.Context, collection models.CollectionType, id string) error {
	return r.db.WithContext(ctx).
		Where("collection_type = ? AND metadata->>'id' = ?", collection, id).
		Delete(&models.VectorizedContent{}).Error
}
