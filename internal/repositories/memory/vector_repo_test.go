package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/shahtaz/medusa/internal/models"
)

func record(collection models.CollectionType, title, entityID string, vec []float32) *models.VectorizedContent {
	return &models.VectorizedContent{
		ID:             uuid.NewString(),
		CollectionType: collection,
		Title:          title,
		Content:        "content for " + title,
		Metadata:       datatypes.JSON(`{"id":"` + entityID + `"}`),
		Embedding:      pgvector.NewVector(vec),
	}
}

func TestUpsertIsIdempotentByCollectionAndTitle(t *testing.T) {
	ctx := context.Background()
	repo := NewVectorRepo()

	first := record(models.CollectionSkills, "Go", "e1", []float32{1, 0, 0})
	require.NoError(t, repo.Upsert(ctx, first))

	second := record(models.CollectionSkills, "Go", "e1", []float32{0, 1, 0})
	second.Content = "updated"
	require.NoError(t, repo.Upsert(ctx, second))

	hits, err := repo.SearchByVector(ctx, []float32{0, 1, 0}, models.CollectionSkills, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)

	assert.Equal(t, first.ID, hits[0].Record.ID, "upsert must preserve the original record id")
	assert.Equal(t, "updated", hits[0].Record.Content)
}

func TestSearchRanksByCosineAndCapsAtLimit(t *testing.T) {
	ctx := context.Background()
	repo := NewVectorRepo()

	require.NoError(t, repo.Upsert(ctx, record(models.CollectionSkills, "exact", "e1", []float32{1, 0, 0})))
	require.NoError(t, repo.Upsert(ctx, record(models.CollectionSkills, "close", "e2", []float32{1, 1, 0})))
	require.NoError(t, repo.Upsert(ctx, record(models.CollectionSkills, "far", "e3", []float32{0, 0, 1})))

	hits, err := repo.SearchByVector(ctx, []float32{1, 0, 0}, models.CollectionSkills, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.Equal(t, "exact", hits[0].Record.Title)
	assert.Equal(t, "close", hits[1].Record.Title)
	assert.GreaterOrEqual(t, hits[0].Similarity, hits[1].Similarity)
}

func TestSearchFiltersByCollection(t *testing.T) {
	ctx := context.Background()
	repo := NewVectorRepo()

	require.NoError(t, repo.Upsert(ctx, record(models.CollectionSkills, "Go", "e1", []float32{1, 0, 0})))
	require.NoError(t, repo.Upsert(ctx, record(models.CollectionProject, "Medusa", "e2", []float32{1, 0, 0})))

	hits, err := repo.SearchByVector(ctx, []float32{1, 0, 0}, models.CollectionProject, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Medusa", hits[0].Record.Title)

	all, err := repo.SearchByVector(ctx, []float32{1, 0, 0}, "", 10)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDeleteByMetadataID(t *testing.T) {
	ctx := context.Background()
	repo := NewVectorRepo()

	require.NoError(t, repo.Upsert(ctx, record(models.CollectionSkills, "Go", "e1", []float32{1, 0, 0})))
	require.NoError(t, repo.Upsert(ctx, record(models.CollectionSkills, "Rust", "e2", []float32{0, 1, 0})))

	require.NoError(t, repo.DeleteByMetadataID(ctx, models.CollectionSkills, "e1"))

	hits, err := repo.SearchByVector(ctx, []float32{1, 0, 0}, models.CollectionSkills, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Rust", hits[0].Record.Title)

	// unknown id is a no-op
	require.NoError(t, repo.DeleteByMetadataID(ctx, models.CollectionSkills, "missing"))
}
