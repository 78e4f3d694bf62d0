package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shahtaz/medusa/internal/models"
	"github.com/shahtaz/medusa/internal/providers/embedding"
	"github.com/shahtaz/medusa/internal/repositories/memory"
	"github.com/shahtaz/medusa/internal/utils"
)

func TestVectorServiceUpsertEmbedsTitleAndContent(t *testing.T) {
	ctx := context.Background()
	svc := NewVectorService(memory.NewVectorRepo(), &fakeEmbedder{})

	rec, err := svc.Upsert(ctx, models.CollectionSkills, "Go", "Backend work", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, models.CollectionSkills, rec.CollectionType)
	assert.JSONEq(t, `{}`, string(rec.Metadata))

	// a query equal to "{title} {content}" lands on the same vector
	hits, err := svc.Search(ctx, "Go Backend work", models.CollectionSkills, 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-9)
}

func TestVectorServiceValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewVectorService(memory.NewVectorRepo(), &fakeEmbedder{})

	_, err := svc.Upsert(ctx, "", "Go", "x", nil)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	_, err = svc.Upsert(ctx, models.CollectionSkills, "", "x", nil)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	_, err = svc.Search(ctx, "", models.CollectionSkills, 5)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	err = svc.DeleteByMetadataID(ctx, models.CollectionSkills, "")
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestVectorServiceEmbedderUnavailable(t *testing.T) {
	ctx := context.Background()
	broken := &fakeEmbedder{err: fmt.Errorf("%w: backend down", embedding.ErrUnavailable)}
	svc := NewVectorService(memory.NewVectorRepo(), broken)

	_, err := svc.Upsert(ctx, models.CollectionSkills, "Go", "x", nil)
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeUnavailable))

	_, err = svc.Search(ctx, "query", models.CollectionSkills, 5)
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeUnavailable))
}
