package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shahtaz/medusa/internal/models"
	"github.com/shahtaz/medusa/internal/prompt"
	"github.com/shahtaz/medusa/internal/utils"
)

func seedConversation(t *testing.T, repo *fakeConvoRepo, summary string) string {
	t.Helper()
	conv := &models.Conversation{
		ID:        "c1",
		VisitorID: "v1",
		Title:     "hello",
		Summary:   summary,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(context.Background(), conv))
	return conv.ID
}

func TestSummarizeStoresGeneratedSummary(t *testing.T) {
	repo := newFakeConvoRepo()
	id := seedConversation(t, repo, "old summary")
	model := &fakeLLM{reply: "Visitor asked about Go projects."}

	svc := NewSummaryService(repo, model, prompt.NewBuilder("", "MERGE"), testLogger())
	require.NoError(t, svc.Summarize(context.Background(), id, "old summary", "any Go work?", "yes, plenty"))

	conv, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Visitor asked about Go projects.", conv.Summary)

	// the merge prompt carries both the exchange and the prior summary
	p := model.prompt()
	assert.Contains(t, p, "MERGE")
	assert.Contains(t, p, "Visitor Query: any Go work?")
	assert.Contains(t, p, "AI Response: yes, plenty")
	assert.Contains(t, p, "Previous Summary: old summary")
}

func TestSummarizeFailureKeepsPreviousSummary(t *testing.T) {
	repo := newFakeConvoRepo()
	id := seedConversation(t, repo, "old summary")
	model := &fakeLLM{err: errors.New("model unavailable")}

	svc := NewSummaryService(repo, model, prompt.NewBuilder("", ""), testLogger())
	err := svc.Summarize(context.Background(), id, "old summary", "q", "a")
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeUnavailable))

	conv, getErr := repo.GetByID(context.Background(), id)
	require.NoError(t, getErr)
	assert.Equal(t, "old summary", conv.Summary)
}

func TestSummarizeEmptyOutputKeepsPreviousSummary(t *testing.T) {
	repo := newFakeConvoRepo()
	id := seedConversation(t, repo, "old summary")
	model := &fakeLLM{reply: ""}

	svc := NewSummaryService(repo, model, prompt.NewBuilder("", ""), testLogger())
	require.NoError(t, svc.Summarize(context.Background(), id, "old summary", "q", "a"))

	conv, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "old summary", conv.Summary)
}

func TestSummarizeValidation(t *testing.T) {
	svc := NewSummaryService(newFakeConvoRepo(), &fakeLLM{}, prompt.NewBuilder("", ""), testLogger())

	err := svc.Summarize(context.Background(), "", "prev", "q", "a")
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}
