package services

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/shahtaz/medusa/internal/prompt"
	"github.com/shahtaz/medusa/internal/providers/llm"
	pgrepo "github.com/shahtaz/medusa/internal/repositories/postgres"
	"github.com/shahtaz/medusa/internal/utils"
)

var summarizeGen = llm.GenOptions{Temperature: 0.5, MaxOutputTokens: 200}

// SummaryService folds each finished exchange into the conversation's
// rolling summary. Each run fully replaces the stored summary; concurrent
// runs race last-write-wins, which is accepted.
type SummaryService interface {
	Summarize(ctx context.Context, conversationID, prevSummary, userQuery, aiReply string) error
}

type summaryService struct {
	convos  pgrepo.ConversationRepo
	llm     llm.Provider
	prompts *prompt.Builder
	log     *logrus.Logger
}

func NewSummaryService(convos pgrepo.ConversationRepo, provider llm.Provider, prompts *prompt.Builder, log *logrus.Logger) SummaryService {
	return &summaryService{convos: convos, llm: provider, prompts: prompts, log: log}
}

func (s *summaryService) Summarize(ctx context.Context, conversationID, prevSummary, userQuery, aiReply string) error {
	const op = "SummaryService.Summarize"

	if conversationID == "" || userQuery == "" || aiReply == "" {
		return utils.E(utils.CodeInvalidArgument, op, "conversation_id, query, and reply are required", nil)
	}

	text, err := collectAnswer(ctx, s.llm, s.prompts.Summarize(prevSummary, userQuery, aiReply), summarizeGen, nil)
	if err != nil {
		// previous summary stays in place; the caller's retry policy applies
		return utils.E(utils.CodeUnavailable, op, "summary generation failed", err)
	}
	if text == "" {
		s.log.WithField("conversation_id", conversationID).Warn("empty summary generated, keeping previous")
		return nil
	}

	if err := s.convos.UpdateSummary(ctx, conversationID, text); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to store summary", err)
	}

	s.log.WithField("conversation_id", conversationID).Info("conversation summary updated")
	return nil
}

// collectAnswer drains a streamed generation into a single trimmed string,
// invoking onChunk (when set) for each increment.
func collectAnswer(ctx context.Context, provider llm.Provider, promptText string, opts llm.GenOptions, onChunk func(string)) (string, error) {
	chunks, errs := provider.StreamAnswer(ctx, promptText, opts)
	var sb strings.Builder
	for c := range chunks {
		sb.WriteString(c)
		if onChunk != nil {
			onChunk(c)
		}
	}
	if err := <-errs; err != nil {
		return "", err
	}
	return strings.TrimSpace(sb.String()), nil
}
