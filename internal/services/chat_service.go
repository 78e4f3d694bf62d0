package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shahtaz/medusa/internal/cache"
	"github.com/shahtaz/medusa/internal/models"
	"github.com/shahtaz/medusa/internal/prompt"
	"github.com/shahtaz/medusa/internal/providers/llm"
	mongorepo "github.com/shahtaz/medusa/internal/repositories/mongo"
	pgrepo "github.com/shahtaz/medusa/internal/repositories/postgres"
	"github.com/shahtaz/medusa/internal/utils"
	"github.com/shahtaz/medusa/internal/worker"
)

// FallbackReply is returned (and persisted) whenever generation fails.
// The visitor never sees a provider error.
const FallbackReply = "I'm having a little trouble answering right now. Please try again in a moment."

var chatGen = llm.GenOptions{Temperature: 0.7, MaxOutputTokens: 500}

const (
	titleMaxLen          = 40
	conversationCacheTTL = 5 * time.Minute
)

type SendMessageInput struct {
	VisitorID      string
	Query          string
	ConversationID string // optional; unknown or foreign ids start a new thread

	// OnChunk, when set, receives reply increments as they stream in.
	OnChunk func(chunk string)
}

type SendMessageResult struct {
	ConversationID string    `json:"conversation_id"`
	Reply          string    `json:"reply"`
	CreatedAt      time.Time `json:"created_at"`
}

type ChatService interface {
	SendMessage(ctx context.Context, in SendMessageInput) (*SendMessageResult, error)
	History(ctx context.Context, conversationID string) (*models.Conversation, []models.Message, error)
	ListConversations(ctx context.Context, visitorID string) ([]models.ConversationPreview, error)
	DeleteConversation(ctx context.Context, conversationID string) error
}

type chatService struct {
	visitors  mongorepo.VisitorRepository
	convos    pgrepo.ConversationRepo
	retriever Retriever
	prompts   *prompt.Builder
	llm       llm.Provider
	summaries SummaryService
	pool      *worker.Pool
	cache     cache.Cache
	log       *logrus.Logger

	retrievalLimit int
	genTimeout     time.Duration
}

type ChatConfig struct {
	RetrievalLimit int           // snippet cap, default 5
	GenTimeout     time.Duration // bound on one generation call, default 30s
}

func NewChatService(
	visitors mongorepo.VisitorRepository,
	convos pgrepo.ConversationRepo,
	retriever Retriever,
	prompts *prompt.Builder,
	provider llm.Provider,
	summaries SummaryService,
	pool *worker.Pool,
	c cache.Cache,
	log *logrus.Logger,
	cfg ChatConfig,
) ChatService {
	if cfg.RetrievalLimit <= 0 {
		cfg.RetrievalLimit = 5
	}
	if cfg.GenTimeout <= 0 {
		cfg.GenTimeout = 30 * time.Second
	}
	return &chatService{
		visitors:       visitors,
		convos:         convos,
		retriever:      retriever,
		prompts:        prompts,
		llm:            provider,
		summaries:      summaries,
		pool:           pool,
		cache:          c,
		log:            log,
		retrievalLimit: cfg.RetrievalLimit,
		genTimeout:     cfg.GenTimeout,
	}
}

// SendMessage runs the synchronous send path: resolve or create the
// conversation, persist the visitor message, retrieve context, generate a
// reply, persist it, and hand summarization to the background pool. The
// caller gets a reply even when the model fails.
func (s *chatService) SendMessage(ctx context.Context, in SendMessageInput) (*SendMessageResult, error) {
	const op = "ChatService.SendMessage"

	query := strings.TrimSpace(in.Query)
	if in.VisitorID == "" || query == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "visitor_id and query are required", nil)
	}

	if _, err := s.visitors.GetByVisitorID(ctx, in.VisitorID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "visitor not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to resolve visitor", err)
	}

	conv, err := s.resolveConversation(ctx, in.VisitorID, in.ConversationID, query)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to resolve conversation", err)
	}

	userMsg := &models.Message{
		ID:             uuid.NewString(),
		ConversationID: conv.ID,
		Sender:         models.SenderVisitor,
		Content:        query,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.convos.AppendMessage(ctx, userMsg); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist visitor message", err)
	}

	// Retrieval is best-effort on the send path: a broken embedder must not
	// block the reply, the prompt just loses its context section.
	snippets, err := s.retriever.Retrieve(ctx, query, "", s.retrievalLimit)
	if err != nil {
		s.log.WithError(err).Warn("context retrieval failed, replying without context")
		snippets = nil
	}

	promptText := s.prompts.Chat(query, conv.Summary, snippets)
	reply := s.generateReply(ctx, promptText, in.OnChunk)

	aiMsg := &models.Message{
		ID:             uuid.NewString(),
		ConversationID: conv.ID,
		Sender:         models.SenderAI,
		Content:        reply,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.convos.AppendMessage(ctx, aiMsg); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist ai message", err)
	}

	s.enqueueSummarize(conv.ID, conv.Summary, query, reply)
	s.invalidateList(in.VisitorID)

	return &SendMessageResult{
		ConversationID: conv.ID,
		Reply:          reply,
		CreatedAt:      aiMsg.CreatedAt,
	}, nil
}

// resolveConversation returns the visitor-owned conversation for the given
// id, or a fresh one when the id is absent, unknown, or owned by someone
// else. The title comes from the first query.
func (s *chatService) resolveConversation(ctx context.Context, visitorID, conversationID, query string) (*models.Conversation, error) {
	if conversationID != "" {
		conv, err := s.convos.GetOwned(ctx, conversationID, visitorID)
		if err == nil {
			return conv, nil
		}
		if !errors.Is(err, utils.ErrNotFound) {
			return nil, err
		}
	}

	now := time.Now().UTC()
	conv := &models.Conversation{
		ID:        uuid.NewString(),
		VisitorID: visitorID,
		Title:     deriveTitle(query),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.convos.Create(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *chatService) generateReply(ctx context.Context, promptText string, onChunk func(string)) string {
	ctx, cancel := context.WithTimeout(ctx, s.genTimeout)
	defer cancel()

	text, err := collectAnswer(ctx, s.llm, promptText, chatGen, onChunk)
	if err != nil {
		s.log.WithError(err).Error("generation failed, using fallback reply")
		return FallbackReply
	}
	if text == "" {
		return FallbackReply
	}
	return text
}

func (s *chatService) enqueueSummarize(conversationID, prevSummary, query, reply string) {
	s.pool.Submit("summarize-conversation", func(ctx context.Context) error {
		return s.summaries.Summarize(ctx, conversationID, prevSummary, query, reply)
	})
}

func (s *chatService) History(ctx context.Context, conversationID string) (*models.Conversation, []models.Message, error) {
	const op = "ChatService.History"

	if conversationID == "" {
		return nil, nil, utils.E(utils.CodeInvalidArgument, op, "conversation_id is required", nil)
	}

	conv, err := s.convos.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, nil, utils.E(utils.CodeNotFound, op, "conversation not found", err)
		}
		return nil, nil, utils.E(utils.CodeInternal, op, "failed to get conversation", err)
	}

	msgs, err := s.convos.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, nil, utils.E(utils.CodeInternal, op, "failed to list messages", err)
	}
	return conv, msgs, nil
}

func (s *chatService) ListConversations(ctx context.Context, visitorID string) ([]models.ConversationPreview, error) {
	const op = "ChatService.ListConversations"

	if visitorID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "visitor_id is required", nil)
	}

	key := cache.ConversationListKey(visitorID)
	var cached []models.ConversationPreview
	if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	convs, err := s.convos.ListByVisitor(ctx, visitorID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list conversations", err)
	}

	previews := make([]models.ConversationPreview, 0, len(convs))
	for _, conv := range convs {
		p := models.ConversationPreview{
			ID:        conv.ID,
			Title:     conv.Title,
			CreatedAt: conv.CreatedAt,
		}
		if last, err := s.convos.LastMessage(ctx, conv.ID); err == nil {
			p.LastMessage = &models.MessagePeek{
				Content: truncate(last.Content, 100),
				Sender:  last.Sender,
			}
		}
		if n, err := s.convos.CountMessages(ctx, conv.ID); err == nil {
			p.MessageCount = n
		}
		previews = append(previews, p)
	}

	if err := s.cache.SetJSON(ctx, key, previews, conversationCacheTTL); err != nil {
		s.log.WithError(err).Warn("failed to cache conversation list")
	}
	return previews, nil
}

func (s *chatService) DeleteConversation(ctx context.Context, conversationID string) error {
	const op = "ChatService.DeleteConversation"

	if conversationID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "conversation_id is required", nil)
	}

	conv, err := s.convos.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "conversation not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to get conversation", err)
	}

	if err := s.convos.Delete(ctx, conversationID); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to delete conversation", err)
	}
	s.invalidateList(conv.VisitorID)
	return nil
}

func (s *chatService) invalidateList(visitorID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.cache.Del(ctx, cache.ConversationListKey(visitorID)); err != nil {
		s.log.WithError(err).Warn("failed to invalidate conversation list cache")
	}
}

func deriveTitle(query string) string {
	r := []rune(strings.TrimSpace(query))
	if len(r) <= titleMaxLen {
		return string(r)
	}
	return string(r[:titleMaxLen-3]) + "..."
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
