package services

import (
	"context"
	"hash/fnv"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shahtaz/medusa/internal/models"
	"github.com/shahtaz/medusa/internal/providers/llm"
	"github.com/shahtaz/medusa/internal/utils"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// fakeEmbedder maps text deterministically onto a small vector, so equal
// text always lands on the same point.
type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	vec := make([]float32, 8)
	for i, r := range text {
		h := fnv.New32a()
		_, _ = h.Write([]byte{byte(r), byte(i)})
		vec[int(h.Sum32())%len(vec)] += 1
	}
	return vec, nil
}

func (f *fakeEmbedder) Dimension() int { return 8 }

// fakeLLM streams a canned reply in two chunks and records the last prompt.
type fakeLLM struct {
	mu         sync.Mutex
	reply      string
	err        error
	lastPrompt string
	calls      int
}

func (f *fakeLLM) StreamAnswer(_ context.Context, prompt string, _ llm.GenOptions) (<-chan string, <-chan error) {
	f.mu.Lock()
	f.lastPrompt = prompt
	f.calls++
	reply, err := f.reply, f.err
	f.mu.Unlock()

	chunks := make(chan string, 2)
	errs := make(chan error, 1)
	go func() {
		defer close(chunks)
		defer close(errs)
		if err != nil {
			errs <- err
			return
		}
		if reply != "" {
			mid := len(reply) / 2
			chunks <- reply[:mid]
			chunks <- reply[mid:]
		}
	}()
	return chunks, errs
}

func (f *fakeLLM) Close() error { return nil }

func (f *fakeLLM) prompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastPrompt
}

// fakeConvoRepo is an in-memory ConversationRepo.
type fakeConvoRepo struct {
	mu       sync.Mutex
	convos   map[string]*models.Conversation
	messages map[string][]models.Message
}

func newFakeConvoRepo() *fakeConvoRepo {
	return &fakeConvoRepo{
		convos:   make(map[string]*models.Conversation),
		messages: make(map[string][]models.Message),
	}
}

func (r *fakeConvoRepo) Create(_ context.Context, conv *models.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *conv
	r.convos[conv.ID] = &cp
	return nil
}

func (r *fakeConvoRepo) GetOwned(_ context.Context, id, visitorID string) (*models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.convos[id]
	if !ok || conv.VisitorID != visitorID {
		return nil, utils.ErrNotFound
	}
	cp := *conv
	return &cp, nil
}

func (r *fakeConvoRepo) GetByID(_ context.Context, id string) (*models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.convos[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *conv
	return &cp, nil
}

func (r *fakeConvoRepo) ListByVisitor(_ context.Context, visitorID string) ([]models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Conversation
	for _, conv := range r.convos {
		if conv.VisitorID == visitorID {
			out = append(out, *conv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeConvoRepo) UpdateSummary(_ context.Context, id, summary string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.convos[id]
	if !ok {
		return utils.ErrNotFound
	}
	conv.Summary = summary
	return nil
}

func (r *fakeConvoRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.convos[id]; !ok {
		return utils.ErrNotFound
	}
	delete(r.convos, id)
	delete(r.messages, id)
	return nil
}

func (r *fakeConvoRepo) AppendMessage(_ context.Context, msg *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[msg.ConversationID] = append(r.messages[msg.ConversationID], *msg)
	return nil
}

func (r *fakeConvoRepo) ListMessages(_ context.Context, conversationID string) ([]models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Message(nil), r.messages[conversationID]...), nil
}

func (r *fakeConvoRepo) LastMessage(_ context.Context, conversationID string) (*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := r.messages[conversationID]
	if len(msgs) == 0 {
		return nil, utils.ErrNotFound
	}
	cp := msgs[len(msgs)-1]
	return &cp, nil
}

func (r *fakeConvoRepo) CountMessages(_ context.Context, conversationID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.messages[conversationID])), nil
}

// fakeVisitorRepo knows a fixed set of visitor ids.
type fakeVisitorRepo struct {
	known map[string]*models.Visitor
}

func newFakeVisitorRepo(ids ...string) *fakeVisitorRepo {
	known := make(map[string]*models.Visitor, len(ids))
	for _, id := range ids {
		known[id] = &models.Visitor{VisitorID: id, VisitCount: 1}
	}
	return &fakeVisitorRepo{known: known}
}

func (r *fakeVisitorRepo) Track(_ context.Context, v *models.Visitor) error {
	if existing, ok := r.known[v.VisitorID]; ok {
		existing.VisitCount++
		return nil
	}
	cp := *v
	cp.VisitCount = 1
	r.known[v.VisitorID] = &cp
	return nil
}

func (r *fakeVisitorRepo) GetByVisitorID(_ context.Context, visitorID string) (*models.Visitor, error) {
	v, ok := r.known[visitorID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

// fakeCache never hits; it records deletes so invalidation can be asserted.
type fakeCache struct {
	mu      sync.Mutex
	deleted []string
}

func (c *fakeCache) GetJSON(context.Context, string, any) (bool, error) { return false, nil }

func (c *fakeCache) SetJSON(context.Context, string, any, time.Duration) error { return nil }

func (c *fakeCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, keys...)
	return nil
}

// fakeSummary records invocations without doing any work.
type fakeSummary struct {
	mu    sync.Mutex
	calls []string
}

func (s *fakeSummary) Summarize(_ context.Context, conversationID, _, _, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, conversationID)
	return nil
}
