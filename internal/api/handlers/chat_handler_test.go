package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shahtaz/medusa/internal/models"
	"github.com/shahtaz/medusa/internal/services"
	"github.com/shahtaz/medusa/internal/utils"
)

type stubChatService struct {
	lastInput services.SendMessageInput
	sendRes   *services.SendMessageResult
	sendErr   error

	historyConv *models.Conversation
	historyMsgs []models.Message
	historyErr  error

	deleteErr error
}

func (s *stubChatService) SendMessage(_ context.Context, in services.SendMessageInput) (*services.SendMessageResult, error) {
	s.lastInput = in
	return s.sendRes, s.sendErr
}

func (s *stubChatService) History(context.Context, string) (*models.Conversation, []models.Message, error) {
	return s.historyConv, s.historyMsgs, s.historyErr
}

func (s *stubChatService) ListConversations(context.Context, string) ([]models.ConversationPreview, error) {
	return nil, nil
}

func (s *stubChatService) DeleteConversation(context.Context, string) error {
	return s.deleteErr
}

func chatRouter(svc services.ChatService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewChatHandler(svc)
	r.POST("/chat/message", h.SendMessage)
	r.GET("/chat/conversation/:conversation_id", h.History)
	r.DELETE("/chat/conversation/:conversation_id", h.DeleteConversation)
	return r
}

func TestSendMessageHandler(t *testing.T) {
	now := time.Now().UTC()
	stub := &stubChatService{
		sendRes: &services.SendMessageResult{ConversationID: "c1", Reply: "hello!", CreatedAt: now},
	}
	r := chatRouter(stub)

	body := `{"visitor_id":"v1","query":"hi"}`
	req := httptest.NewRequest(http.MethodPost, "/chat/message?conversation_id=c1", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var res SendMessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "c1", res.ConversationID)
	assert.Equal(t, "hello!", res.Response)

	assert.Equal(t, "v1", stub.lastInput.VisitorID)
	assert.Equal(t, "hi", stub.lastInput.Query)
	assert.Equal(t, "c1", stub.lastInput.ConversationID)
}

func TestSendMessageHandlerRejectsBadBody(t *testing.T) {
	r := chatRouter(&stubChatService{})

	req := httptest.NewRequest(http.MethodPost, "/chat/message", strings.NewReader(`{"query":""}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var apiErr APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Equal(t, utils.CodeInvalidArgument, apiErr.Code)
}

func TestSendMessageHandlerMapsServiceErrors(t *testing.T) {
	stub := &stubChatService{
		sendErr: utils.E(utils.CodeNotFound, "ChatService.SendMessage", "visitor not found", nil),
	}
	r := chatRouter(stub)

	req := httptest.NewRequest(http.MethodPost, "/chat/message", strings.NewReader(`{"visitor_id":"ghost","query":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)

	var apiErr APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Equal(t, utils.CodeNotFound, apiErr.Code)
	assert.Equal(t, "visitor not found", apiErr.Message)
}

func TestHistoryHandler(t *testing.T) {
	stub := &stubChatService{
		historyConv: &models.Conversation{ID: "c1", Title: "hello", CreatedAt: time.Now().UTC()},
		historyMsgs: []models.Message{
			{ID: "m1", ConversationID: "c1", Sender: models.SenderVisitor, Content: "hi"},
			{ID: "m2", ConversationID: "c1", Sender: models.SenderAI, Content: "hello!"},
		},
	}
	r := chatRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/chat/conversation/c1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Conversation struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"conversation"`
		Messages []models.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "c1", res.Conversation.ID)
	require.Len(t, res.Messages, 2)
	assert.Equal(t, models.SenderVisitor, res.Messages[0].Sender)
}

func TestDeleteConversationHandler(t *testing.T) {
	r := chatRouter(&stubChatService{})

	req := httptest.NewRequest(http.MethodDelete, "/chat/conversation/c1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}
