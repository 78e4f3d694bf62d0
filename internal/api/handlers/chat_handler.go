package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shahtaz/medusa/internal/services"
	"github.com/shahtaz/medusa/internal/utils"
)

type ChatHandler struct {
	svc services.ChatService
}

func NewChatHandler(svc services.ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type SendMessageRequest struct {
	VisitorID string `json:"visitor_id" binding:"required"`
	Query     string `json:"query" binding:"required"`
}

type SendMessageResponse struct {
	ConversationID string    `json:"conversation_id"`
	Response       string    `json:"response"`
	CreatedAt      time.Time `json:"created_at"`
}

// SendMessage accepts an optional conversation_id query param; without one
// (or with a stale one) a new conversation is started.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ChatHandler.SendMessage", "invalid request body", err))
		return
	}

	res, err := h.svc.SendMessage(c.Request.Context(), services.SendMessageInput{
		VisitorID:      req.VisitorID,
		Query:          req.Query,
		ConversationID: c.Query("conversation_id"),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SendMessageResponse{
		ConversationID: res.ConversationID,
		Response:       res.Reply,
		CreatedAt:      res.CreatedAt,
	})
}

func (h *ChatHandler) History(c *gin.Context) {
	conversationID := c.Param("conversation_id")

	conv, msgs, err := h.svc.History(c.Request.Context(), conversationID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conversation": gin.H{
			"id":         conv.ID,
			"title":      conv.Title,
			"created_at": conv.CreatedAt,
		},
		"messages": msgs,
	})
}

func (h *ChatHandler) ListConversations(c *gin.Context) {
	visitorID := c.Query("visitor_id")

	previews, err := h.svc.ListConversations(c.Request.Context(), visitorID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"visitor_id":    visitorID,
		"conversations": previews,
	})
}

func (h *ChatHandler) DeleteConversation(c *gin.Context) {
	conversationID := c.Param("conversation_id")

	if err := h.svc.DeleteConversation(c.Request.Context(), conversationID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
