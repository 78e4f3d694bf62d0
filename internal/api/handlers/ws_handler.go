package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/shahtaz/medusa/internal/services"
)

// WSHandler streams chat replies chunk-by-chunk. The persistence pipeline is
// the same as the REST path; only delivery differs.
type WSHandler struct {
	chat     services.ChatService
	upgrader websocket.Upgrader
}

func NewWSHandler(chat services.ChatService) *WSHandler {
	return &WSHandler{
		chat: chat,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origin in prod
		},
	}
}

type wsClientMsg struct {
	VisitorID      string `json:"visitor_id"`
	Query          string `json:"query"`
	ConversationID string `json:"conversation_id,omitempty"`
}

type wsServerMsg struct {
	Type           string `json:"type"` // chunk|done|error
	Content        string `json:"content,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) writeJSON(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.c.SetWriteDeadline(time.Now().Add(10 * time.Second))
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return w.c.WriteMessage(websocket.TextMessage, b)
}

func (h *WSHandler) ChatWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote response in most cases
		return
	}
	defer conn.Close()

	wc := &wsConn{c: conn}

	for {
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Minute))
		_, data, rerr := conn.ReadMessage()
		if rerr != nil {
			return
		}

		var msg wsClientMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			_ = wc.writeJSON(wsServerMsg{Type: "error", Content: "invalid message"})
			continue
		}

		res, err := h.chat.SendMessage(c.Request.Context(), services.SendMessageInput{
			VisitorID:      msg.VisitorID,
			Query:          msg.Query,
			ConversationID: msg.ConversationID,
			OnChunk: func(chunk string) {
				_ = wc.writeJSON(wsServerMsg{Type: "chunk", Content: chunk})
			},
		})
		if err != nil {
			_ = wc.writeJSON(wsServerMsg{Type: "error", Content: "message failed"})
			continue
		}

		_ = wc.writeJSON(wsServerMsg{
			Type:           "done",
			Content:        res.Reply,
			ConversationID: res.ConversationID,
		})
	}
}
