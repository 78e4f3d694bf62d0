package models

import "time"

type MessageSender string

const (
	SenderVisitor MessageSender = "visitor"
	SenderAI      MessageSender = "ai"
	SenderAdmin   MessageSender = "admin"
)

// Conversation groups the messages of one visitor thread. Summary is a
// rolling digest maintained by the background summarizer; it may lag the
// latest exchange.
type Conversation struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	VisitorID string    `gorm:"column:visitor_id;type:uuid;index:idx_conversations_visitor_created" json:"visitor_id"`
	Title     string    `gorm:"column:title;type:text" json:"title"`
	Summary   string    `gorm:"column:summary;type:text" json:"summary"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz;index:idx_conversations_visitor_created" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Conversation) TableName() string { return "conversations" }

// Message is append-only; rows are never mutated after creation.
type Message struct {
	ID             string        `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ConversationID string        `gorm:"column:conversation_id;type:uuid;index:idx_messages_conversation_created" json:"conversation_id"`
	Sender         MessageSender `gorm:"column:sender;type:text" json:"sender"`
	Content        string        `gorm:"column:content;type:text" json:"content"`
	CreatedAt      time.Time     `gorm:"column:created_at;type:timestamptz;index:idx_messages_conversation_created" json:"created_at"`
}

func (Message) TableName() string { return "messages" }

// ConversationPreview is the list-view projection for a visitor's threads.
type ConversationPreview struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	CreatedAt    time.Time      `json:"created_at"`
	LastMessage  *MessagePeek   `json:"last_message,omitempty"`
	MessageCount int64          `json:"message_count"`
}

type MessagePeek struct {
	Content string        `json:"content"`
	Sender  MessageSender `json:"sender"`
}
