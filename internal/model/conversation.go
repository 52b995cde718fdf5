package model

import (
	"time"
)

// Conversation represents a chat thread owned by exactly one user.
// Conversations older than the retention window are purged lazily on the
// next listing for that user.
type Conversation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Message is a single turn in a conversation. Messages are append-only and
// never mutated after creation.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           Role      `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// ChatRequest is the request body for the chat endpoint.
type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// ChatResponse is the normalized response of one chat turn.
// ActionPerformed carries the executed tool name, or null when the turn was
// purely conversational or the requested action failed.
type ChatResponse struct {
	Result          string  `json:"result"`
	ConversationID  string  `json:"conversation_id"`
	ActionPerformed *string `json:"action_performed"`
}

// ListConversationsResponse is the response for listing conversations.
type ListConversationsResponse struct {
	Conversations []Conversation `json:"conversations"`
}

// ListMessagesResponse is the response for listing a conversation's messages.
type ListMessagesResponse struct {
	Messages []Message `json:"messages"`
}
