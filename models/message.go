package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is an immutable entry in a conversation. Seq is assigned by the
// database and breaks ordering ties between messages created in the same
// instant. IsRead only ever moves from false to true.
type Message struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ConversationID uuid.UUID `gorm:"type:uuid;not null;index" json:"conversation_id"`
	SenderID       uint      `gorm:"not null;index" json:"sender_id"`
	Sender         User      `gorm:"foreignKey:SenderID" json:"sender"`
	Content        string    `json:"content"`
	Seq            int64     `gorm:"autoIncrement;uniqueIndex" json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	IsRead         bool      `gorm:"default:false" json:"is_read"`
}

type SendMessageRequest struct {
	Content string `json:"content"`
}

type MessageResponse struct {
	ID             uuid.UUID    `json:"id"`
	ConversationID uuid.UUID    `json:"conversation_id"`
	Sender         UserResponse `json:"sender"`
	Content        string       `json:"content"`
	CreatedAt      time.Time    `json:"created_at"`
	IsRead         bool         `json:"is_read"`
}

// NewMessageResponse flattens a message and its preloaded sender for
// transport.
func NewMessageResponse(m *Message) MessageResponse {
	return MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Sender:         NewUserResponse(&m.Sender),
		Content:        m.Content,
		CreatedAt:      m.CreatedAt,
		IsRead:         m.IsRead,
	}
}
