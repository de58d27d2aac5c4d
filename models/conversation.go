package models

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is a two-party or group exchange between users. UpdatedAt is
// bumped whenever a message is appended so conversation lists sort by
// recency of activity.
type Conversation struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Participants []User    `gorm:"many2many:conversation_participants;" json:"participants"`
	LastMessage  string    `json:"last_message"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CreateConversationRequest struct {
	Participants []uint `json:"participants" binding:"required"`
}

type ConversationResponse struct {
	ID           uuid.UUID        `json:"id"`
	Participants []UserResponse   `json:"participants"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	LastMessage  *MessageResponse `json:"last_message"`
	UnreadCount  int64            `json:"unread_count"`
}
