package models

import (
	"time"

	"github.com/google/uuid"
)

// Conversation links two users, optionally anchored to a material listing.
type Conversation struct {
	BaseModel
	MaterialID  *uuid.UUID `gorm:"type:uuid;index" json:"material_id"`
	StarterID   uuid.UUID  `gorm:"type:uuid;index" json:"starter_id"`
	RecipientID uuid.UUID  `gorm:"type:uuid;index" json:"recipient_id"`
	Starter     *User      `gorm:"foreignKey:StarterID" json:"starter,omitempty"`
	Recipient   *User      `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`
	Messages    []Message  `json:"messages,omitempty"`
}

// Message is a single chat message inside a conversation.
type Message struct {
	BaseModel
	ConversationID uuid.UUID  `gorm:"type:uuid;index" json:"conversation_id"`
	SenderID       uuid.UUID  `gorm:"type:uuid;index" json:"sender_id"`
	Body           string     `json:"body"`
	ReadAt         *time.Time `json:"read_at"`
}
