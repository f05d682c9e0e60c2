package models

import "time"

// Sender types for messages.
const (
	SenderTypeUser    = "User"
	SenderTypeCleaner = "Cleaner"
)

type Message struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ConversationID uint      `gorm:"not null;index" json:"conversation_id"`
	SenderID       uint      `gorm:"not null" json:"sender_id"`
	SenderType     string    `gorm:"type:varchar(20);not null" json:"sender_type"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}
