package models

import "time"

// Conversation starts as a group thread visible to every cleaner
// (IsGroup=true, CleanerID=nil). The first cleaner reply claims it and the
// thread becomes one-on-one; the transition never reverses.
type Conversation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CleanerID *uint     `gorm:"index" json:"cleaner_id"`
	Cleaner   *Cleaner  `gorm:"foreignKey:CleanerID" json:"cleaner,omitempty"`
	ServiceID uint      `gorm:"not null;index" json:"service_id"`
	Service   Service   `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	IsGroup   bool      `gorm:"not null;default:true" json:"is_group"`
	Messages  []Message `gorm:"foreignKey:ConversationID" json:"messages,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
