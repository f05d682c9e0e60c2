package models

import "time"

// Review is tied 1:1 to a completed booking; the composite unique index
// enforces at most one review per (booking, user).
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_booking_user" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ServiceID uint      `gorm:"not null;index" json:"service_id"`
	Service   Service   `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	BookingID uint      `gorm:"not null;uniqueIndex:idx_booking_user" json:"booking_id"`
	Booking   Booking   `gorm:"foreignKey:BookingID" json:"booking,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
