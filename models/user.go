package models

import "time"

const (
	RoleUser    = "User"
	RoleCleaner = "Cleaner"
	RoleAdmin   = "Admin"
)

type User struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	Name           string `gorm:"type:varchar(255);not null" json:"name"`
	Email          string `gorm:"type:varchar(255);unique;not null" json:"email"`
	Password       string `gorm:"type:varchar(255);not null" json:"-"`
	Role           string `gorm:"type:varchar(20);not null;default:'User'" json:"role"`
	Phone          string `gorm:"type:varchar(30)" json:"phone"`
	ProfilePicture string `gorm:"type:varchar(500)" json:"profile_picture"`
	// Expo push token of the user's mobile device, empty until the app registers one.
	PushToken string    `gorm:"type:varchar(255)" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
