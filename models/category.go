package models

import "time"

type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);unique;not null" json:"name"`
	Icon      string    `gorm:"type:varchar(500)" json:"icon"`
	Services  []Service `gorm:"foreignKey:CategoryID" json:"services,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
