package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Booking statuses.
const (
	BookingStatusPending   = "PENDING"
	BookingStatusConfirmed = "CONFIRMED"
	BookingStatusCancelled = "CANCELLED"
	BookingStatusCompleted = "COMPLETED"
)

// Payment statuses.
const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusFailed    = "FAILED"
)

// Payment methods.
const (
	PaymentMethodCash   = "CASH"
	PaymentMethodKhalti = "KHALTI"
)

// StringList persists a list of strings as a JSON column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("unsupported type for StringList")
	}
}

type Booking struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        uint       `gorm:"not null;index" json:"user_id"`
	User          User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ServiceID     uint       `gorm:"not null;index" json:"service_id"`
	Service       Service    `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	CleanerID     *uint      `gorm:"index" json:"cleaner_id"`
	Cleaner       *Cleaner   `gorm:"foreignKey:CleanerID" json:"cleaner,omitempty"`
	Date          time.Time  `gorm:"not null" json:"date"`
	Time          string     `gorm:"type:varchar(10);not null" json:"time"`
	Location      string     `gorm:"type:varchar(500)" json:"location"`
	PaymentMethod string     `gorm:"type:varchar(20);not null" json:"payment_method"`
	PaymentStatus string     `gorm:"type:varchar(20);not null;default:'PENDING'" json:"payment_status"`
	Duration      int        `gorm:"not null;default:1" json:"duration"`
	Price         float64    `gorm:"type:decimal(10,2);not null" json:"price"`
	Status        string     `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	Notes         string     `gorm:"type:text" json:"notes"`
	Areas         StringList `gorm:"type:text" json:"areas"`
	// Pidx is the Khalti transaction identifier, empty for cash bookings.
	Pidx      string    `gorm:"type:varchar(64);index" json:"pidx,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// transitions is the single transition table for booking statuses, keyed by
// actor role and current status. CANCELLED and COMPLETED are terminal: no
// actor may move a booking out of them.
var transitions = map[string]map[string][]string{
	RoleUser: {
		BookingStatusPending:   {BookingStatusCancelled},
		BookingStatusConfirmed: {BookingStatusCancelled, BookingStatusCompleted},
	},
	RoleCleaner: {
		BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
		BookingStatusConfirmed: {BookingStatusCancelled, BookingStatusCompleted},
	},
}

// CanTransition reports whether actor role may move a booking from its
// current status to target.
func (b *Booking) CanTransition(role, target string) bool {
	for _, next := range transitions[role][b.Status] {
		if next == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the booking is in a final status.
func (b *Booking) IsTerminal() bool {
	return b.Status == BookingStatusCancelled || b.Status == BookingStatusCompleted
}
