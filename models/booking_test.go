package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name   string
		role   string
		from   string
		target string
		want   bool
	}{
		{"user cancels pending", RoleUser, BookingStatusPending, BookingStatusCancelled, true},
		{"user cannot confirm", RoleUser, BookingStatusPending, BookingStatusConfirmed, false},
		{"user completes confirmed", RoleUser, BookingStatusConfirmed, BookingStatusCompleted, true},
		{"user cancels confirmed", RoleUser, BookingStatusConfirmed, BookingStatusCancelled, true},
		{"cleaner confirms pending", RoleCleaner, BookingStatusPending, BookingStatusConfirmed, true},
		{"cleaner cancels pending", RoleCleaner, BookingStatusPending, BookingStatusCancelled, true},
		{"cleaner completes confirmed", RoleCleaner, BookingStatusConfirmed, BookingStatusCompleted, true},
		{"cleaner cannot complete pending", RoleCleaner, BookingStatusPending, BookingStatusCompleted, false},
		{"cancelled is terminal", RoleUser, BookingStatusCancelled, BookingStatusCompleted, false},
		{"cancelled stays cancelled for cleaner", RoleCleaner, BookingStatusCancelled, BookingStatusConfirmed, false},
		{"completed is terminal", RoleCleaner, BookingStatusCompleted, BookingStatusCancelled, false},
		{"no self transition", RoleUser, BookingStatusPending, BookingStatusPending, false},
		{"unknown role does nothing", RoleAdmin, BookingStatusPending, BookingStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Booking{Status: tt.from}
			assert.Equal(t, tt.want, b.CanTransition(tt.role, tt.target))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, (&Booking{Status: BookingStatusPending}).IsTerminal())
	assert.False(t, (&Booking{Status: BookingStatusConfirmed}).IsTerminal())
	assert.True(t, (&Booking{Status: BookingStatusCancelled}).IsTerminal())
	assert.True(t, (&Booking{Status: BookingStatusCompleted}).IsTerminal())
}
