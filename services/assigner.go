package services

import (
	"gorm.io/gorm"

	"github.com/khalildhmine/neatify-server/models"
)

// AssignCleaner attaches a cleaner to a fresh booking. The current strategy
// takes the first registered cleaner without looking at capacity or
// availability. Returns the chosen cleaner, or nil when none is registered,
// in which case the booking stays unassigned.
func AssignCleaner(db *gorm.DB, booking *models.Booking) (*models.Cleaner, error) {
	var cleaner models.Cleaner
	if err := db.Order("id asc").First(&cleaner).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	if err := db.Model(booking).Update("cleaner_id", cleaner.ID).Error; err != nil {
		return nil, err
	}
	booking.CleanerID = &cleaner.ID
	return &cleaner, nil
}
