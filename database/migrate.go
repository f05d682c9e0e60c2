package database

import (
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/khalildhmine/neatify-server/models"
)

// AutoMigrate creates or updates every table the server uses.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Cleaner{},
		&models.Admin{},
		&models.Category{},
		&models.Service{},
		&models.Booking{},
		&models.Review{},
		&models.Conversation{},
		&models.Message{},
		&models.PasswordReset{},
	)
}

// SeedAdmin creates the default admin account from ADMIN_EMAIL and
// ADMIN_PASSWORD when no admin exists yet.
func SeedAdmin(db *gorm.DB) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}

	var count int64
	if err := db.Model(&models.Admin{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return db.Create(&models.Admin{Email: email, Password: string(hashed)}).Error
}
