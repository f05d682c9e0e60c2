package Controllers_test

import (
	"fmt"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/khalildhmine/neatify-server/models"
	"github.com/khalildhmine/neatify-server/utils"
)

var testDBCounter int64

// setupTestDB opens a private in-memory SQLite database with every model
// migrated. cache=shared keeps the database visible across the pool's
// connections; the unique name keeps tests isolated from each other.
func setupTestDB() *gorm.DB {
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared",
		atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}

	err = db.AutoMigrate(
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
	if err != nil {
		panic(err)
	}

	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	return db
}

// asRole fakes AuthMiddleware for a fixed identity.
func asRole(id uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", id)
		c.Set("role", role)
		c.Next()
	}
}
