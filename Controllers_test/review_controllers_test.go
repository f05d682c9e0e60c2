package Controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/khalildhmine/neatify-server/controllers"
	"github.com/khalildhmine/neatify-server/models"
)

func setupReviewRouter(db *gorm.DB, actorID uint) *gin.Engine {
	router := gin.New()
	reviewCtrl := controllers.NewReviewController(db)

	grp := router.Group("/api")
	grp.Use(asRole(actorID, models.RoleUser))
	grp.POST("/reviews", reviewCtrl.CreateReview)

	router.GET("/services/:service_id/reviews", reviewCtrl.GetServiceReviews)
	return router
}

func TestCreateReview(t *testing.T) {
	db := setupTestDB()
	user, cleaner, service := seedCatalog(db)
	booking := seedBooking(db, user, cleaner, service, models.BookingStatusCompleted)
	router := setupReviewRouter(db, user.ID)

	w := postJSON(router, "/api/reviews", map[string]interface{}{
		"booking_id": booking.ID,
		"service_id": service.ID,
		"rating":     5,
		"comment":    "Spotless.",
	}, "")
	assert.Equal(t, http.StatusCreated, w.Code)

	var count int64
	db.Model(&models.Review{}).Count(&count)
	assert.Equal(t, int64(1), count)

	// Second review for the same booking is rejected.
	w = postJSON(router, "/api/reviews", map[string]interface{}{
		"booking_id": booking.ID,
		"service_id": service.ID,
		"rating":     1,
		"comment":    "Changed my mind.",
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "REVIEW_EXISTS", resp["code"])

	db.Model(&models.Review{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreateReviewRejections(t *testing.T) {
	db := setupTestDB()
	user, cleaner, service := seedCatalog(db)
	router := setupReviewRouter(db, user.ID)

	// Booking still pending.
	pending := seedBooking(db, user, cleaner, service, models.BookingStatusPending)
	w := postJSON(router, "/api/reviews", map[string]interface{}{
		"booking_id": pending.ID,
		"service_id": service.ID,
		"rating":     4,
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Service id does not match the booking.
	completed := seedBooking(db, user, cleaner, service, models.BookingStatusCompleted)
	w = postJSON(router, "/api/reviews", map[string]interface{}{
		"booking_id": completed.ID,
		"service_id": service.ID + 99,
		"rating":     4,
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Someone else's booking.
	stranger := setupReviewRouter(db, user.ID+50)
	w = postJSON(stranger, "/api/reviews", map[string]interface{}{
		"booking_id": completed.ID,
		"service_id": service.ID,
		"rating":     4,
	}, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Rating out of range fails binding.
	w = postJSON(router, "/api/reviews", map[string]interface{}{
		"booking_id": completed.ID,
		"service_id": service.ID,
		"rating":     6,
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetServiceReviews(t *testing.T) {
	db := setupTestDB()
	user, cleaner, service := seedCatalog(db)
	booking := seedBooking(db, user, cleaner, service, models.BookingStatusCompleted)
	db.Create(&models.Review{Rating: 5, Comment: "Great", UserID: user.ID, ServiceID: service.ID, BookingID: booking.ID})

	router := setupReviewRouter(db, user.ID)
	w := getWithToken(router, "/services/1/reviews", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []models.Review `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, 5, resp.Data[0].Rating)
}
