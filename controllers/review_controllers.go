package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/khalildhmine/neatify-server/models"
	"github.com/khalildhmine/neatify-server/utils"
)

type ReviewController struct {
	DB *gorm.DB
}

func NewReviewController(db *gorm.DB) *ReviewController {
	return &ReviewController{DB: db}
}

// CreateReview accepts one review per completed booking, by its owner only.
func (rc *ReviewController) CreateReview(c *gin.Context) {
	userID := c.GetUint("user_id")

	var input struct {
		BookingID uint   `json:"booking_id" binding:"required"`
		ServiceID uint   `json:"service_id" binding:"required"`
		Rating    int    `json:"rating" binding:"required,min=1,max=5"`
		Comment   string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var booking models.Booking
	if err := rc.DB.First(&booking, input.BookingID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("booking not found"))
		return
	}
	if booking.UserID != userID {
		utils.RespondError(c, http.StatusForbidden, errors.New("booking does not belong to you"))
		return
	}
	if booking.Status != models.BookingStatusCompleted {
		utils.RespondError(c, http.StatusBadRequest,
			errors.New("only completed bookings can be reviewed"))
		return
	}
	if booking.ServiceID != input.ServiceID {
		utils.RespondError(c, http.StatusBadRequest,
			errors.New("service does not match the booking"))
		return
	}

	var existing int64
	rc.DB.Model(&models.Review{}).
		Where("booking_id = ? AND user_id = ?", input.BookingID, userID).
		Count(&existing)
	if existing > 0 {
		utils.RespondErrorCode(c, http.StatusConflict, "REVIEW_EXISTS",
			errors.New("you have already reviewed this booking"))
		return
	}

	review := models.Review{
		Rating:    input.Rating,
		Comment:   input.Comment,
		UserID:    userID,
		ServiceID: input.ServiceID,
		BookingID: input.BookingID,
	}
	if err := rc.DB.Create(&review).Error; err != nil {
		// The unique index backs up the pre-check under concurrency.
		utils.RespondErrorCode(c, http.StatusConflict, "REVIEW_EXISTS",
			errors.New("you have already reviewed this booking"))
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Review submitted", review)
}

// GetServiceReviews lists reviews for a service, newest first.
func (rc *ReviewController) GetServiceReviews(c *gin.Context) {
	serviceID, _ := strconv.Atoi(c.Param("service_id"))

	var reviews []models.Review
	if err := rc.DB.Preload("User").
		Where("service_id = ?", serviceID).
		Order("created_at desc").
		Find(&reviews).Error; err != nil {
		utils.RespondInternal(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Service reviews", reviews)
}
