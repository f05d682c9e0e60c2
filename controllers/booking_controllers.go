package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/khalildhmine/neatify-server/models"
	"github.com/khalildhmine/neatify-server/services"
	"github.com/khalildhmine/neatify-server/utils"
	"github.com/khalildhmine/neatify-server/ws"
)

var timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

type BookingController struct {
	DB     *gorm.DB
	Khalti *services.KhaltiService
}

func NewBookingController(db *gorm.DB) *BookingController {
	return &BookingController{DB: db, Khalti: services.GetKhaltiService()}
}

// CreateBooking books a service for the authenticated user. Cash bookings
// are marked paid immediately; Khalti bookings get a pidx from the gateway
// and stay payment-pending until verified.
func (bc *BookingController) CreateBooking(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("authentication required"))
		return
	}

	type request struct {
		ServiceID     uint     `json:"service_id" binding:"required"`
		Date          string   `json:"date" binding:"required"`
		Time          string   `json:"time" binding:"required"`
		Location      string   `json:"location" binding:"required"`
		PaymentMethod string   `json:"payment_method" binding:"required,oneof=CASH KHALTI"`
		Duration      int      `json:"duration"`
		Notes         string   `json:"notes"`
		Areas         []string `json:"areas"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, "BOOKING_FAILED", err)
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, "BOOKING_FAILED",
			errors.New("date must be in YYYY-MM-DD format"))
		return
	}
	if !timePattern.MatchString(req.Time) {
		utils.RespondErrorCode(c, http.StatusBadRequest, "BOOKING_FAILED",
			errors.New("time must be in 24-hour HH:MM format"))
		return
	}

	var user models.User
	if err := bc.DB.First(&user, userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}

	var service models.Service
	if err := bc.DB.First(&service, req.ServiceID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("service not found"))
		return
	}

	duration := req.Duration
	if duration <= 0 {
		duration = service.Duration
	}
	if duration <= 0 {
		duration = 1
	}

	booking := models.Booking{
		UserID:        user.ID,
		ServiceID:     service.ID,
		Date:          date,
		Time:          req.Time,
		Location:      req.Location,
		PaymentMethod: req.PaymentMethod,
		Duration:      duration,
		Price:         service.Price * float64(duration),
		Status:        models.BookingStatusPending,
		Notes:         req.Notes,
		Areas:         req.Areas,
	}

	switch req.PaymentMethod {
	case models.PaymentMethodCash:
		booking.PaymentStatus = models.PaymentStatusCompleted
	case models.PaymentMethodKhalti:
		initiate, err := bc.Khalti.Initiate(
			fmt.Sprintf("booking-%d-%d", user.ID, time.Now().Unix()),
			service.Name,
			booking.Price,
			user.Name, user.Email, user.Phone,
		)
		if err != nil {
			utils.ErrorLogger.Printf("khalti initiate failed: %v", err)
			utils.RespondErrorCode(c, http.StatusBadGateway, "PAYMENT_FAILED",
				errors.New("payment initiation failed"))
			return
		}
		booking.Pidx = initiate.Pidx
		booking.PaymentStatus = models.PaymentStatusPending
	}

	var cleaner *models.Cleaner
	err = bc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}
		cleaner, err = services.AssignCleaner(tx, &booking)
		return err
	})
	if err != nil {
		utils.RespondInternal(c, err)
		return
	}

	utils.InfoLogger.Printf("Booking %d created by user %d (%s, %s)",
		booking.ID, user.ID, service.Name, booking.PaymentMethod)

	ws.BroadcastBookingCreated(booking)
	ws.BroadcastAdminNotification(
		fmt.Sprintf("New booking #%d for %s (%s)", booking.ID, service.Name, booking.PaymentMethod))
	if cleaner != nil {
		services.SendPush(cleaner.PushToken, "New booking assigned",
			fmt.Sprintf("%s on %s at %s", service.Name, req.Date, req.Time),
			map[string]string{"booking_id": strconv.Itoa(int(booking.ID))})
	}

	utils.RespondJSON(c, http.StatusCreated, "Booking created", booking)
}

// GetUserBookings lists the authenticated user's bookings, newest first.
func (bc *BookingController) GetUserBookings(c *gin.Context) {
	userID := c.GetUint("user_id")

	var bookings []models.Booking
	if err := bc.DB.Preload("Service").Preload("Cleaner").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&bookings).Error; err != nil {
		utils.RespondInternal(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Bookings retrieved", bookings)
}

// GetCleanerBookings lists bookings assigned to the authenticated cleaner.
func (bc *BookingController) GetCleanerBookings(c *gin.Context) {
	cleanerID := c.GetUint("user_id")

	var bookings []models.Booking
	if err := bc.DB.Preload("Service").Preload("User").
		Where("cleaner_id = ?", cleanerID).
		Order("created_at desc").
		Find(&bookings).Error; err != nil {
		utils.RespondInternal(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Bookings retrieved", bookings)
}

// GetBookingByID returns one booking, visible to its user, its cleaner or an
// admin.
func (bc *BookingController) GetBookingByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("booking_id"))

	var booking models.Booking
	if err := bc.DB.Preload("Service").Preload("User").Preload("Cleaner").
		First(&booking, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("booking not found"))
		return
	}

	requesterID := c.GetUint("user_id")
	role := c.GetString("role")
	switch role {
	case models.RoleAdmin:
	case models.RoleCleaner:
		if booking.CleanerID == nil || *booking.CleanerID != requesterID {
			utils.RespondError(c, http.StatusForbidden, errors.New("not your booking"))
			return
		}
	default:
		if booking.UserID != requesterID {
			utils.RespondError(c, http.StatusForbidden, errors.New("not your booking"))
			return
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Booking detail", booking)
}

// UpdateStatusByUser lets the booking's owner cancel or complete it,
// subject to the transition table.
func (bc *BookingController) UpdateStatusByUser(c *gin.Context) {
	bc.updateStatus(c, models.RoleUser)
}

// UpdateStatusByCleaner lets the assigned cleaner confirm, cancel or
// complete a booking, subject to the transition table.
func (bc *BookingController) UpdateStatusByCleaner(c *gin.Context) {
	bc.updateStatus(c, models.RoleCleaner)
}

func (bc *BookingController) updateStatus(c *gin.Context, actorRole string) {
	requesterID := c.GetUint("user_id")
	id, _ := strconv.Atoi(c.Param("booking_id"))

	var input struct {
		Status string `json:"status" binding:"required,oneof=PENDING CONFIRMED CANCELLED COMPLETED"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var booking models.Booking
	if err := bc.DB.First(&booking, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("booking not found"))
		return
	}

	// Ownership check depends on who is acting.
	if actorRole == models.RoleCleaner {
		if booking.CleanerID == nil || *booking.CleanerID != requesterID {
			utils.RespondError(c, http.StatusForbidden, errors.New("booking is not assigned to you"))
			return
		}
	} else {
		if booking.UserID != requesterID {
			utils.RespondError(c, http.StatusForbidden, errors.New("booking does not belong to you"))
			return
		}
	}

	if !booking.CanTransition(actorRole, input.Status) {
		utils.RespondErrorCode(c, http.StatusBadRequest, "INVALID_TRANSITION",
			fmt.Errorf("cannot move booking from %s to %s", booking.Status, input.Status))
		return
	}

	booking.Status = input.Status
	if err := bc.DB.Model(&booking).Update("status", input.Status).Error; err != nil {
		utils.RespondInternal(c, err)
		return
	}

	utils.InfoLogger.Printf("Booking %d moved to %s by %s %d",
		booking.ID, booking.Status, actorRole, requesterID)

	ws.BroadcastBookingUpdate(booking)
	bc.notifyCounterparty(&booking, actorRole)

	utils.RespondJSON(c, http.StatusOK, "Booking status updated", booking)
}

// notifyCounterparty pushes the status change to whoever did not make it.
func (bc *BookingController) notifyCounterparty(booking *models.Booking, actorRole string) {
	title := "Booking update"
	body := fmt.Sprintf("Booking #%d is now %s", booking.ID, booking.Status)
	data := map[string]string{"booking_id": strconv.Itoa(int(booking.ID)), "status": booking.Status}

	if actorRole == models.RoleCleaner {
		var user models.User
		if err := bc.DB.First(&user, booking.UserID).Error; err == nil {
			services.SendPush(user.PushToken, title, body, data)
		}
		return
	}

	if booking.CleanerID != nil {
		var cleaner models.Cleaner
		if err := bc.DB.First(&cleaner, *booking.CleanerID).Error; err == nil {
			services.SendPush(cleaner.PushToken, title, body, data)
		}
	}
}
