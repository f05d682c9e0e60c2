package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/khalildhmine/neatify-server/models"
	"github.com/khalildhmine/neatify-server/services"
	"github.com/khalildhmine/neatify-server/utils"
)

type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

// Login authenticates the admin account. Admins live in their own table and
// never share the user login path.
func (ac *AdminController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var admin models.Admin
	if err := ac.DB.Where("email = ?", input.Email).First(&admin).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	token, err := utils.GenerateToken(admin.ID, models.RoleAdmin)
	if err != nil {
		utils.RespondInternal(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{"token": token})
}

// GetAllUsers lists every customer account.
func (ac *AdminController) GetAllUsers(c *gin.Context) {
	var users []models.User
	if err := ac.DB.Find(&users).Error; err != nil {
		utils.RespondInternal(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All users", users)
}

// GetAllCleaners lists every cleaner account.
func (ac *AdminController) GetAllCleaners(c *gin.Context) {
	var cleaners []models.Cleaner
	if err := ac.DB.Find(&cleaners).Error; err != nil {
		utils.RespondInternal(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All cleaners", cleaners)
}

// DeleteCleaner removes a cleaner account. Their assigned bookings keep the
// cleaner_id reference for history.
func (ac *AdminController) DeleteCleaner(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("cleaner_id"))

	res := ac.DB.Delete(&models.Cleaner{}, id)
	if res.Error != nil {
		utils.RespondInternal(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("cleaner not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cleaner deleted", gin.H{"cleaner_id": id})
}

// GetDashboardStats aggregates counts and revenue for the admin panel.
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	var stats struct {
		TotalUsers    int64   `json:"total_users"`
		TotalCleaners int64   `json:"total_cleaners"`
		TotalBookings int64   `json:"total_bookings"`
		TodayBookings int64   `json:"today_bookings"`
		TotalRevenue  float64 `json:"total_revenue"`
		BookingStats  struct {
			Pending   int64 `json:"pending"`
			Confirmed int64 `json:"confirmed"`
			Cancelled int64 `json:"cancelled"`
			Completed int64 `json:"completed"`
		} `json:"booking_stats"`
		PaymentStats struct {
			Pending   int64 `json:"pending"`
			Completed int64 `json:"completed"`
			Failed    int64 `json:"failed"`
		} `json:"payment_stats"`
		PaymentMonitor services.PaymentMetrics `json:"payment_monitor"`
	}

	ac.DB.Model(&models.User{}).Count(&stats.TotalUsers)
	ac.DB.Model(&models.Cleaner{}).Count(&stats.TotalCleaners)
	ac.DB.Model(&models.Booking{}).Count(&stats.TotalBookings)

	today := time.Now().Format("2006-01-02")
	ac.DB.Model(&models.Booking{}).Where("DATE(created_at) = ?", today).Count(&stats.TodayBookings)

	ac.DB.Model(&models.Booking{}).
		Where("payment_status = ?", models.PaymentStatusCompleted).
		Select("COALESCE(SUM(price), 0)").Scan(&stats.TotalRevenue)

	ac.DB.Model(&models.Booking{}).Where("status = ?", models.BookingStatusPending).Count(&stats.BookingStats.Pending)
	ac.DB.Model(&models.Booking{}).Where("status = ?", models.BookingStatusConfirmed).Count(&stats.BookingStats.Confirmed)
	ac.DB.Model(&models.Booking{}).Where("status = ?", models.BookingStatusCancelled).Count(&stats.BookingStats.Cancelled)
	ac.DB.Model(&models.Booking{}).Where("status = ?", models.BookingStatusCompleted).Count(&stats.BookingStats.Completed)

	ac.DB.Model(&models.Booking{}).Where("payment_status = ?", models.PaymentStatusPending).Count(&stats.PaymentStats.Pending)
	ac.DB.Model(&models.Booking{}).Where("payment_status = ?", models.PaymentStatusCompleted).Count(&stats.PaymentStats.Completed)
	ac.DB.Model(&models.Booking{}).Where("payment_status = ?", models.PaymentStatusFailed).Count(&stats.PaymentStats.Failed)

	stats.PaymentMonitor = services.MonitorMetrics()

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", stats)
}
