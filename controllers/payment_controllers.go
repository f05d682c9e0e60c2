package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/khalildhmine/neatify-server/models"
	"github.com/khalildhmine/neatify-server/services"
	"github.com/khalildhmine/neatify-server/utils"
	"github.com/khalildhmine/neatify-server/ws"
)

// PaymentController is the single owner of Khalti initiate/verify. Both the
// booking flow and the standalone payment endpoints go through the same
// KhaltiService instance.
type PaymentController struct {
	DB     *gorm.DB
	Khalti *services.KhaltiService
}

func NewPaymentController(db *gorm.DB) *PaymentController {
	return &PaymentController{DB: db, Khalti: services.GetKhaltiService()}
}

// InitiatePayment starts (or restarts) a Khalti payment for an existing
// booking owned by the caller. Restarting replaces the stored pidx, which is
// how an expired payment link is renewed.
func (pc *PaymentController) InitiatePayment(c *gin.Context) {
	userID := c.GetUint("user_id")

	var input struct {
		BookingID uint `json:"booking_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var booking models.Booking
	if err := pc.DB.Preload("Service").Preload("User").First(&booking, input.BookingID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("booking not found"))
		return
	}
	if booking.UserID != userID {
		utils.RespondError(c, http.StatusForbidden, errors.New("booking does not belong to you"))
		return
	}
	if booking.PaymentMethod != models.PaymentMethodKhalti {
		utils.RespondErrorCode(c, http.StatusBadRequest, "PAYMENT_FAILED",
			errors.New("booking is not a Khalti booking"))
		return
	}
	if booking.PaymentStatus == models.PaymentStatusCompleted {
		utils.RespondErrorCode(c, http.StatusBadRequest, "PAYMENT_FAILED",
			errors.New("booking is already paid"))
		return
	}

	initiate, err := pc.Khalti.Initiate(
		fmt.Sprintf("booking-%d-%d", booking.ID, time.Now().Unix()),
		booking.Service.Name,
		booking.Price,
		booking.User.Name, booking.User.Email, booking.User.Phone,
	)
	if err != nil {
		utils.ErrorLogger.Printf("khalti initiate failed for booking %d: %v", booking.ID, err)
		utils.RespondErrorCode(c, http.StatusBadGateway, "PAYMENT_FAILED",
			errors.New("payment initiation failed"))
		return
	}

	updates := map[string]interface{}{
		"pidx":           initiate.Pidx,
		"payment_status": models.PaymentStatusPending,
	}
	if err := pc.DB.Model(&booking).Updates(updates).Error; err != nil {
		utils.RespondInternal(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Payment initiated", gin.H{
		"pidx":        initiate.Pidx,
		"payment_url": initiate.PaymentURL,
		"expires_at":  initiate.ExpiresAt,
	})
}

// VerifyPayment looks up a pidx at the gateway and settles the matching
// booking. Verification is idempotent: a booking that is already paid
// reports success without another write.
func (pc *PaymentController) VerifyPayment(c *gin.Context) {
	var input struct {
		Pidx string `json:"pidx" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var booking models.Booking
	if err := pc.DB.Where("pidx = ?", input.Pidx).First(&booking).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("no booking for this payment"))
		return
	}

	if booking.PaymentStatus == models.PaymentStatusCompleted {
		utils.RespondJSON(c, http.StatusOK, "Payment already verified", gin.H{
			"booking_id":     booking.ID,
			"payment_status": booking.PaymentStatus,
		})
		return
	}

	lookup, err := pc.Khalti.Lookup(input.Pidx)
	if err != nil {
		utils.ErrorLogger.Printf("khalti lookup failed for pidx %s: %v", input.Pidx, err)
		utils.RespondErrorCode(c, http.StatusBadGateway, "PAYMENT_FAILED",
			errors.New("payment lookup failed"))
		return
	}

	status, settled := services.SettlementStatus(lookup.Status)
	if !settled {
		utils.RespondErrorCode(c, http.StatusBadRequest, "PAYMENT_FAILED",
			fmt.Errorf("payment not completed, gateway reports %q", lookup.Status))
		return
	}
	booking.PaymentStatus = status

	if err := pc.DB.Model(&booking).Update("payment_status", booking.PaymentStatus).Error; err != nil {
		utils.RespondInternal(c, err)
		return
	}

	utils.InfoLogger.Printf("Payment for booking %d settled as %s (pidx %s)",
		booking.ID, booking.PaymentStatus, booking.Pidx)
	ws.BroadcastPaymentUpdate(booking)

	if booking.PaymentStatus != models.PaymentStatusCompleted {
		utils.RespondErrorCode(c, http.StatusBadRequest, "PAYMENT_FAILED",
			fmt.Errorf("payment %s", lookup.Status))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Payment verified", gin.H{
		"booking_id":     booking.ID,
		"payment_status": booking.PaymentStatus,
		"transaction_id": lookup.TransactionID,
	})
}
