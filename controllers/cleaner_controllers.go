package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/khalildhmine/neatify-server/models"
	"github.com/khalildhmine/neatify-server/utils"
	"github.com/khalildhmine/neatify-server/ws"
)

type CleanerController struct {
	DB *gorm.DB
}

func NewCleanerController(db *gorm.DB) *CleanerController {
	return &CleanerController{DB: db}
}

// Register creates a cleaner account.
func (cc *CleanerController) Register(c *gin.Context) {
	type request struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		Phone    string `json:"phone"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondInternal(c, err)
		return
	}

	cleaner := models.Cleaner{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Role:     models.RoleCleaner,
		Phone:    req.Phone,
	}

	if err := cc.DB.Create(&cleaner).Error; err != nil {
		utils.RespondError(c, http.StatusConflict, errors.New("email already registered"))
		return
	}

	utils.InfoLogger.Printf("New cleaner registered: %s", cleaner.Email)
	ws.BroadcastAdminNotification(fmt.Sprintf("Cleaner %s joined", cleaner.Name))

	utils.RespondJSON(c, http.StatusCreated, "Cleaner registered", gin.H{
		"cleaner_id": cleaner.ID,
	})
}

// Login checks cleaner credentials and returns a token pair.
func (cc *CleanerController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var cleaner models.Cleaner
	if err := cc.DB.Where("email = ?", input.Email).First(&cleaner).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cleaner.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	token, err := utils.GenerateToken(cleaner.ID, models.RoleCleaner)
	if err != nil {
		utils.RespondInternal(c, err)
		return
	}
	refresh, err := utils.GenerateRefreshToken(cleaner.ID, models.RoleCleaner)
	if err != nil {
		utils.RespondInternal(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token":         token,
		"refresh_token": refresh,
		"cleaner": gin.H{
			"id":    cleaner.ID,
			"name":  cleaner.Name,
			"email": cleaner.Email,
			"role":  cleaner.Role,
		},
	})
}
