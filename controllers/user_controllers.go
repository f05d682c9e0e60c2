package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/khalildhmine/neatify-server/models"
	"github.com/khalildhmine/neatify-server/services"
	"github.com/khalildhmine/neatify-server/utils"
)

const resetTokenLife = 15 * time.Minute

type UserController struct {
	DB     *gorm.DB
	Mailer *services.Mailer
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db, Mailer: services.NewMailerFromEnv()}
}

// Register creates a customer account.
func (uc *UserController) Register(c *gin.Context) {
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

	user := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Role:     models.RoleUser,
		Phone:    req.Phone,
	}

	if err := uc.DB.Create(&user).Error; err != nil {
		utils.RespondError(c, http.StatusConflict, errors.New("email already registered"))
		return
	}

	utils.InfoLogger.Printf("New user registered: %s", user.Email)

	utils.RespondJSON(c, http.StatusCreated, "User registered", gin.H{
		"user_id": user.ID,
	})
}

// Login checks credentials and returns an access/refresh token pair. The
// access token is also set as jwt_cookie for web clients.
func (uc *UserController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		utils.RespondInternal(c, err)
		return
	}
	refresh, err := utils.GenerateRefreshToken(user.ID, user.Role)
	if err != nil {
		utils.RespondInternal(c, err)
		return
	}

	c.SetCookie("jwt_cookie", token, int((24 * time.Hour).Seconds()), "/", "", false, true)

	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token":         token,
		"refresh_token": refresh,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// Refresh exchanges a refresh token for a fresh access token.
func (uc *UserController) Refresh(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	claims, err := utils.ParseRefreshToken(input.RefreshToken)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid refresh token"))
		return
	}

	token, err := utils.GenerateToken(claims.UserID, claims.Role)
	if err != nil {
		utils.RespondInternal(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Token refreshed", gin.H{"token": token})
}

// Logout blacklists the presented token and clears the cookie.
func (uc *UserController) Logout(c *gin.Context) {
	if token, exists := c.Get("token"); exists {
		utils.BlacklistToken(token.(string))
	}
	c.SetCookie("jwt_cookie", "", -1, "/", "", false, true)
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

// GetProfile returns the authenticated account, user or cleaner.
func (uc *UserController) GetProfile(c *gin.Context) {
	userID := c.GetUint("user_id")
	role := c.GetString("role")

	if role == models.RoleCleaner {
		var cleaner models.Cleaner
		if err := uc.DB.First(&cleaner, userID).Error; err != nil {
			utils.RespondError(c, http.StatusNotFound, errors.New("cleaner not found"))
			return
		}
		utils.RespondJSON(c, http.StatusOK, "Profile retrieved", cleaner)
		return
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Profile retrieved", user)
}

// UpdateProfile mutates name, phone, profile picture and push token.
func (uc *UserController) UpdateProfile(c *gin.Context) {
	userID := c.GetUint("user_id")

	var input struct {
		Name           string `json:"name"`
		Phone          string `json:"phone"`
		ProfilePicture string `json:"profile_picture"`
		PushToken      string `json:"push_token"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if c.GetString("role") == models.RoleCleaner {
		var cleaner models.Cleaner
		if err := uc.DB.First(&cleaner, userID).Error; err != nil {
			utils.RespondError(c, http.StatusNotFound, errors.New("cleaner not found"))
			return
		}
		if input.Name != "" {
			cleaner.Name = input.Name
		}
		if input.Phone != "" {
			cleaner.Phone = input.Phone
		}
		if input.PushToken != "" {
			cleaner.PushToken = input.PushToken
		}
		if err := uc.DB.Save(&cleaner).Error; err != nil {
			utils.RespondInternal(c, err)
			return
		}
		utils.RespondJSON(c, http.StatusOK, "Profile updated", cleaner)
		return
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}
	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Phone != "" {
		user.Phone = input.Phone
	}
	if input.ProfilePicture != "" {
		user.ProfilePicture = input.ProfilePicture
	}
	if input.PushToken != "" {
		user.PushToken = input.PushToken
	}
	if err := uc.DB.Save(&user).Error; err != nil {
		utils.RespondInternal(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Profile updated", user)
}

// ForgotPassword issues a one-time reset token and mails it. The response is
// the same whether or not the email exists, to avoid account enumeration.
func (uc *UserController) ForgotPassword(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.Where("email = ?", input.Email).First(&user).Error; err == nil {
		reset := models.PasswordReset{
			Email:     user.Email,
			Token:     uuid.NewString(),
			ExpiresAt: time.Now().Add(resetTokenLife),
		}
		if err := uc.DB.Create(&reset).Error; err != nil {
			utils.RespondInternal(c, err)
			return
		}

		if uc.Mailer.Configured() {
			if err := uc.Mailer.SendPasswordReset(user.Email, reset.Token); err != nil {
				utils.ErrorLogger.Printf("reset mail to %s failed: %v", user.Email, err)
			}
		} else {
			utils.InfoLogger.Printf("SMTP not configured, reset token for %s: %s", user.Email, reset.Token)
		}
	}

	utils.RespondJSON(c, http.StatusOK, "If the email exists, a reset code has been sent", nil)
}

// ResetPassword consumes a reset token and sets the new password.
func (uc *UserController) ResetPassword(c *gin.Context) {
	var input struct {
		Token    string `json:"token" binding:"required"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var reset models.PasswordReset
	if err := uc.DB.Where("token = ? AND used = ?", input.Token, false).First(&reset).Error; err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid or expired reset token"))
		return
	}
	if reset.Expired() {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid or expired reset token"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondInternal(c, err)
		return
	}

	err = uc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("email = ?", reset.Email).
			Update("password", string(hashed)).Error; err != nil {
			return err
		}
		return tx.Model(&reset).Update("used", true).Error
	})
	if err != nil {
		utils.RespondInternal(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Password updated", nil)
}
