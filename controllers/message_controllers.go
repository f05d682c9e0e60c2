package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/khalildhmine/neatify-server/models"
	"github.com/khalildhmine/neatify-server/utils"
	"github.com/khalildhmine/neatify-server/ws"
)

type MessageController struct {
	DB *gorm.DB
}

func NewMessageController(db *gorm.DB) *MessageController {
	return &MessageController{DB: db}
}

// SendMessage creates or continues a conversation and appends a message.
//
// A new conversation needs a service_id and a User sender, and starts as a
// group thread with no cleaner attached. The first cleaner to reply to a
// group thread claims it: the thread becomes one-on-one and other cleaners
// lose access. The claim and the message insert happen in one transaction so
// two cleaners cannot both win.
func (mc *MessageController) SendMessage(c *gin.Context) {
	senderID := c.GetUint("user_id")
	role := c.GetString("role")

	var input struct {
		ConversationID uint   `json:"conversation_id"`
		ServiceID      uint   `json:"service_id"`
		Content        string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	senderType := models.SenderTypeUser
	if role == models.RoleCleaner {
		senderType = models.SenderTypeCleaner
	}

	var conversation models.Conversation

	if input.ConversationID == 0 {
		// Starting a new thread.
		if role != models.RoleUser {
			utils.RespondError(c, http.StatusForbidden,
				errors.New("only users can start a conversation"))
			return
		}
		if input.ServiceID == 0 {
			utils.RespondError(c, http.StatusBadRequest,
				errors.New("service_id is required for a new conversation"))
			return
		}
		var service models.Service
		if err := mc.DB.First(&service, input.ServiceID).Error; err != nil {
			utils.RespondError(c, http.StatusNotFound, errors.New("service not found"))
			return
		}

		conversation = models.Conversation{
			UserID:    senderID,
			ServiceID: service.ID,
			IsGroup:   true,
		}
	} else {
		if err := mc.DB.First(&conversation, input.ConversationID).Error; err != nil {
			utils.RespondError(c, http.StatusNotFound, errors.New("conversation not found"))
			return
		}
		if !canPost(&conversation, senderID, role) {
			utils.RespondError(c, http.StatusForbidden,
				errors.New("you are not part of this conversation"))
			return
		}
	}

	var message models.Message
	err := mc.DB.Transaction(func(tx *gorm.DB) error {
		if conversation.ID == 0 {
			if err := tx.Create(&conversation).Error; err != nil {
				return err
			}
		} else if role == models.RoleCleaner && conversation.IsGroup {
			// First cleaner reply converts the group thread to one-on-one.
			// The is_group guard makes the claim race-safe: only one update
			// can match the still-open row.
			res := tx.Model(&models.Conversation{}).
				Where("id = ? AND is_group = ?", conversation.ID, true).
				Updates(map[string]interface{}{"is_group": false, "cleaner_id": senderID})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errors.New("conversation already claimed by another cleaner")
			}
			conversation.IsGroup = false
			conversation.CleanerID = &senderID
		}

		message = models.Message{
			ConversationID: conversation.ID,
			SenderID:       senderID,
			SenderType:     senderType,
			Content:        input.Content,
		}
		if err := tx.Create(&message).Error; err != nil {
			return err
		}
		return tx.Model(&conversation).Update("updated_at", time.Now()).Error
	})
	if err != nil {
		utils.RespondInternal(c, err)
		return
	}

	ws.BroadcastNewMessage(message)

	utils.RespondJSON(c, http.StatusCreated, "Message sent", gin.H{
		"conversation": conversation,
		"message":      message,
	})
}

// canPost decides whether sender may append to an existing conversation.
func canPost(conv *models.Conversation, senderID uint, role string) bool {
	switch role {
	case models.RoleUser:
		return conv.UserID == senderID
	case models.RoleCleaner:
		if conv.CleanerID != nil && *conv.CleanerID == senderID {
			return true
		}
		// Any cleaner may answer a still-open group thread.
		return conv.IsGroup
	}
	return false
}

// GetConversations lists the caller's threads: a user sees their own, a
// cleaner sees claimed threads plus every still-open group thread.
func (mc *MessageController) GetConversations(c *gin.Context) {
	callerID := c.GetUint("user_id")
	role := c.GetString("role")

	query := mc.DB.Preload("Service").Preload("User").Preload("Cleaner").
		Order("updated_at desc")

	switch role {
	case models.RoleCleaner:
		query = query.Where("cleaner_id = ? OR is_group = ?", callerID, true)
	default:
		query = query.Where("user_id = ?", callerID)
	}

	var conversations []models.Conversation
	if err := query.Find(&conversations).Error; err != nil {
		utils.RespondInternal(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Conversations retrieved", conversations)
}

// GetMessages lists a conversation's messages, oldest first, for
// participants only.
func (mc *MessageController) GetMessages(c *gin.Context) {
	callerID := c.GetUint("user_id")
	role := c.GetString("role")
	id, _ := strconv.Atoi(c.Param("conversation_id"))

	var conversation models.Conversation
	if err := mc.DB.First(&conversation, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("conversation not found"))
		return
	}
	if !canPost(&conversation, callerID, role) && role != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden,
			errors.New("you are not part of this conversation"))
		return
	}

	var messages []models.Message
	if err := mc.DB.Where("conversation_id = ?", conversation.ID).
		Order("created_at asc").
		Find(&messages).Error; err != nil {
		utils.RespondInternal(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Messages retrieved", messages)
}
