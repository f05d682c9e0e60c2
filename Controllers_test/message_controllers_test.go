package Controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/khalildhmine/neatify-server/controllers"
	"github.com/khalildhmine/neatify-server/models"
)

func setupMessageRouter(db *gorm.DB, actorID uint, role string) *gin.Engine {
	router := gin.New()
	messageCtrl := controllers.NewMessageController(db)

	grp := router.Group("/api")
	grp.Use(asRole(actorID, role))
	grp.POST("/messages", messageCtrl.SendMessage)
	grp.GET("/messages", messageCtrl.GetConversations)
	grp.GET("/messages/:conversation_id/messages", messageCtrl.GetMessages)
	return router
}

func TestConversationLifecycle(t *testing.T) {
	db := setupTestDB()
	user, cleaner, service := seedCatalog(db)

	cleanerTwo := models.Cleaner{Name: "Chandra", Email: "chandra@example.com", Password: "x", Role: models.RoleCleaner}
	db.Create(&cleanerTwo)

	userRouter := setupMessageRouter(db, user.ID, models.RoleUser)
	firstCleaner := setupMessageRouter(db, cleaner.ID, models.RoleCleaner)
	secondCleaner := setupMessageRouter(db, cleanerTwo.ID, models.RoleCleaner)

	// A user opens a thread about a service. It starts as a group thread.
	w := postJSON(userRouter, "/api/messages", map[string]interface{}{
		"service_id": service.ID,
		"content":    "Is Saturday morning available?",
	}, "")
	assert.Equal(t, http.StatusCreated, w.Code)

	var conv models.Conversation
	assert.NoError(t, db.First(&conv).Error)
	assert.True(t, conv.IsGroup)
	assert.Nil(t, conv.CleanerID)

	// Both cleaners can see the open thread.
	w = getWithToken(secondCleaner, "/api/messages", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var listResp struct {
		Data []models.Conversation `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	assert.Len(t, listResp.Data, 1)

	// The first cleaner to reply claims it.
	w = postJSON(firstCleaner, "/api/messages", map[string]interface{}{
		"conversation_id": conv.ID,
		"content":         "Yes, I can come at 09:00.",
	}, "")
	assert.Equal(t, http.StatusCreated, w.Code)

	db.First(&conv, conv.ID)
	assert.False(t, conv.IsGroup)
	if assert.NotNil(t, conv.CleanerID) {
		assert.Equal(t, cleaner.ID, *conv.CleanerID)
	}

	// The thread is now one-on-one, so the second cleaner is locked out.
	w = postJSON(secondCleaner, "/api/messages", map[string]interface{}{
		"conversation_id": conv.ID,
		"content":         "I can come too.",
	}, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	// And it no longer shows in the second cleaner's list.
	w = getWithToken(secondCleaner, "/api/messages", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	assert.Len(t, listResp.Data, 0)

	// The user and the claiming cleaner keep talking.
	w = postJSON(userRouter, "/api/messages", map[string]interface{}{
		"conversation_id": conv.ID,
		"content":         "Perfect, see you then.",
	}, "")
	assert.Equal(t, http.StatusCreated, w.Code)

	messagesPath := fmt.Sprintf("/api/messages/%d/messages", conv.ID)
	w = getWithToken(firstCleaner, messagesPath, "")
	assert.Equal(t, http.StatusOK, w.Code)

	var msgResp struct {
		Data []models.Message `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &msgResp))
	assert.Len(t, msgResp.Data, 3)
	assert.Equal(t, models.SenderTypeUser, msgResp.Data[0].SenderType)
	assert.Equal(t, models.SenderTypeCleaner, msgResp.Data[1].SenderType)

	// But the locked-out cleaner cannot read it.
	w = getWithToken(secondCleaner, messagesPath, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSendMessageValidation(t *testing.T) {
	db := setupTestDB()
	user, cleaner, _ := seedCatalog(db)

	userRouter := setupMessageRouter(db, user.ID, models.RoleUser)
	cleanerRouter := setupMessageRouter(db, cleaner.ID, models.RoleCleaner)

	// A cleaner cannot open a thread.
	w := postJSON(cleanerRouter, "/api/messages", map[string]interface{}{
		"service_id": 1,
		"content":    "Hello?",
	}, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	// A new thread needs a service.
	w = postJSON(userRouter, "/api/messages", map[string]interface{}{
		"content": "Hello?",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// And the service must exist.
	w = postJSON(userRouter, "/api/messages", map[string]interface{}{
		"service_id": 9999,
		"content":    "Hello?",
	}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
