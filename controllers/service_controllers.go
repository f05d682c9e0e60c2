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

type ServiceController struct {
	DB *gorm.DB
}

func NewServiceController(db *gorm.DB) *ServiceController {
	return &ServiceController{DB: db}
}

// GetAllServices lists services, optionally filtered by category.
func (sc *ServiceController) GetAllServices(c *gin.Context) {
	query := sc.DB.Preload("Category")
	if catID := c.Query("category_id"); catID != "" {
		query = query.Where("category_id = ?", catID)
	}

	var services []models.Service
	if err := query.Find(&services).Error; err != nil {
		utils.RespondInternal(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All services", services)
}

// GetServiceByID returns one service with its category.
func (sc *ServiceController) GetServiceByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("service_id"))

	var service models.Service
	if err := sc.DB.Preload("Category").First(&service, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("service not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Service detail", service)
}

// CreateService is admin-only.
func (sc *ServiceController) CreateService(c *gin.Context) {
	var body struct {
		Name        string  `json:"name" binding:"required"`
		Description string  `json:"description"`
		Price       float64 `json:"price" binding:"required,gt=0"`
		Duration    int     `json:"duration"`
		CategoryID  uint    `json:"category_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var category models.Category
	if err := sc.DB.First(&category, body.CategoryID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("category not found"))
		return
	}

	duration := body.Duration
	if duration <= 0 {
		duration = 1
	}

	service := models.Service{
		Name:        body.Name,
		Description: body.Description,
		Price:       body.Price,
		Duration:    duration,
		CategoryID:  category.ID,
	}
	if err := sc.DB.Create(&service).Error; err != nil {
		utils.RespondInternal(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Service created", service)
}
