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

type CategoryController struct {
	DB *gorm.DB
}

func NewCategoryController(db *gorm.DB) *CategoryController {
	return &CategoryController{DB: db}
}

// GetAllCategories lists every category with its services.
func (cc *CategoryController) GetAllCategories(c *gin.Context) {
	var categories []models.Category
	if err := cc.DB.Preload("Services").Find(&categories).Error; err != nil {
		utils.RespondInternal(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All categories", categories)
}

// CreateCategory accepts a multipart form with a name and an icon image.
func (cc *CategoryController) CreateCategory(c *gin.Context) {
	name := c.PostForm("name")
	if name == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("name is required"))
		return
	}

	category := models.Category{Name: name}

	if file, err := c.FormFile("icon"); err == nil {
		iconPath, err := utils.SaveIcon(c, file)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		category.Icon = iconPath
	}

	if err := cc.DB.Create(&category).Error; err != nil {
		utils.RespondError(c, http.StatusConflict, errors.New("category already exists"))
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Category created", category)
}

// DeleteCategory removes a category; its services keep their rows.
func (cc *CategoryController) DeleteCategory(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("cat_id"))

	if err := cc.DB.Delete(&models.Category{}, id).Error; err != nil {
		utils.RespondInternal(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category deleted", gin.H{"category_id": id})
}
