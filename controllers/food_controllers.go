package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/canteen-app/models"
	"github.com/yeremiapane/canteen-app/utils"
)

type FoodController struct {
	DB *gorm.DB
}

func NewFoodController(db *gorm.DB) *FoodController {
	return &FoodController{DB: db}
}

// GetAllFoods -> available foods for the customer menu, with optional
// category and search filters.
func (fc *FoodController) GetAllFoods(c *gin.Context) {
	query := fc.DB.Where("is_available = ?", true)

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", like, like)
	}

	var foods []models.Food
	if err := query.Order("name asc").Find(&foods).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of foods", foods)
}

// GetFoodByID -> detail of one food
func (fc *FoodController) GetFoodByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid food id"))
		return
	}

	var food models.Food
	if err := fc.DB.First(&food, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("food not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Food detail", food)
}

// GetCategories -> distinct categories currently in the catalog
func (fc *FoodController) GetCategories(c *gin.Context) {
	var categories []string
	if err := fc.DB.Model(&models.Food{}).
		Distinct("category").
		Order("category asc").
		Pluck("category", &categories).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Food categories", categories)
}
