package controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yeremiapane/canteen-app/controllers"
	"github.com/yeremiapane/canteen-app/models"
)

func setupFoodRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	foodCtrl := controllers.NewFoodController(db)

	r.GET("/api/foods", foodCtrl.GetAllFoods)
	r.GET("/api/foods/categories/list", foodCtrl.GetCategories)
	r.GET("/api/foods/:id", foodCtrl.GetFoodByID)
	return r
}

func TestGetAllFoodsFilters(t *testing.T) {
	db := setupTestDB(t)
	r := setupFoodRouter(db)

	db.Create(&models.Food{Name: "Pancakes", Description: "Stacked", Price: 4.00,
		Category: "breakfast", IsAvailable: true, CurrentStock: 10, DailyStock: 10})
	db.Create(&models.Food{Name: "Burger", Description: "Beef burger", Price: 7.00,
		Category: "lunch", IsAvailable: true, CurrentStock: 10, DailyStock: 10})
	db.Create(&models.Food{Name: "Secret Special", Description: "Hidden", Price: 9.00,
		Category: "lunch", IsAvailable: false, CurrentStock: 10, DailyStock: 10})
	// GORM skips zero-value fields on columns with a DB default, so force the flag.
	require.NoError(t, db.Model(&models.Food{}).Where("name = ?", "Secret Special").
		Update("is_available", false).Error)

	foods := func(w string) []interface{} {
		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(w), &resp))
		return resp["data"].([]interface{})
	}

	// Unavailable items never show on the customer menu
	w := doJSON(t, r, "GET", "/api/foods", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, foods(w.Body.String()), 2)

	w = doJSON(t, r, "GET", "/api/foods?category=breakfast", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, foods(w.Body.String()), 1)

	w = doJSON(t, r, "GET", "/api/foods?search=beef", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	result := foods(w.Body.String())
	require.Len(t, result, 1)
	assert.Equal(t, "Burger", result[0].(map[string]interface{})["name"])
}

func TestGetFoodByID(t *testing.T) {
	db := setupTestDB(t)
	r := setupFoodRouter(db)
	food := seedTestFood(t, db, "Fried Rice", 5.00, 10)

	w := doJSON(t, r, "GET", fmt.Sprintf("/api/foods/%d", food.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Fried Rice", decodeData(t, w)["name"])

	w = doJSON(t, r, "GET", "/api/foods/999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetCategories(t *testing.T) {
	db := setupTestDB(t)
	r := setupFoodRouter(db)

	db.Create(&models.Food{Name: "Pancakes", Description: "Stacked", Price: 4.00,
		Category: "breakfast", IsAvailable: true, CurrentStock: 10, DailyStock: 10})
	db.Create(&models.Food{Name: "Burger", Description: "Beef burger", Price: 7.00,
		Category: "lunch", IsAvailable: true, CurrentStock: 10, DailyStock: 10})
	db.Create(&models.Food{Name: "Fries", Description: "Crispy", Price: 3.00,
		Category: "lunch", IsAvailable: true, CurrentStock: 10, DailyStock: 10})

	w := doJSON(t, r, "GET", "/api/foods/categories/list", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	categories := resp["data"].([]interface{})
	assert.ElementsMatch(t, []interface{}{"breakfast", "lunch"}, categories)
}
