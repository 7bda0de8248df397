package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/canteen-app/controllers"
	"github.com/yeremiapane/canteen-app/middlewares"
	"github.com/yeremiapane/canteen-app/models"
	"github.com/yeremiapane/canteen-app/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Food{},
		&models.Order{},
		&models.OrderItem{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, employeeID, role string) (models.User, string) {
	t.Helper()

	user := models.User{
		Name:       "Test " + role,
		Email:      email,
		Password:   "irrelevant",
		EmployeeID: employeeID,
		Role:       role,
		IsActive:   true,
	}
	require.NoError(t, db.Create(&user).Error)

	token, err := utils.GenerateToken(user.ID, user.Role)
	require.NoError(t, err)
	return user, token
}

func seedTestFood(t *testing.T, db *gorm.DB, name string, price float64, stock int) models.Food {
	t.Helper()

	food := models.Food{
		Name:            name,
		Description:     name + " description",
		Price:           price,
		Category:        "lunch",
		IsAvailable:     true,
		CurrentStock:    stock,
		DailyStock:      stock,
		PreparationTime: 15,
	}
	require.NoError(t, db.Create(&food).Error)
	return food
}

func setupOrderRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	orderCtrl := controllers.NewOrderController(db)

	authed := r.Group("/api")
	authed.Use(middlewares.AuthMiddleware())
	{
		authed.POST("/orders", orderCtrl.CreateOrder)
		authed.GET("/orders/my-orders", orderCtrl.GetMyOrders)
		authed.GET("/orders/:id", orderCtrl.GetOrderByID)
		authed.PUT("/orders/:id/cancel", orderCtrl.CancelOrder)
	}
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, url, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, _ := resp["data"].(map[string]interface{})
	return data
}

func TestCreateOrderEndpoint(t *testing.T) {
	db := setupTestDB(t)
	r := setupOrderRouter(db)
	_, token := seedUser(t, db, "customer@example.com", "EMP001", models.RoleCustomer)
	food := seedTestFood(t, db, "Fried Rice", 5.00, 10)

	w := doJSON(t, r, "POST", "/api/orders", token, gin.H{
		"items":               []gin.H{{"foodId": food.ID, "quantity": 2}},
		"specialInstructions": "extra sauce",
		"paymentMethod":       "card",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	data := decodeData(t, w)
	assert.Equal(t, "pending", data["status"])
	assert.Equal(t, 10.0, data["total_amount"])
	assert.Equal(t, "card", data["payment_method"])
	assert.Equal(t, "extra sauce", data["special_instructions"])

	items := data["items"].([]interface{})
	require.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	assert.Equal(t, 5.0, item["price"])
	assert.Equal(t, "Fried Rice", item["food"].(map[string]interface{})["name"])

	var reloaded models.Food
	require.NoError(t, db.First(&reloaded, food.ID).Error)
	assert.Equal(t, 8, reloaded.CurrentStock)
}

func TestCreateOrderRequiresAuth(t *testing.T) {
	db := setupTestDB(t)
	r := setupOrderRouter(db)
	food := seedTestFood(t, db, "Fried Rice", 5.00, 10)

	w := doJSON(t, r, "POST", "/api/orders", "", gin.H{
		"items": []gin.H{{"foodId": food.ID, "quantity": 1}},
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateOrderValidationErrors(t *testing.T) {
	db := setupTestDB(t)
	r := setupOrderRouter(db)
	_, token := seedUser(t, db, "customer@example.com", "EMP001", models.RoleCustomer)
	food := seedTestFood(t, db, "Fried Rice", 5.00, 10)

	// Empty item list
	w := doJSON(t, r, "POST", "/api/orders", token, gin.H{"items": []gin.H{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Non-positive quantity
	w = doJSON(t, r, "POST", "/api/orders", token, gin.H{
		"items": []gin.H{{"foodId": food.ID, "quantity": 0}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown payment method
	w = doJSON(t, r, "POST", "/api/orders", token, gin.H{
		"items":         []gin.H{{"foodId": food.ID, "quantity": 1}},
		"paymentMethod": "cheque",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Nothing was reserved
	var reloaded models.Food
	require.NoError(t, db.First(&reloaded, food.ID).Error)
	assert.Equal(t, 10, reloaded.CurrentStock)
}

func TestCreateOrderInsufficientStockNamesItem(t *testing.T) {
	db := setupTestDB(t)
	r := setupOrderRouter(db)
	_, token := seedUser(t, db, "customer@example.com", "EMP001", models.RoleCustomer)
	food := seedTestFood(t, db, "Iced Tea", 3.00, 2)

	w := doJSON(t, r, "POST", "/api/orders", token, gin.H{
		"items": []gin.H{{"foodId": food.ID, "quantity": 5}},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Iced Tea")
}

func TestCancelOrderEndpoint(t *testing.T) {
	db := setupTestDB(t)
	r := setupOrderRouter(db)
	_, token := seedUser(t, db, "customer@example.com", "EMP001", models.RoleCustomer)
	food := seedTestFood(t, db, "Fried Rice", 5.00, 10)

	w := doJSON(t, r, "POST", "/api/orders", token, gin.H{
		"items": []gin.H{{"foodId": food.ID, "quantity": 4}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := uint(decodeData(t, w)["id"].(float64))

	w = doJSON(t, r, "PUT", fmt.Sprintf("/api/orders/%d/cancel", orderID), token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "cancelled", decodeData(t, w)["status"])

	var reloaded models.Food
	require.NoError(t, db.First(&reloaded, food.ID).Error)
	assert.Equal(t, 10, reloaded.CurrentStock)
}

func TestCancelOrderForbiddenForNonOwner(t *testing.T) {
	db := setupTestDB(t)
	r := setupOrderRouter(db)
	_, ownerToken := seedUser(t, db, "owner@example.com", "EMP001", models.RoleCustomer)
	_, otherToken := seedUser(t, db, "other@example.com", "EMP002", models.RoleCustomer)
	food := seedTestFood(t, db, "Fried Rice", 5.00, 10)

	w := doJSON(t, r, "POST", "/api/orders", ownerToken, gin.H{
		"items": []gin.H{{"foodId": food.ID, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := uint(decodeData(t, w)["id"].(float64))

	w = doJSON(t, r, "PUT", fmt.Sprintf("/api/orders/%d/cancel", orderID), otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Order and stock untouched
	var order models.Order
	require.NoError(t, db.First(&order, orderID).Error)
	assert.Equal(t, "pending", order.Status)

	var reloaded models.Food
	require.NoError(t, db.First(&reloaded, food.ID).Error)
	assert.Equal(t, 8, reloaded.CurrentStock)
}

func TestCancelOrderNotFoundAndBadStatus(t *testing.T) {
	db := setupTestDB(t)
	r := setupOrderRouter(db)
	_, token := seedUser(t, db, "customer@example.com", "EMP001", models.RoleCustomer)
	food := seedTestFood(t, db, "Fried Rice", 5.00, 10)

	w := doJSON(t, r, "PUT", "/api/orders/999/cancel", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, "POST", "/api/orders", token, gin.H{
		"items": []gin.H{{"foodId": food.ID, "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := uint(decodeData(t, w)["id"].(float64))

	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", orderID).
		Update("status", models.OrderStatusCompleted).Error)

	w = doJSON(t, r, "PUT", fmt.Sprintf("/api/orders/%d/cancel", orderID), token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "cannot be cancelled")
}

func TestGetMyOrdersPagination(t *testing.T) {
	db := setupTestDB(t)
	r := setupOrderRouter(db)
	_, token := seedUser(t, db, "customer@example.com", "EMP001", models.RoleCustomer)
	_, otherToken := seedUser(t, db, "other@example.com", "EMP002", models.RoleCustomer)
	food := seedTestFood(t, db, "Fried Rice", 5.00, 100)

	for i := 0; i < 3; i++ {
		w := doJSON(t, r, "POST", "/api/orders", token, gin.H{
			"items": []gin.H{{"foodId": food.ID, "quantity": 1}},
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}
	w := doJSON(t, r, "POST", "/api/orders", otherToken, gin.H{
		"items": []gin.H{{"foodId": food.ID, "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, "GET", "/api/orders/my-orders?page=1&limit=2", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeData(t, w)
	assert.Equal(t, 3.0, data["total"])
	assert.Equal(t, 2.0, data["totalPages"])
	assert.Equal(t, 1.0, data["currentPage"])
	assert.Len(t, data["orders"].([]interface{}), 2)

	// Status filter
	w = doJSON(t, r, "GET", "/api/orders/my-orders?status=cancelled", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0.0, decodeData(t, w)["total"])
}

func TestGetOrderByIDAccessControl(t *testing.T) {
	db := setupTestDB(t)
	r := setupOrderRouter(db)
	_, ownerToken := seedUser(t, db, "owner@example.com", "EMP001", models.RoleCustomer)
	_, otherToken := seedUser(t, db, "other@example.com", "EMP002", models.RoleCustomer)
	_, adminToken := seedUser(t, db, "admin@example.com", "ADMIN001", models.RoleAdmin)
	food := seedTestFood(t, db, "Fried Rice", 5.00, 10)

	w := doJSON(t, r, "POST", "/api/orders", ownerToken, gin.H{
		"items": []gin.H{{"foodId": food.ID, "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := uint(decodeData(t, w)["id"].(float64))

	url := fmt.Sprintf("/api/orders/%d", orderID)

	w = doJSON(t, r, "GET", url, ownerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, "GET", url, adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, "GET", url, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, "GET", "/api/orders/999", ownerToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
