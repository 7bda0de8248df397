package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/canteen-app/events"
	"github.com/yeremiapane/canteen-app/models"
	"github.com/yeremiapane/canteen-app/services"
	"github.com/yeremiapane/canteen-app/utils"
)

type AdminController struct {
	DB     *gorm.DB
	Orders *services.OrderService
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{
		DB:     db,
		Orders: services.NewOrderService(db),
	}
}

/*
========================================
 FOOD MANAGEMENT
========================================
*/

type foodRequest struct {
	Name            string  `json:"name" binding:"required"`
	Description     string  `json:"description" binding:"required"`
	Price           float64 `json:"price" binding:"min=0"`
	Category        string  `json:"category" binding:"required"`
	IsAvailable     *bool   `json:"is_available"`
	CurrentStock    *int    `json:"current_stock"`
	DailyStock      *int    `json:"daily_stock"`
	PreparationTime *int    `json:"preparation_time"`
	ImageURL        *string `json:"image_url"`
}

// CreateFood
func (ac *AdminController) CreateFood(c *gin.Context) {
	var req foodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !models.IsValidCategory(req.Category) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid category"))
		return
	}

	food := models.Food{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		Category:        req.Category,
		IsAvailable:     true,
		DailyStock:      50,
		PreparationTime: 15,
		ImageURL:        req.ImageURL,
	}
	if req.IsAvailable != nil {
		food.IsAvailable = *req.IsAvailable
	}
	if req.DailyStock != nil {
		if *req.DailyStock < 1 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("daily stock must be positive"))
			return
		}
		food.DailyStock = *req.DailyStock
	}
	if req.CurrentStock != nil {
		if *req.CurrentStock < 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("stock must be non-negative"))
			return
		}
		food.CurrentStock = *req.CurrentStock
	} else {
		food.CurrentStock = food.DailyStock
	}
	if req.PreparationTime != nil {
		if *req.PreparationTime < 1 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("preparation time must be positive"))
			return
		}
		food.PreparationTime = *req.PreparationTime
	}

	if err := ac.DB.Create(&food).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Food created", food)
}

// GetAllFoods -> admin view, includes unavailable items, paginated
func (ac *AdminController) GetAllFoods(c *gin.Context) {
	page, limit, offset := utils.ParsePagination(c, 20)

	query := ac.DB.Model(&models.Food{})
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var foods []models.Food
	if err := query.Order("created_at desc").
		Limit(limit).Offset(offset).
		Find(&foods).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of foods", gin.H{
		"foods":       foods,
		"totalPages":  utils.TotalPages(total, limit),
		"currentPage": page,
		"total":       total,
	})
}

// UpdateFood -> partial update
func (ac *AdminController) UpdateFood(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid food id"))
		return
	}

	var food models.Food
	if err := ac.DB.First(&food, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("food not found"))
		return
	}

	type updateRequest struct {
		Name            *string  `json:"name"`
		Description     *string  `json:"description"`
		Price           *float64 `json:"price"`
		Category        *string  `json:"category"`
		IsAvailable     *bool    `json:"is_available"`
		PreparationTime *int     `json:"preparation_time"`
		ImageURL        *string  `json:"image_url"`
	}
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		if *req.Name == "" {
			utils.RespondError(c, http.StatusBadRequest, errors.New("name cannot be empty"))
			return
		}
		food.Name = *req.Name
	}
	if req.Description != nil {
		if *req.Description == "" {
			utils.RespondError(c, http.StatusBadRequest, errors.New("description cannot be empty"))
			return
		}
		food.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("price must be a positive number"))
			return
		}
		food.Price = *req.Price
	}
	if req.Category != nil {
		if !models.IsValidCategory(*req.Category) {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid category"))
			return
		}
		food.Category = *req.Category
	}
	if req.IsAvailable != nil {
		food.IsAvailable = *req.IsAvailable
	}
	if req.PreparationTime != nil {
		food.PreparationTime = *req.PreparationTime
	}
	if req.ImageURL != nil {
		food.ImageURL = req.ImageURL
	}

	if err := ac.DB.Save(&food).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Food updated", food)
}

// DeleteFood
func (ac *AdminController) DeleteFood(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid food id"))
		return
	}

	res := ac.DB.Delete(&models.Food{}, id)
	if res.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("food not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Food deleted successfully", gin.H{"food_id": id})
}

// UpdateFoodStock -> set current stock (and optionally the daily cap)
func (ac *AdminController) UpdateFoodStock(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid food id"))
		return
	}

	var req struct {
		CurrentStock *int `json:"current_stock" binding:"required"`
		DailyStock   *int `json:"daily_stock"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if *req.CurrentStock < 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("stock must be non-negative"))
		return
	}
	if req.DailyStock != nil && *req.DailyStock < 1 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("daily stock must be positive"))
		return
	}

	var food models.Food
	if err := ac.DB.First(&food, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("food not found"))
		return
	}

	food.CurrentStock = *req.CurrentStock
	if req.DailyStock != nil {
		food.DailyStock = *req.DailyStock
	}
	if err := ac.DB.Save(&food).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Stock updated", food)
}

// ResetDailyStock -> start-of-day restock: current_stock = daily_stock for
// every item in the catalog.
func (ac *AdminController) ResetDailyStock(c *gin.Context) {
	res := ac.DB.Model(&models.Food{}).
		Where("1 = 1").
		UpdateColumn("current_stock", gorm.Expr("daily_stock"))
	if res.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, res.Error)
		return
	}

	utils.InfoLogger.Printf("Daily stock reset applied to %d foods", res.RowsAffected)
	utils.RespondJSON(c, http.StatusOK, "Daily stock reset", gin.H{
		"foods_updated": res.RowsAffected,
	})
}

/*
========================================
 ORDER MANAGEMENT
========================================
*/

// GetAllOrders -> paginated, filterable by status and order date
func (ac *AdminController) GetAllOrders(c *gin.Context) {
	page, limit, offset := utils.ParsePagination(c, 20)

	query := ac.DB.Model(&models.Order{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if date := c.Query("date"); date != "" {
		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid date, expected YYYY-MM-DD"))
			return
		}
		query = query.Where("order_date >= ? AND order_date < ?", day, day.AddDate(0, 0, 1))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var orders []models.Order
	if err := query.Preload("Items.Food").Preload("Customer").
		Order("created_at desc").
		Limit(limit).Offset(offset).
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of orders", gin.H{
		"orders":      orders,
		"totalPages":  utils.TotalPages(total, limit),
		"currentPage": page,
		"total":       total,
	})
}

// UpdateOrderStatus -> admin moves the order through the pipeline
func (ac *AdminController) UpdateOrderStatus(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !models.IsValidOrderStatus(req.Status) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid status"))
		return
	}

	order, err := ac.Orders.UpdateStatus(uint(orderID), req.Status)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	utils.InfoLogger.Printf("Order #%d status set to %s", order.ID, order.Status)
	events.BroadcastOrderUpdated(*order)

	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

/*
========================================
 USER MANAGEMENT
========================================
*/

// GetAllUsers -> paginated, filterable by role, searchable
func (ac *AdminController) GetAllUsers(c *gin.Context) {
	page, limit, offset := utils.ParsePagination(c, 20)

	query := ac.DB.Model(&models.User{})
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR email LIKE ? OR employee_id LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var users []models.User
	if err := query.Order("created_at desc").
		Limit(limit).Offset(offset).
		Find(&users).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of users", gin.H{
		"users":       users,
		"totalPages":  utils.TotalPages(total, limit),
		"currentPage": page,
		"total":       total,
	})
}

// UpdateUserRole
func (ac *AdminController) UpdateUserRole(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid user id"))
		return
	}

	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Role != models.RoleCustomer && req.Role != models.RoleAdmin {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid role"))
		return
	}

	var user models.User
	if err := ac.DB.First(&user, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}

	user.Role = req.Role
	if err := ac.DB.Save(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "User role updated", user)
}

// ToggleUserStatus -> flip is_active; deactivated accounts cannot log in
func (ac *AdminController) ToggleUserStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid user id"))
		return
	}

	var user models.User
	if err := ac.DB.First(&user, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}

	user.IsActive = !user.IsActive
	if err := ac.DB.Save(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "User status updated", user)
}

/*
========================================
 DASHBOARD
========================================
*/

// GetDashboardStats -> headline numbers for the admin dashboard
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := today.AddDate(0, 0, 1)

	var todayOrders int64
	ac.DB.Model(&models.Order{}).
		Where("order_date >= ? AND order_date < ?", today, tomorrow).
		Count(&todayOrders)

	var todayRevenue float64
	ac.DB.Model(&models.Order{}).
		Where("order_date >= ? AND order_date < ? AND status != ?",
			today, tomorrow, models.OrderStatusCancelled).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&todayRevenue)

	var pendingOrders int64
	ac.DB.Model(&models.Order{}).
		Where("status IN ?", []string{models.OrderStatusPending, models.OrderStatusPreparing}).
		Count(&pendingOrders)

	var totalUsers int64
	ac.DB.Model(&models.User{}).
		Where("role = ?", models.RoleCustomer).
		Count(&totalUsers)

	var lowStockItems int64
	ac.DB.Model(&models.Food{}).
		Where("current_stock < ?", 10).
		Count(&lowStockItems)

	utils.RespondJSON(c, http.StatusOK, "Dashboard statistics", gin.H{
		"todayOrders":   todayOrders,
		"todayRevenue":  todayRevenue,
		"pendingOrders": pendingOrders,
		"totalUsers":    totalUsers,
		"lowStockItems": lowStockItems,
	})
}
