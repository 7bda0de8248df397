package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/canteen-app/events"
	"github.com/yeremiapane/canteen-app/models"
	"github.com/yeremiapane/canteen-app/services"
	"github.com/yeremiapane/canteen-app/utils"
)

type OrderController struct {
	DB     *gorm.DB
	Orders *services.OrderService
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{
		DB:     db,
		Orders: services.NewOrderService(db),
	}
}

// CreateOrder -> place an order from the submitted cart
func (oc *OrderController) CreateOrder(c *gin.Context) {
	type reqBody struct {
		Items               []services.OrderLine `json:"items" binding:"required,min=1,dive"`
		SpecialInstructions string               `json:"specialInstructions"`
		PaymentMethod       string               `json:"paymentMethod"`
	}

	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.PaymentMethod != "" && !models.IsValidPaymentMethod(body.PaymentMethod) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid payment method"))
		return
	}

	customerID := c.GetUint("user_id")
	order, err := oc.Orders.PlaceOrder(customerID, services.PlaceOrderInput{
		Lines:               body.Items,
		SpecialInstructions: body.SpecialInstructions,
		PaymentMethod:       body.PaymentMethod,
	})
	if err != nil {
		respondOrderError(c, err)
		return
	}

	utils.InfoLogger.Printf("Order #%d placed by user %d, total %.2f",
		order.ID, customerID, order.TotalAmount)
	events.BroadcastOrderCreated(*order)

	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// CancelOrder -> customer cancels own order while still cancellable
func (oc *OrderController) CancelOrder(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}

	requesterID := c.GetUint("user_id")
	order, err := oc.Orders.CancelOrder(uint(orderID), requesterID)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	utils.InfoLogger.Printf("Order #%d cancelled by user %d", order.ID, requesterID)
	events.BroadcastOrderCancelled(*order)

	utils.RespondJSON(c, http.StatusOK, "Order cancelled", order)
}

// GetMyOrders -> caller's orders, newest first, paginated
func (oc *OrderController) GetMyOrders(c *gin.Context) {
	customerID := c.GetUint("user_id")
	page, limit, offset := utils.ParsePagination(c, 10)

	query := oc.DB.Model(&models.Order{}).Where("customer_id = ?", customerID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var orders []models.Order
	if err := query.Preload("Items.Food").
		Order("created_at desc").
		Limit(limit).Offset(offset).
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "My orders", gin.H{
		"orders":      orders,
		"totalPages":  utils.TotalPages(total, limit),
		"currentPage": page,
		"total":       total,
	})
}

// GetOrderByID -> owner or admin only
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}

	var order models.Order
	if err := oc.DB.Preload("Items.Food").Preload("Customer").
		First(&order, orderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}

	userID := c.GetUint("user_id")
	role := c.GetString("role")
	if order.CustomerID != userID && role != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, errors.New("access denied"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// respondOrderError translates service errors into the 4xx taxonomy;
// anything unexpected stays a bare 500.
func respondOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrFoodNotFound),
		errors.Is(err, services.ErrFoodUnavailable),
		errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrEmptyOrder),
		errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrOrderNotCancellable):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, services.ErrOrderNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrNotOrderOwner):
		utils.RespondError(c, http.StatusForbidden, err)
	default:
		utils.ErrorLogger.Printf("order operation failed: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("server error"))
	}
}
