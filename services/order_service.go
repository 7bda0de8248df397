package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/canteen-app/models"
)

// Sentinel errors mapped to HTTP status codes by the controllers.
var (
	ErrEmptyOrder          = errors.New("at least one item is required")
	ErrInvalidQuantity     = errors.New("quantity must be at least 1")
	ErrFoodNotFound        = errors.New("food not found")
	ErrFoodUnavailable     = errors.New("food is not available")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrOrderNotFound       = errors.New("order not found")
	ErrNotOrderOwner       = errors.New("access denied")
	ErrOrderNotCancellable = errors.New("order cannot be cancelled")
)

// OrderLine is one requested cart line.
type OrderLine struct {
	FoodID   uint `json:"foodId" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,min=1"`
}

type PlaceOrderInput struct {
	Lines               []OrderLine
	SpecialInstructions string
	PaymentMethod       string
}

// estimatedPrepWindow is how far in the future an order is promised.
const estimatedPrepWindow = 15 * time.Minute

type OrderService struct {
	DB *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{DB: db}
}

// PlaceOrder validates every cart line against the live catalog, reserves
// stock and creates the order. The whole operation runs in one transaction:
// if any line fails, no stock mutation survives. The stock reservation is a
// conditional decrement (current_stock >= quantity guard), so two concurrent
// placements cannot drive a counter below zero.
func (s *OrderService) PlaceOrder(customerID uint, input PlaceOrderInput) (*models.Order, error) {
	if len(input.Lines) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, line := range input.Lines {
		if line.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
	}

	paymentMethod := input.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "cash"
	}

	var orderID uint
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var total float64
		items := make([]models.OrderItem, 0, len(input.Lines))

		for _, line := range input.Lines {
			var food models.Food
			if err := tx.First(&food, line.FoodID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: id %d", ErrFoodNotFound, line.FoodID)
				}
				return err
			}

			if !food.IsAvailable {
				return fmt.Errorf("%w: %s", ErrFoodUnavailable, food.Name)
			}
			if line.Quantity > food.CurrentStock {
				return fmt.Errorf("%w for %s", ErrInsufficientStock, food.Name)
			}

			// Guarded decrement: the WHERE clause re-checks stock at update
			// time, so a concurrent placement that drained the row since the
			// read above fails here instead of overselling.
			res := tx.Model(&models.Food{}).
				Where("id = ? AND current_stock >= ?", food.ID, line.Quantity).
				UpdateColumn("current_stock", gorm.Expr("current_stock - ?", line.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w for %s", ErrInsufficientStock, food.Name)
			}

			total += food.Price * float64(line.Quantity)
			items = append(items, models.OrderItem{
				FoodID:   food.ID,
				Quantity: line.Quantity,
				Price:    food.Price,
			})
		}

		now := time.Now()
		order := models.Order{
			CustomerID:          customerID,
			Items:               items,
			TotalAmount:         total,
			Status:              models.OrderStatusPending,
			PaymentMethod:       paymentMethod,
			PaymentStatus:       "pending",
			SpecialInstructions: input.SpecialInstructions,
			OrderDate:           now,
			EstimatedReadyTime:  now.Add(estimatedPrepWindow),
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.getPopulated(orderID)
}

// CancelOrder restores stock for every line item and marks the order
// cancelled. Only the owning customer may cancel, and only while the order
// has not reached a terminal state.
func (s *OrderService) CancelOrder(orderID, requesterID uint) (*models.Order, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Preload("Items").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		if order.CustomerID != requesterID {
			return ErrNotOrderOwner
		}
		if !order.CanBeCancelled() {
			return ErrOrderNotCancellable
		}

		// Unconditional restore; a food row deleted since the order was
		// placed simply matches nothing.
		for _, item := range order.Items {
			res := tx.Model(&models.Food{}).
				Where("id = ?", item.FoodID).
				UpdateColumn("current_stock", gorm.Expr("current_stock + ?", item.Quantity))
			if res.Error != nil {
				return res.Error
			}
		}

		return tx.Model(&order).Update("status", models.OrderStatusCancelled).Error
	})
	if err != nil {
		return nil, err
	}

	return s.getPopulated(orderID)
}

// UpdateStatus sets any valid status without enforcing transition order;
// administrators are trusted to move orders through the pipeline. Switching
// to ready stamps the pickup time.
func (s *OrderService) UpdateStatus(orderID uint, status string) (*models.Order, error) {
	var order models.Order
	if err := s.DB.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	order.Status = status
	if status == models.OrderStatusReady {
		now := time.Now()
		order.PickupTime = &now
	}
	if err := s.DB.Save(&order).Error; err != nil {
		return nil, err
	}

	return s.getPopulated(orderID)
}

func (s *OrderService) getPopulated(orderID uint) (*models.Order, error) {
	var order models.Order
	if err := s.DB.Preload("Items.Food").Preload("Customer").First(&order, orderID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}
