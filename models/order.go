package models

import "time"

// Order statuses. Completed and cancelled are terminal.
const (
	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

func IsValidOrderStatus(status string) bool {
	for _, s := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

var PaymentMethods = []string{"cash", "card", "digital_wallet"}

func IsValidPaymentMethod(method string) bool {
	for _, m := range PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}

type Order struct {
	ID                  uint        `gorm:"primaryKey" json:"id"`
	CustomerID          uint        `gorm:"not null;index" json:"customer_id"`
	Customer            User        `gorm:"foreignKey:CustomerID" json:"customer"`
	Items               []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	TotalAmount         float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_amount"`
	Status              string      `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	PaymentMethod       string      `gorm:"type:varchar(20);not null;default:'cash'" json:"payment_method"`
	PaymentStatus       string      `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	SpecialInstructions string      `gorm:"type:text" json:"special_instructions"`
	OrderDate           time.Time   `gorm:"not null;index" json:"order_date"`
	EstimatedReadyTime  time.Time   `gorm:"not null" json:"estimated_ready_time"`
	PickupTime          *time.Time  `json:"pickup_time,omitempty"`
	CreatedAt           time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time   `gorm:"not null" json:"updated_at"`
}

// CanBeCancelled reports whether the order is still in a cancellable state.
func (o *Order) CanBeCancelled() bool {
	return o.Status != OrderStatusCompleted && o.Status != OrderStatusCancelled
}
