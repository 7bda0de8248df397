package models

import "time"

// Food categories served by the canteen.
var FoodCategories = []string{"breakfast", "lunch", "dinner", "snacks", "beverages"}

func IsValidCategory(category string) bool {
	for _, c := range FoodCategories {
		if c == category {
			return true
		}
	}
	return false
}

type Food struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"type:varchar(255);not null" json:"name"`
	Description     string    `gorm:"type:text;not null" json:"description"`
	Price           float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Category        string    `gorm:"type:varchar(20);not null;index" json:"category"`
	IsAvailable     bool      `gorm:"not null;default:true" json:"is_available"`
	CurrentStock    int       `gorm:"not null;default:0" json:"current_stock"`
	DailyStock      int       `gorm:"not null;default:50" json:"daily_stock"`
	PreparationTime int       `gorm:"not null;default:15" json:"preparation_time"`
	ImageURL        *string   `gorm:"type:varchar(255)" json:"image_url,omitempty"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}
