package models

import "time"

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	Email      string    `gorm:"type:varchar(255);unique;not null" json:"email"`
	Password   string    `gorm:"type:varchar(255);not null" json:"-"`
	Phone      string    `gorm:"type:varchar(20)" json:"phone"`
	EmployeeID string    `gorm:"type:varchar(50);unique;not null" json:"employee_id"`
	Department string    `gorm:"type:varchar(100)" json:"department"`
	Role       string    `gorm:"type:varchar(20);not null;default:'customer'" json:"role"`
	IsActive   bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}
