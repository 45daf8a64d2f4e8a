package models

import "gorm.io/gorm"

// User roles. Vendors own a storefront; admins get the back-office routes.
const (
	RoleVendor = "vendor"
	RoleAdmin  = "admin"
)

// User represents a platform account.
type User struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name       string `json:"name" validate:"required,min=2,max=100"`
	Email      string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Phone      string `json:"phone" gorm:"type:varchar(20)" validate:"omitempty,min=8,max=20"`
	Password   string `json:"-" gorm:"type:varchar(255)" validate:"required,min=6"`
	Role       string `json:"role" gorm:"type:varchar(20);default:vendor"`
	Active     bool   `json:"active" gorm:"default:true"`
	gorm.Model        // CreatedAt, UpdatedAt, DeletedAt
}
