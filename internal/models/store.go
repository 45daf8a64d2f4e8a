package models

import "gorm.io/gorm"

// Store is a vendor's storefront. Each user owns at most one store and the
// slug is unique across the platform.
//
// ProductCount is denormalized and mutated on product create/delete. It can
// drift under concurrent writes; that is accepted.
type Store struct {
	ID            string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	UserID        string `json:"user_id" gorm:"uniqueIndex;type:varchar(36)"`
	Name          string `json:"name" validate:"required,min=3,max=100"`
	Slug          string `json:"slug" gorm:"uniqueIndex;type:varchar(120)"`
	Description   string `json:"description" validate:"omitempty,max=500"`
	WhatsAppPhone string `json:"whatsapp_phone" gorm:"type:varchar(20)" validate:"omitempty,min=8,max=20"`
	ProductCount  int    `json:"product_count" gorm:"default:0"`
	Active        bool   `json:"active" gorm:"default:true"`
	gorm.Model
}
