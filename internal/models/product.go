package models

import "gorm.io/gorm"

// Product belongs to one store. OfferPrice, when present, must be strictly
// lower than Price; the rule is enforced in the service layer rather than the
// schema so the stored shape stays permissive.
type Product struct {
	ID            string         `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	StoreID       string         `json:"store_id" gorm:"index;type:varchar(36)"`
	Name          string         `json:"name" validate:"required,min=3,max=100"`
	Description   string         `json:"description" validate:"omitempty,max=500"`
	Price         float64        `json:"price" validate:"required,gt=0"`
	OfferPrice    *float64       `json:"offer_price,omitempty" validate:"omitempty,gt=0"`
	Stock         int            `json:"stock" validate:"gte=0"`
	Images        []ProductImage `json:"images" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Views         int64          `json:"views" gorm:"default:0"`
	ContactClicks int64          `json:"contact_clicks" gorm:"default:0"`
	gorm.Model
}

// ProductImage is a reference to a file on the external media host: the
// public URL plus the host's identifier, needed later for deletion.
type ProductImage struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProductID  string `json:"product_id" gorm:"index;type:varchar(36)"`
	URL        string `json:"url" gorm:"type:varchar(512)"`
	ExternalID string `json:"external_id" gorm:"type:varchar(255)"`
	gorm.Model
}
