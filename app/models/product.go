package models

import (
	"time"

	"gorm.io/gorm"
)

// Product is a sellable item managed through the admin API. Prices hang
// off products; the payment core only reads them.
type Product struct {
	ID          uint64         `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name" validate:"required,min=1,max=255"`
	SKU         string         `gorm:"uniqueIndex;type:varchar(100);not null" json:"sku" validate:"required,min=1,max=100"`
	Description string         `gorm:"type:text" json:"description"`
	Active      bool           `gorm:"type:tinyint(1);default:1;index" json:"active"`
	Metadata    string         `gorm:"type:longtext" json:"metadata,omitempty"`
	Prices      []ProductPrice `gorm:"foreignKey:ProductID" json:"prices,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}
