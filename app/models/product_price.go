package models

import "time"

// Billing type constants for product prices and orders.
const (
	BillingTypeOneTime      = "one_time"
	BillingTypeSubscription = "subscription"
)

// ProductPrice fixes the billing terms for a product: one-time or
// recurring, currency and unit amount in minor units. Prices are
// deactivated logically instead of being deleted.
type ProductPrice struct {
	ID            uint64    `gorm:"primaryKey" json:"id"`
	ProductID     uint64    `gorm:"not null;index" json:"product_id" validate:"required"`
	Product       Product   `gorm:"foreignKey:ProductID" json:"-"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name" validate:"required,min=1,max=255"`
	BillingType   string    `gorm:"type:varchar(20);not null;index" json:"billing_type" validate:"oneof=one_time subscription"`
	UnitAmount    int64     `gorm:"not null" json:"unit_amount" validate:"gte=0"`
	Currency      string    `gorm:"type:char(3);not null;default:'USD'" json:"currency" validate:"len=3"`
	Interval      string    `gorm:"type:varchar(16);default:''" json:"interval,omitempty"`
	IntervalCount int       `gorm:"default:0" json:"interval_count,omitempty"`
	TrialDays     int       `gorm:"default:0" json:"trial_days,omitempty"`
	Active        bool      `gorm:"type:tinyint(1);default:1;index" json:"active"`
	Metadata      string    `gorm:"type:longtext" json:"metadata,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the ProductPrice model
func (ProductPrice) TableName() string {
	return "product_prices"
}
