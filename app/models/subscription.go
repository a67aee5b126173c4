package models

import "time"

// Subscription status constants.
const (
	SubscriptionStatusTrialing = "trialing"
	SubscriptionStatusActive   = "active"
	SubscriptionStatusPastDue  = "past_due"
	SubscriptionStatusPaused   = "paused"
	SubscriptionStatusCanceled = "canceled"
)

// Subscription mirrors provider subscription state keyed by the external
// subscription identifier. Only the webhook reconciler mutates it.
type Subscription struct {
	ID                     uint64     `gorm:"primaryKey" json:"id"`
	CustomerID             uint64     `gorm:"not null;index" json:"customer_id"`
	Customer               Customer   `gorm:"foreignKey:CustomerID" json:"-"`
	ProductID              uint64     `gorm:"index" json:"product_id"`
	ProductPriceID         uint64     `gorm:"index" json:"product_price_id"`
	Provider               string     `gorm:"type:varchar(20);not null;index:ux_subscriptions_provider_subid,unique,priority:1" json:"provider"`
	ProviderSubscriptionID string     `gorm:"type:varchar(191);not null;index:ux_subscriptions_provider_subid,unique,priority:2" json:"provider_subscription_id"`
	Status                 string     `gorm:"type:varchar(32);not null;default:'trialing';index" json:"status"`
	CurrentPeriodStart     *time.Time `gorm:"type:timestamp;default:null" json:"current_period_start,omitempty"`
	CurrentPeriodEnd       *time.Time `gorm:"type:timestamp;default:null" json:"current_period_end,omitempty"`
	CancelAtPeriodEnd      bool       `gorm:"default:false" json:"cancel_at_period_end"`
	CanceledAt             *time.Time `gorm:"type:timestamp;default:null" json:"canceled_at,omitempty"`
	CreatedAt              time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the Subscription model
func (Subscription) TableName() string {
	return "subscriptions"
}
