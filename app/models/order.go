package models

import "time"

// Order status constants. An order starts pending and is only moved by
// the webhook reconciler afterwards.
const (
	OrderStatusPending  = "pending"
	OrderStatusPaid     = "paid"
	OrderStatusFailed   = "failed"
	OrderStatusRefunded = "refunded"
	OrderStatusCanceled = "canceled"
)

// Order type constants.
const (
	OrderTypeOneTime             = "one_time"
	OrderTypeSubscriptionInitial = "subscription_initial"
)

// Order records a single checkout attempt. Amount is computed once at
// creation (unit_amount * quantity) and never recomputed.
type Order struct {
	ID             uint64       `gorm:"primaryKey" json:"id"`
	CustomerID     uint64       `gorm:"not null;index" json:"customer_id"`
	Customer       Customer     `gorm:"foreignKey:CustomerID" json:"-"`
	ProductID      uint64       `gorm:"not null;index" json:"product_id"`
	ProductPriceID uint64       `gorm:"not null;index" json:"product_price_id"`
	ProductPrice   ProductPrice `gorm:"foreignKey:ProductPriceID" json:"-"`
	Quantity       int          `gorm:"not null;default:1" json:"quantity"`
	Amount         int64        `gorm:"not null" json:"amount"`
	Currency       string       `gorm:"type:char(3);not null;default:'USD'" json:"currency"`
	OrderType      string       `gorm:"type:varchar(32);not null" json:"order_type"`
	Status         string       `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	TransactionID  string       `gorm:"type:varchar(191);default:'';index" json:"transaction_id,omitempty"`
	PaymentMethod  string       `gorm:"type:varchar(50);default:''" json:"payment_method,omitempty"`
	PaidAt         *time.Time   `gorm:"type:timestamp;default:null;index" json:"paid_at,omitempty"`
	Metadata       string       `gorm:"type:longtext" json:"metadata,omitempty"`
	CreatedAt      time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}
