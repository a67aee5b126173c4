package models

import "time"

// Customer is the billing identity resolved at checkout. Customers are
// upserted by email and never deleted by the payment core.
type Customer struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;type:varchar(200) CHARACTER SET utf8 COLLATE utf8_bin;not null" json:"email" validate:"required,email,min=5,max=200"`
	Name      string    `gorm:"type:varchar(150);default:''" json:"name" validate:"max=150"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
