package models

import "time"

// Payment provider constants.
const (
	PaymentProviderPaddle = "paddle"
)

// WebhookEvent is the idempotency ledger entry for provider webhook
// deliveries. The unique (provider, event_id) index is the concurrency
// safety mechanism: a conflicting insert means another delivery is
// already processing the same event.
type WebhookEvent struct {
	ID           uint64     `gorm:"primaryKey" json:"id"`
	Provider     string     `gorm:"type:varchar(20);not null;index:ux_webhook_events_provider_event,unique,priority:1" json:"provider"`
	EventID      string     `gorm:"type:varchar(191);not null;index:ux_webhook_events_provider_event,unique,priority:2" json:"event_id"`
	EventType    string     `gorm:"type:varchar(100);not null;index" json:"event_type"`
	Payload      string     `gorm:"type:longtext;not null" json:"payload"`
	Processed    bool       `gorm:"default:false;index" json:"processed"`
	ProcessedAt  *time.Time `gorm:"type:timestamp;default:null" json:"processed_at,omitempty"`
	ErrorMessage string     `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the WebhookEvent model
func (WebhookEvent) TableName() string {
	return "webhook_events"
}
