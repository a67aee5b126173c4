package paddle

import (
	"time"

	"github.com/fennecpay/fennec/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides the DB operations used by the webhook service:
// the idempotency ledger and the reconciler writes.
type Repository interface {
	FindWebhookEvent(provider, eventID string) (*models.WebhookEvent, error)
	CreateWebhookEventIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error)
	MarkWebhookProcessed(id uint64) error
	MarkWebhookFailed(id uint64, processingError string) error
	UpdateOrderFromEvent(orderID string, update OrderUpdate) error
	UpdateSubscriptionFromEvent(provider, providerSubscriptionID string, update SubscriptionUpdate) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a webhook repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) FindWebhookEvent(provider, eventID string) (*models.WebhookEvent, error) {
	var event models.WebhookEvent
	err := r.db.Where("provider = ? AND event_id = ?", provider, eventID).First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *gormRepository) CreateWebhookEventIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "provider"},
			{Name: "event_id"},
		},
		DoNothing: true,
	}).Create(event)
	if tx.Error != nil {
		return false, nil, tx.Error
	}

	created := tx.RowsAffected > 0
	var stored models.WebhookEvent
	if err := r.db.Where("provider = ? AND event_id = ?", event.Provider, event.EventID).
		First(&stored).Error; err != nil {
		return false, nil, err
	}
	return created, &stored, nil
}

func (r *gormRepository) MarkWebhookProcessed(id uint64) error {
	now := time.Now()
	updates := map[string]interface{}{
		"processed":     true,
		"processed_at":  &now,
		"error_message": "",
	}
	return r.db.Model(&models.WebhookEvent{}).Where("id = ?", id).Updates(updates).Error
}

func (r *gormRepository) MarkWebhookFailed(id uint64, processingError string) error {
	// processed stays false so a retried delivery attempts again
	return r.db.Model(&models.WebhookEvent{}).Where("id = ?", id).
		Update("error_message", processingError).Error
}

func (r *gormRepository) UpdateOrderFromEvent(orderID string, update OrderUpdate) error {
	updates := map[string]interface{}{
		"status":         update.Status,
		"transaction_id": update.TransactionID,
		"payment_method": update.PaymentMethod,
		"paid_at":        update.PaidAt,
	}
	return r.db.Model(&models.Order{}).Where("id = ?", orderID).Updates(updates).Error
}

func (r *gormRepository) UpdateSubscriptionFromEvent(provider, providerSubscriptionID string, update SubscriptionUpdate) error {
	updates := map[string]interface{}{
		"status":               update.Status,
		"current_period_start": update.CurrentPeriodStart,
		"current_period_end":   update.CurrentPeriodEnd,
		"cancel_at_period_end": update.CancelAtPeriodEnd,
		"canceled_at":          update.CanceledAt,
	}
	return r.db.Model(&models.Subscription{}).
		Where("provider = ? AND provider_subscription_id = ?", provider, providerSubscriptionID).
		Updates(updates).Error
}
