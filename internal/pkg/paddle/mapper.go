package paddle

import "github.com/fennecpay/fennec/app/models"

var orderStatusByEvent = map[string]string{
	"transaction.paid":           models.OrderStatusPaid,
	"transaction.completed":      models.OrderStatusPaid,
	"transaction.payment_failed": models.OrderStatusFailed,
	"transaction.refunded":       models.OrderStatusRefunded,
	"transaction.canceled":       models.OrderStatusCanceled,
}

var subscriptionStatusByEvent = map[string]string{
	"subscription.created":   models.SubscriptionStatusTrialing,
	"subscription.trialing":  models.SubscriptionStatusTrialing,
	"subscription.activated": models.SubscriptionStatusActive,
	"subscription.resumed":   models.SubscriptionStatusActive,
	"subscription.past_due":  models.SubscriptionStatusPastDue,
	"subscription.paused":    models.SubscriptionStatusPaused,
	"subscription.canceled":  models.SubscriptionStatusCanceled,
}

// MapOrderStatus translates a provider event type into an order status.
// Unrecognized event types produce no order transition.
func MapOrderStatus(eventType string) (string, bool) {
	status, ok := orderStatusByEvent[eventType]
	return status, ok
}

// MapSubscriptionStatus translates a provider event type into a
// subscription status. Unrecognized event types produce no transition.
func MapSubscriptionStatus(eventType string) (string, bool) {
	status, ok := subscriptionStatusByEvent[eventType]
	return status, ok
}
