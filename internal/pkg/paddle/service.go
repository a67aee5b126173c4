package paddle

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fennecpay/fennec/app/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ErrInvalidEnvelope means the payload lacks event_id or event_type.
var ErrInvalidEnvelope = errors.New("webhook envelope is missing event_id or event_type")

// Service applies verified webhook envelopes to order and subscription
// records, with the webhook_events table as the idempotency ledger.
// Each (provider, event_id) pair triggers side effects at most once.
type Service struct {
	repo Repository
}

// NewService creates a webhook service from an injected repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NewServiceFromDB creates a webhook service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db))
}

// ProcessEnvelope records the event in the ledger, maps the event type
// to order/subscription transitions and applies them. A duplicate
// delivery of an already-processed event short-circuits with
// Result.Duplicate set and no further side effects. If reconciliation
// fails, the ledger entry stays unprocessed so the sender's retry gets
// another attempt.
func (s *Service) ProcessEnvelope(ctx context.Context, raw []byte, envelope Envelope) (*Result, error) {
	_ = ctx
	eventID := strings.TrimSpace(envelope.EventID)
	eventType := strings.TrimSpace(envelope.EventType)
	if eventID == "" || eventType == "" {
		return nil, ErrInvalidEnvelope
	}

	existing, err := s.repo.FindWebhookEvent(models.PaymentProviderPaddle, eventID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil && existing.Processed {
		return &Result{EventID: eventID, EventType: eventType, Duplicate: true}, nil
	}

	ledgerID := uint64(0)
	if existing != nil {
		ledgerID = existing.ID
	} else {
		// Insert-if-absent guarded by the unique (provider, event_id)
		// index; a conflicting insert means a concurrent delivery got
		// there first and we continue against the stored row.
		_, stored, err := s.repo.CreateWebhookEventIfNotExists(&models.WebhookEvent{
			Provider:  models.PaymentProviderPaddle,
			EventID:   eventID,
			EventType: eventType,
			Payload:   string(raw),
			Processed: false,
		})
		if err != nil {
			return nil, err
		}
		if stored.Processed {
			return &Result{EventID: eventID, EventType: eventType, Duplicate: true}, nil
		}
		ledgerID = stored.ID
	}

	result := &Result{EventID: eventID, EventType: eventType}

	if status, ok := MapOrderStatus(eventType); ok && envelope.Data.OrderID != "" {
		update := OrderUpdate{
			Status:        status,
			TransactionID: envelope.Data.TransactionID,
			PaymentMethod: envelope.Data.PaymentMethod,
		}
		if status == models.OrderStatusPaid {
			now := time.Now()
			update.PaidAt = &now
		}
		if err := s.repo.UpdateOrderFromEvent(string(envelope.Data.OrderID), update); err != nil {
			s.markFailed(ledgerID, err)
			return nil, err
		}
		result.OrderStatus = status
	}

	if status, ok := MapSubscriptionStatus(eventType); ok && envelope.Data.SubscriptionID != "" {
		update := SubscriptionUpdate{
			Status:             status,
			CurrentPeriodStart: envelope.Data.CurrentPeriodStart,
			CurrentPeriodEnd:   envelope.Data.CurrentPeriodEnd,
			CancelAtPeriodEnd:  envelope.Data.CancelAtPeriodEnd,
			CanceledAt:         envelope.Data.CanceledAt,
		}
		if err := s.repo.UpdateSubscriptionFromEvent(models.PaymentProviderPaddle, envelope.Data.SubscriptionID, update); err != nil {
			s.markFailed(ledgerID, err)
			return nil, err
		}
		result.SubscriptionStatus = status
	}

	// Unknown event types land here with no transitions applied; the
	// envelope is still marked processed.
	if err := s.repo.MarkWebhookProcessed(ledgerID); err != nil {
		return nil, err
	}

	log.Info().
		Str("event_id", eventID).
		Str("event_type", eventType).
		Str("order_status", result.OrderStatus).
		Str("subscription_status", result.SubscriptionStatus).
		Msg("processed paddle webhook")

	return result, nil
}

func (s *Service) markFailed(ledgerID uint64, cause error) {
	if err := s.repo.MarkWebhookFailed(ledgerID, cause.Error()); err != nil {
		log.Error().Err(err).Uint64("webhook_event_id", ledgerID).Msg("failed to record webhook processing error")
	}
}
