package paddle

import (
	"bytes"
	"encoding/json"
	"time"
)

// Envelope is the top-level provider webhook payload. Identifiers are
// treated as opaque strings; the provider echoes back whatever was
// attached to the checkout pass-through data.
type Envelope struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Data      EnvelopeData `json:"data"`
}

// EnvelopeData carries the event-specific fields. Order and
// subscription identifiers are optional; an event may reference either,
// both, or neither.
type EnvelopeData struct {
	OrderID            FlexID     `json:"order_id"`
	TransactionID      string     `json:"transaction_id"`
	PaymentMethod      string     `json:"payment_method"`
	SubscriptionID     string     `json:"subscription_id"`
	CurrentPeriodStart *time.Time `json:"current_period_start"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end"`
	CancelAtPeriodEnd  bool       `json:"cancel_at_period_end"`
	CanceledAt         *time.Time `json:"canceled_at"`
}

// FlexID decodes a JSON string or number into a string. Providers are
// inconsistent about quoting pass-through identifiers.
type FlexID string

func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexID(n.String())
	return nil
}

// OrderUpdate is the reconciler's write against a matched order.
type OrderUpdate struct {
	Status        string
	TransactionID string
	PaymentMethod string
	PaidAt        *time.Time
}

// SubscriptionUpdate is the reconciler's write against a matched
// subscription, looked up by the external subscription identifier.
type SubscriptionUpdate struct {
	Status             string
	CurrentPeriodStart *time.Time
	CurrentPeriodEnd   *time.Time
	CancelAtPeriodEnd  bool
	CanceledAt         *time.Time
}

// Result describes what a processed envelope changed.
type Result struct {
	EventID            string
	EventType          string
	Duplicate          bool
	OrderStatus        string
	SubscriptionStatus string
}
