package events

import (
	"context"
	"time"
)

// Lifecycle event types emitted by the storefront.
const (
	TypeUserRegistered   = "UserRegistered"
	TypeOrderCompleted   = "OrderCompleted"
	TypePaymentExpired   = "PaymentExpired"
	TypeProductRestocked = "ProductRestocked"
)

type Event struct {
	Type        string
	AggregateID string
	Payload     []byte
	OccurredAt  time.Time
}

// Publisher delivers lifecycle events to whatever transport is configured.
// Publishing is best effort: callers log failures and carry on.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop discards every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
