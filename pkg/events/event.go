package events

import "time"

// Well-known event codes published on the bus. The notification service maps
// these to notification types via the notification_types registry.
const (
	TypeUserRegistered       = "USER_REGISTERED"
	TypeSubscriptionCreated  = "SUBSCRIPTION_CREATED"
	TypeDiscountApplied      = "DISCOUNT_APPLIED"
	TypeSubscriptionCanceled = "SUBSCRIPTION_CANCELED"
	TypeOfferAccepted        = "OFFER_ACCEPTED"
	TypeAlertPosted          = "ALERT_POSTED"
	TypeSystemBroadcast      = "SYSTEM_BROADCAST"
)

// Event is the contract for everything published on the bus.
type Event interface {
	// EventType returns the unique code for this event (e.g. "DISCOUNT_APPLIED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the plain implementation used across services.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
