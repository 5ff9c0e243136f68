package entity

import (
	"time"

	"github.com/google/uuid"
)

// OfferStatus tracks the lifecycle of a stored retention offer.
type OfferStatus string

const (
	OfferStatusPending  OfferStatus = "pending"
	OfferStatusAccepted OfferStatus = "accepted"
	OfferStatusExpired  OfferStatus = "expired"
)

// Offer is a server-persisted discounted-price proposal tied to one
// subscription. It is created when a user declines a generated offer and
// consumed when they later accept it. At most one non-expired pending offer
// may exist per subscription at a time; OfferService enforces this.
//
// All monetary fields are integer minor units (cents).
type Offer struct {
	ID                 uuid.UUID
	SubscriptionID     uuid.UUID
	UserID             uuid.UUID
	OriginalPriceCents int64
	UserInputCents     int64
	OfferPriceCents    int64
	SavingsCents       int64
	DiscountPercent    int
	Status             OfferStatus
	ExpiresAt          time.Time
	AcceptedAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Active reports whether the offer can still be presented and accepted.
func (o *Offer) Active(now time.Time) bool {
	return o.Status == OfferStatusPending && now.Before(o.ExpiresAt)
}
