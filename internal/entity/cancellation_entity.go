package entity

import (
	"time"

	"github.com/google/uuid"
)

// Cancellation records a completed cancellation for admin review. Rows are
// written only when the wizard reaches the cancelled outcome; retained and
// discounted sessions leave no cancellation record.
type Cancellation struct {
	ID             uuid.UUID
	SubscriptionID uuid.UUID
	UserID         uuid.UUID
	Reason         string
	EffectiveDate  time.Time // end of the paid period
	ProcessedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Preloaded relations for admin listings.
	User         User
	Subscription UserSubscription
}
