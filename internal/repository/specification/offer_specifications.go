package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BySubscription filters rows tied to one subscription.
type BySubscription struct {
	SubscriptionID uuid.UUID
}

func (s BySubscription) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("subscription_id = ?", s.SubscriptionID)
}

// ActiveOffers keeps only pending, unexpired offers. Used to enforce the
// one-active-offer-per-subscription rule.
type ActiveOffers struct {
	Now time.Time
}

func (s ActiveOffers) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ? AND expires_at > ?", "pending", s.Now)
}

// ByStatus filters by lifecycle status.
type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}
