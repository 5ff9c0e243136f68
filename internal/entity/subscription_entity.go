package entity

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus string
type PaymentStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusInactive SubscriptionStatus = "inactive"
	SubscriptionStatusPastDue  SubscriptionStatus = "past_due"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"

	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// SubscriptionPlan describes a sellable membership tier. Prices are integer
// minor units (cents); major-unit values exist only at the DTO boundary.
type SubscriptionPlan struct {
	Id          uuid.UUID
	Name        string
	Slug        string
	Description string
	Tagline     string
	PriceCents  int64
	// Feature flags shown in the pricing modal.
	AlertsEnabled   bool
	ChatEnabled     bool
	AlertDailyLimit int // 0 = disabled, -1 = unlimited
	IsMostPopular   bool
	IsActive        bool
	SortOrder       int
}

type UserSubscription struct {
	Id                   uuid.UUID
	UserId               uuid.UUID
	PlanId               uuid.UUID
	Status               SubscriptionStatus
	PaymentStatus        PaymentStatus
	CurrentPeriodStart   time.Time
	CurrentPeriodEnd     time.Time
	StripeSubscriptionID *string
	StripeCustomerID     *string
	CancelAtPeriodEnd    bool
	CanceledAt           *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
