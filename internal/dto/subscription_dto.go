package dto

import (
	"time"

	"github.com/google/uuid"
)

type PlanResponse struct {
	Id              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	Description     string    `json:"description"`
	Tagline         string    `json:"tagline"`
	PriceCents      int64     `json:"priceCents"`
	AlertsEnabled   bool      `json:"alertsEnabled"`
	ChatEnabled     bool      `json:"chatEnabled"`
	AlertDailyLimit int       `json:"alertDailyLimit"`
	IsMostPopular   bool      `json:"isMostPopular"`
}

type CheckoutRequest struct {
	PlanId uuid.UUID `json:"planId" validate:"required"`
}

type CheckoutResponse struct {
	SessionId   string `json:"sessionId"`
	CheckoutURL string `json:"checkoutUrl"`
	ExpiresAt   int64  `json:"expiresAt"`
}

type SubscriptionStatusResponse struct {
	Id                 uuid.UUID `json:"id"`
	PlanId             uuid.UUID `json:"planId"`
	PlanName           string    `json:"planName"`
	Status             string    `json:"status"`
	PriceCents         int64     `json:"priceCents"`
	CurrentPeriodEnd   time.Time `json:"currentPeriodEnd"`
	CancelAtPeriodEnd  bool      `json:"cancelAtPeriodEnd"`
	StripeCustomerId   string    `json:"customerId,omitempty"`
	StripeSubscription string    `json:"stripeSubscriptionId,omitempty"`
}

type CancelSubscriptionRequest struct {
	ConfirmCancel bool   `json:"confirmCancel" validate:"required"`
	Password      string `json:"password,omitempty"`
}

type CancelSubscriptionResponse struct {
	Message string `json:"message"`
}
