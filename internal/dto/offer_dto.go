package dto

import (
	"time"

	"github.com/google/uuid"
)

// OfferResponse is the wire shape of a stored offer. All prices are integer
// cents; clients convert to major units for display.
type OfferResponse struct {
	Id                 uuid.UUID `json:"id"`
	SubscriptionId     uuid.UUID `json:"subscriptionId"`
	OriginalPriceCents int64     `json:"originalPriceCents"`
	UserInputCents     int64     `json:"userInputCents"`
	OfferPriceCents    int64     `json:"offerPriceCents"`
	SavingsCents       int64     `json:"savingsCents"`
	DiscountPercent    int       `json:"discountPercent"`
	ExpiresAt          time.Time `json:"expiresAt"`
}

// CustomOfferLookupResponse answers GET /subscription/custom-offer.
type CustomOfferLookupResponse struct {
	Success  bool           `json:"success"`
	HasOffer bool           `json:"hasOffer"`
	Offer    *OfferResponse `json:"offer,omitempty"`
}

type RejectOfferRequest struct {
	SubscriptionId     uuid.UUID `json:"subscriptionId" validate:"required"`
	OriginalPriceCents int64     `json:"originalPriceCents" validate:"required,gt=0"`
	UserInputCents     int64     `json:"userInputCents" validate:"required,gt=0"`
	OfferPriceCents    int64     `json:"offerPriceCents" validate:"required,gt=0"`
	DiscountPercent    int       `json:"discountPercent" validate:"gte=0,lte=100"`
}

type RejectOfferResponse struct {
	Success bool          `json:"success"`
	Offer   OfferResponse `json:"offer"`
}

type AcceptOfferRequest struct {
	OfferId uuid.UUID `json:"offerId" validate:"required"`
}

// ApplyCouponData carries the coupon terms an accepted offer resolves to.
// The client feeds it straight back into the apply-coupon call.
type ApplyCouponData struct {
	PercentOff      int    `json:"percentOff"`
	NewMonthlyPrice int64  `json:"newMonthlyPrice"`
	CurrentPrice    int64  `json:"currentPrice"`
	OriginalPrice   int64  `json:"originalPrice"`
	CustomerId      string `json:"customerId"`
	SubscriptionId  string `json:"subscriptionId"`
}

type AcceptOfferResponse struct {
	Success         bool            `json:"success"`
	ApplyCouponData ApplyCouponData `json:"applyCouponData"`
}

type ApplyCouponRequest struct {
	PercentOff      int    `json:"percentOff" validate:"gte=0,lte=100"`
	NewMonthlyPrice int64  `json:"newMonthlyPrice" validate:"required,gt=0"`
	CurrentPrice    int64  `json:"currentPrice" validate:"required,gt=0"`
	OriginalPrice   int64  `json:"originalPrice" validate:"required,gt=0"`
	CustomerId      string `json:"customerId" validate:"required"`
	SubscriptionId  string `json:"subscriptionId" validate:"required"`
}
