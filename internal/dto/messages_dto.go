package dto

import "github.com/google/uuid"

// PublishDeclinedOfferMessage is the payload queued when a user declines a
// generated offer. Persistence happens in the background so the final-offer
// step renders without waiting on the database.
type PublishDeclinedOfferMessage struct {
	SubscriptionId     uuid.UUID `json:"subscriptionId"`
	UserId             uuid.UUID `json:"userId"`
	OriginalPriceCents int64     `json:"originalPriceCents"`
	UserInputCents     int64     `json:"userInputCents"`
	OfferPriceCents    int64     `json:"offerPriceCents"`
	DiscountPercent    int       `json:"discountPercent"`
}
