package model

import (
	"time"

	"github.com/google/uuid"
)

type Offer struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SubscriptionID     uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID             uuid.UUID `gorm:"type:uuid;not null;index"`
	OriginalPriceCents int64     `gorm:"not null"`
	UserInputCents     int64     `gorm:"not null"`
	OfferPriceCents    int64     `gorm:"not null"`
	SavingsCents       int64     `gorm:"not null"`
	DiscountPercent    int       `gorm:"not null"`
	Status             string    `gorm:"type:varchar(20);not null;default:'pending';index"`
	ExpiresAt          time.Time `gorm:"not null"`
	AcceptedAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (Offer) TableName() string { return "offers" }
