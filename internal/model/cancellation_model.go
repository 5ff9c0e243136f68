package model

import (
	"time"

	"github.com/google/uuid"
)

type Cancellation struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SubscriptionID uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index"`
	Reason         string    `gorm:"type:varchar(50);not null"`
	EffectiveDate  time.Time `gorm:"not null"`
	ProcessedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	User         User             `gorm:"foreignKey:UserID"`
	Subscription UserSubscription `gorm:"foreignKey:SubscriptionID"`
}

func (Cancellation) TableName() string { return "cancellations" }
