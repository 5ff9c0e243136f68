package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubscriptionPlan struct {
	Id              uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name            string    `gorm:"type:varchar(100);not null"`
	Slug            string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	Description     string    `gorm:"type:text"`
	Tagline         string    `gorm:"type:varchar(255)"`
	PriceCents      int64     `gorm:"not null"`
	AlertsEnabled   bool      `gorm:"not null;default:false"`
	ChatEnabled     bool      `gorm:"not null;default:false"`
	AlertDailyLimit int       `gorm:"not null;default:0"`
	IsMostPopular   bool      `gorm:"not null;default:false"`
	IsActive        bool      `gorm:"not null;default:true"`
	SortOrder       int       `gorm:"not null;default:0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (SubscriptionPlan) TableName() string { return "subscription_plans" }

type UserSubscription struct {
	Id                   uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserId               uuid.UUID `gorm:"type:uuid;not null;index"`
	PlanId               uuid.UUID `gorm:"type:uuid;not null"`
	Status               string    `gorm:"type:varchar(20);not null;default:'inactive'"`
	PaymentStatus        string    `gorm:"type:varchar(20);not null;default:'pending'"`
	CurrentPeriodStart   time.Time
	CurrentPeriodEnd     time.Time
	StripeSubscriptionID *string `gorm:"type:varchar(255);index"`
	StripeCustomerID     *string `gorm:"type:varchar(255);index"`
	CancelAtPeriodEnd    bool    `gorm:"not null;default:false"`
	CanceledAt           *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
	DeletedAt            gorm.DeletedAt `gorm:"index"`

	User User             `gorm:"foreignKey:UserId"`
	Plan SubscriptionPlan `gorm:"foreignKey:PlanId"`
}

func (UserSubscription) TableName() string { return "user_subscriptions" }
