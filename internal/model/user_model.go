package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	Id               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email            string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash     *string   `gorm:"type:varchar(255)"`
	FullName         string    `gorm:"type:varchar(255);not null"`
	Role             string    `gorm:"type:varchar(20);not null;default:'user'"`
	Status           string    `gorm:"type:varchar(20);not null;default:'pending'"`
	EmailVerified    bool      `gorm:"not null;default:false"`
	EmailVerifiedAt  *time.Time
	AvatarURL        *string `gorm:"type:text"`
	StripeCustomerID *string `gorm:"type:varchar(255);index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

func (User) TableName() string { return "users" }

type UserProvider struct {
	Id             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserId         uuid.UUID `gorm:"type:uuid;not null;index"`
	ProviderName   string    `gorm:"type:varchar(50);not null"`
	ProviderUserId string    `gorm:"type:varchar(255);not null;index"`
	AvatarURL      string    `gorm:"type:text"`
	CreatedAt      time.Time

	User User `gorm:"foreignKey:UserId"`
}

func (UserProvider) TableName() string { return "user_providers" }

type EmailVerificationToken struct {
	Id        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
	Token     string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
}

func (EmailVerificationToken) TableName() string { return "email_verification_tokens" }
