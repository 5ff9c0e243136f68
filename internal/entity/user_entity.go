package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string
type UserStatus string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"

	UserStatusPending UserStatus = "pending"
	UserStatusActive  UserStatus = "active"
	UserStatusBlocked UserStatus = "blocked"
)

type User struct {
	Id               uuid.UUID
	Email            string
	PasswordHash     *string // nil for OAuth-only accounts
	FullName         string
	Role             UserRole
	Status           UserStatus
	EmailVerified    bool
	EmailVerifiedAt  *time.Time
	AvatarURL        *string
	StripeCustomerID *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type UserProvider struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	ProviderName   string
	ProviderUserId string
	AvatarURL      string
	CreatedAt      time.Time
}

type EmailVerificationToken struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}
