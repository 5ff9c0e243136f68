package dto

import (
	"time"

	"github.com/google/uuid"
)

type AdminUserResponse struct {
	Id            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullName"`
	Role          string    `json:"role"`
	Status        string    `json:"status"`
	EmailVerified bool      `json:"emailVerified"`
	Subscribed    bool      `json:"subscribed"`
	CreatedAt     time.Time `json:"createdAt"`
}

type AdminUserListResponse struct {
	Users    []AdminUserResponse `json:"users"`
	Total    int64               `json:"total"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"pageSize"`
}

type AdminUpdateUserRequest struct {
	Role   *string `json:"role,omitempty" validate:"omitempty,oneof=user admin"`
	Status *string `json:"status,omitempty" validate:"omitempty,oneof=pending active blocked"`
}

type AdminCancellationResponse struct {
	Id            uuid.UUID  `json:"id"`
	UserEmail     string     `json:"userEmail"`
	Reason        string     `json:"reason"`
	EffectiveDate time.Time  `json:"effectiveDate"`
	ProcessedAt   *time.Time `json:"processedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

type AdminDashboardResponse struct {
	TotalUsers           int64 `json:"totalUsers"`
	ActiveSubscriptions  int64 `json:"activeSubscriptions"`
	PendingCancellations int64 `json:"pendingCancellations"`
	OffersOutstanding    int64 `json:"offersOutstanding"`
	OffersAccepted       int64 `json:"offersAccepted"`
}

type LogQueryRequest struct {
	Level  string `query:"level"`
	Module string `query:"module"`
	Limit  int    `query:"limit"`
}
