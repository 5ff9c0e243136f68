package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateNotificationRequest matches the fire-and-forget POST /notifications
// contract used by billing flows.
type CreateNotificationRequest struct {
	Action  string `json:"action" validate:"required,oneof=create"`
	Type    string `json:"type" validate:"required"`
	Title   string `json:"title" validate:"required"`
	Message string `json:"message" validate:"required"`
}

type NotificationResponse struct {
	Id        uuid.UUID `json:"id"`
	TypeCode  string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int64                  `json:"unreadCount"`
}

type MarkReadRequest struct {
	NotificationIds []uuid.UUID `json:"notificationIds" validate:"required,min=1"`
}
