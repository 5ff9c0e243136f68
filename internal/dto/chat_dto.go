package dto

import (
	"time"

	"github.com/google/uuid"
)

type ChannelResponse struct {
	Id          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	IsPremium   bool      `json:"isPremium"`
}

type SendMessageRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

type MessageResponse struct {
	Id         uuid.UUID `json:"id"`
	ChannelId  uuid.UUID `json:"channelId"`
	UserId     uuid.UUID `json:"userId"`
	AuthorName string    `json:"authorName"`
	AvatarURL  *string   `json:"avatarUrl,omitempty"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

type MessageHistoryResponse struct {
	Messages []MessageResponse `json:"messages"`
	HasMore  bool              `json:"hasMore"`
}
