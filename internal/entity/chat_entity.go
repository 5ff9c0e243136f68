package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatChannel is a community room (e.g. #signals, #general). Premium
// channels require an active subscription to post.
type ChatChannel struct {
	Id          uuid.UUID
	Name        string
	Slug        string
	Description string
	IsPremium   bool
	SortOrder   int
	CreatedAt   time.Time
}

type ChatMessage struct {
	Id        uuid.UUID
	ChannelId uuid.UUID
	UserId    uuid.UUID
	Content   string
	CreatedAt time.Time

	// Author is preloaded for history listings.
	Author User
}
