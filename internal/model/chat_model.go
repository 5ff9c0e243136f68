package model

import (
	"time"

	"github.com/google/uuid"
)

type ChatChannel struct {
	Id          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name        string    `gorm:"type:varchar(100);not null"`
	Slug        string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	Description string    `gorm:"type:text"`
	IsPremium   bool      `gorm:"not null;default:false"`
	SortOrder   int       `gorm:"not null;default:0"`
	CreatedAt   time.Time
}

func (ChatChannel) TableName() string { return "chat_channels" }

type ChatMessage struct {
	Id        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ChannelId uuid.UUID `gorm:"type:uuid;not null;index"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"index"`

	User User `gorm:"foreignKey:UserId"`
}

func (ChatMessage) TableName() string { return "chat_messages" }
