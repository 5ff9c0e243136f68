package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type NotificationType struct {
	Code             string `gorm:"type:varchar(100);primary_key"`
	Description      string `gorm:"type:text"`
	TitleTemplate    string `gorm:"type:text;not null"`
	MessageTemplate  string `gorm:"type:text;not null"`
	DefaultRecipient string `gorm:"type:varchar(50);not null;default:'SELF'"`
	CreatedAt        time.Time
}

func (NotificationType) TableName() string { return "notification_types" }

type Notification struct {
	Id        uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	TypeCode  string         `gorm:"type:varchar(100);not null"`
	Title     string         `gorm:"type:varchar(255);not null"`
	Message   string         `gorm:"type:text;not null"`
	Metadata  datatypes.JSON `gorm:"type:jsonb"`
	IsRead    bool           `gorm:"not null;default:false;index"`
	ReadAt    *time.Time
	CreatedAt time.Time

	Type NotificationType `gorm:"foreignKey:TypeCode;references:Code"`
}

func (Notification) TableName() string { return "notifications" }
