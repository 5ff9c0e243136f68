package model

import (
	"time"

	"github.com/google/uuid"
)

type TradeAlert struct {
	Id          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	AuthorId    uuid.UUID `gorm:"type:uuid;not null;index"`
	Symbol      string    `gorm:"type:varchar(20);not null;index"`
	Side        string    `gorm:"type:varchar(10);not null"`
	EntryCents  int64     `gorm:"not null"`
	StopCents   int64     `gorm:"not null"`
	TargetCents int64     `gorm:"not null"`
	Notes       string    `gorm:"type:text"`
	Status      string    `gorm:"type:varchar(20);not null;default:'open';index"`
	ClosedAt    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Author User `gorm:"foreignKey:AuthorId"`
}

func (TradeAlert) TableName() string { return "trade_alerts" }
