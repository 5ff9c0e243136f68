package entity

import (
	"time"

	"github.com/google/uuid"
)

type AlertSide string
type AlertStatus string

const (
	AlertSideBuy  AlertSide = "buy"
	AlertSideSell AlertSide = "sell"

	AlertStatusOpen   AlertStatus = "open"
	AlertStatusClosed AlertStatus = "closed"
)

// TradeAlert is a trade call posted by an admin and fanned out to paying
// members. Entry, stop and target are integer cents per unit.
type TradeAlert struct {
	Id          uuid.UUID
	AuthorId    uuid.UUID
	Symbol      string
	Side        AlertSide
	EntryCents  int64
	StopCents   int64
	TargetCents int64
	Notes       string
	Status      AlertStatus
	ClosedAt    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Author User
}
