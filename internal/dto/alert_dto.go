package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateAlertRequest struct {
	Symbol      string `json:"symbol" validate:"required,min=1,max=20"`
	Side        string `json:"side" validate:"required,oneof=buy sell"`
	EntryCents  int64  `json:"entryCents" validate:"required,gt=0"`
	StopCents   int64  `json:"stopCents" validate:"required,gt=0"`
	TargetCents int64  `json:"targetCents" validate:"required,gt=0"`
	Notes       string `json:"notes,omitempty" validate:"max=2000"`
}

type AlertResponse struct {
	Id          uuid.UUID  `json:"id"`
	Symbol      string     `json:"symbol"`
	Side        string     `json:"side"`
	EntryCents  int64      `json:"entryCents"`
	StopCents   int64      `json:"stopCents"`
	TargetCents int64      `json:"targetCents"`
	Notes       string     `json:"notes,omitempty"`
	Status      string     `json:"status"`
	AuthorName  string     `json:"authorName"`
	ClosedAt    *time.Time `json:"closedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}
