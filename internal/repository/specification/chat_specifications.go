package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByChannel struct {
	ChannelID uuid.UUID
}

func (s ByChannel) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("channel_id = ?", s.ChannelID)
}

// Before keeps messages created strictly before a cursor timestamp,
// for keyset pagination of history.
type Before struct {
	Cursor time.Time
}

func (s Before) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("created_at < ?", s.Cursor)
}
