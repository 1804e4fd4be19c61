package entity

import (
	"time"

	"github.com/google/uuid"
)

// Vote records that a user voted for a video. The composite primary key is
// the store-level guarantee that a (user, video) pair votes at most once.
type Vote struct {
	UserID    uuid.UUID `gorm:"primaryKey;type:uuid" json:"user_id"`
	VideoID   uuid.UUID `gorm:"primaryKey;type:uuid" json:"video_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
