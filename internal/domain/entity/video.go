package entity

import (
	"time"

	"github.com/google/uuid"
)

type VideoStatus string

const (
	StatusUploaded  VideoStatus = "uploaded"
	StatusProcessed VideoStatus = "processed"
	StatusPublished VideoStatus = "published"
	StatusDeleted   VideoStatus = "deleted"
)

// ValidStatusFilter reports whether s names a status a caller may filter
// rankings by. The deleted state is never exposed.
func ValidStatusFilter(s string) bool {
	switch VideoStatus(s) {
	case StatusUploaded, StatusProcessed, StatusPublished:
		return true
	}
	return false
}

type Video struct {
	ID               uuid.UUID   `gorm:"primaryKey;type:uuid" json:"id"`
	UserID           uuid.UUID   `gorm:"not null;type:uuid;index" json:"user_id"`
	RawVideoID       uuid.UUID   `gorm:"not null;type:uuid" json:"raw_video_id"`
	ProcessedVideoID *uuid.UUID  `gorm:"type:uuid" json:"processed_video_id,omitempty"`
	Title            string      `gorm:"size:200;not null" json:"title"`
	Status           VideoStatus `gorm:"not null;type:text;index" json:"status"`
	UploadedAt       time.Time   `gorm:"autoCreateTime" json:"uploaded_at"`
	ProcessedAt      *time.Time  `json:"processed_at,omitempty"`
	OriginalURL      string      `gorm:"size:500;not null" json:"original_url"`
	ProcessedURL     *string     `gorm:"size:500" json:"processed_url,omitempty"`
	Votes            int         `gorm:"not null;default:0;index" json:"votes"`
}

func (v *Video) IsDeleted() bool {
	return v.Status == StatusDeleted
}

// Deletable reports whether the video may still be soft-deleted by its
// owner. Published videos are immutable.
func (v *Video) Deletable() bool {
	return v.Status != StatusPublished
}
