package entity

import (
	"time"

	"github.com/google/uuid"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

const (
	SortByVotes      = "votes"
	SortByUploadedAt = "uploaded_at"
	SortByTitle      = "title"
)

// RankingQuery is the full tuple of ranking parameters. Cache keys are
// derived from every field so distinct queries never collide.
type RankingQuery struct {
	Page         int
	Limit        int
	SortBy       string
	SortOrder    SortOrder
	StatusFilter string
	MinVotes     *int
}

// RankedVideo is one row of the public ranking, owner details flattened in.
type RankedVideo struct {
	ID             uuid.UUID   `json:"id"`
	Title          string      `json:"title"`
	Status         VideoStatus `json:"status"`
	Votes          int         `json:"votes"`
	UploadedAt     time.Time   `json:"uploaded_at"`
	ProcessedAt    *time.Time  `json:"processed_at,omitempty"`
	OriginalURL    string      `json:"original_url"`
	ProcessedURL   *string     `json:"processed_url,omitempty"`
	OwnerID        uuid.UUID   `json:"owner_id"`
	OwnerFirstName string      `json:"owner_first_name"`
	OwnerLastName  string      `json:"owner_last_name"`
	OwnerCity      *string     `json:"owner_city,omitempty"`
	OwnerCountry   *string     `json:"owner_country,omitempty"`
	Rank           int         `json:"rank"`
}

type TopVideo struct {
	Rank       int       `json:"rank"`
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Votes      int       `json:"votes"`
	UserName   string    `json:"user_name"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type RankingStats struct {
	TotalVideos     int64   `json:"total_videos"`
	TotalVotes      int64   `json:"total_votes"`
	ProcessedVideos int64   `json:"processed_videos"`
	TopVotes        int     `json:"top_votes"`
	AverageVotes    float64 `json:"average_votes"`
}
