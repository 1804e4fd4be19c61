package usecase

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/stivencardonauniandes/anb-rising-stars-showcase/internal/domain/entity"
)

type VideoRepo interface {
	Create(ctx context.Context, video *entity.Video) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Video, error)
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]entity.Video, error)
	ListPublished(ctx context.Context) ([]entity.Video, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.VideoStatus) error
}

type VoteRepo interface {
	// CastVote inserts the vote and increments the video counter in a single
	// transaction. It returns entity.ErrAlreadyVoted when the composite key
	// already exists, and the new total otherwise.
	CastVote(ctx context.Context, userID, videoID uuid.UUID) (int, error)
	HasVoted(ctx context.Context, userID, videoID uuid.UUID) (bool, error)
	VideoIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type RankingRepo interface {
	List(ctx context.Context, q entity.RankingQuery) ([]entity.RankedVideo, int64, error)
	Top(ctx context.Context, limit int) ([]entity.TopVideo, error)
	Stats(ctx context.Context) (*entity.RankingStats, error)
}

// Cache is a JSON key/value view cache. Implementations degrade to
// always-miss when the backend is absent instead of failing the request.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeletePattern(ctx context.Context, pattern string) (int, error)
}

type Storage interface {
	Upload(ctx context.Context, remotePath string, r io.Reader, size int64, contentType string) error
}

type TaskPublisher interface {
	Publish(ctx context.Context, task entity.TaskMessage) error
}

type DurationProber interface {
	Duration(ctx context.Context, path string) (time.Duration, error)
}

type Metrics interface {
	IncUpload(status string)
	IncUploadFailure(stage string)
	ObserveUploadDuration(d time.Duration)
	IncVote(result string)
	IncCacheRequest(view, result string)
}
