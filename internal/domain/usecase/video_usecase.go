package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stivencardonauniandes/anb-rising-stars-showcase/internal/domain/entity"
)

// VideoUseCase enforces the video lifecycle rules: ownership, the
// uploaded → processed → published progression, and soft deletion, which is
// forbidden once a video is published.
type VideoUseCase struct {
	videos VideoRepo
	logger *zap.Logger
}

func NewVideoUseCase(videos VideoRepo, logger *zap.Logger) *VideoUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VideoUseCase{videos: videos, logger: logger}
}

func (u *VideoUseCase) ListForOwner(ctx context.Context, userID uuid.UUID) ([]entity.Video, error) {
	videos, err := u.videos.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list videos for owner: %w", err)
	}
	return videos, nil
}

func (u *VideoUseCase) ListPublished(ctx context.Context) ([]entity.Video, error) {
	videos, err := u.videos.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("list published videos: %w", err)
	}
	return videos, nil
}

func (u *VideoUseCase) Get(ctx context.Context, videoID string, userID uuid.UUID) (*entity.Video, error) {
	id, err := uuid.Parse(videoID)
	if err != nil {
		return nil, entity.ErrInvalidID
	}

	video, err := u.videos.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if video.IsDeleted() {
		return nil, entity.ErrNotFound
	}
	if video.UserID != userID {
		u.logger.Warn("unauthorized video access attempt",
			zap.String("video_id", videoID),
			zap.String("user_id", userID.String()))
		return nil, entity.ErrForbidden
	}
	return video, nil
}

// Delete soft-deletes a video by flipping its status, never removing the
// row, so vote history and audit stay intact.
func (u *VideoUseCase) Delete(ctx context.Context, videoID string, userID uuid.UUID) error {
	id, err := uuid.Parse(videoID)
	if err != nil {
		return entity.ErrInvalidID
	}

	video, err := u.videos.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if video.UserID != userID {
		u.logger.Warn("unauthorized video delete attempt",
			zap.String("video_id", videoID),
			zap.String("user_id", userID.String()))
		return entity.ErrForbidden
	}
	if !video.Deletable() {
		u.logger.Warn("attempt to delete published video",
			zap.String("video_id", videoID),
			zap.String("user_id", userID.String()))
		return entity.ErrInvalidState
	}

	if err := u.videos.UpdateStatus(ctx, id, entity.StatusDeleted); err != nil {
		return fmt.Errorf("delete video: %w", err)
	}

	u.logger.Info("video deleted",
		zap.String("video_id", videoID),
		zap.String("user_id", userID.String()))
	return nil
}
