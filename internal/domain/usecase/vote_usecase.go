package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stivencardonauniandes/anb-rising-stars-showcase/internal/domain/entity"
)

// rankingsKeyPattern matches every cached ranking view. Vote-count changes
// can reorder any page, so a successful vote clears them all.
const rankingsKeyPattern = "rankings:*"

type VoteResult struct {
	Message    string `json:"message"`
	VideoID    string `json:"video_id"`
	TotalVotes int    `json:"total_votes"`
}

type VoteUseCase struct {
	videos  VideoRepo
	votes   VoteRepo
	cache   Cache
	metrics Metrics
	logger  *zap.Logger
}

func NewVoteUseCase(videos VideoRepo, votes VoteRepo, cache Cache, metrics Metrics, logger *zap.Logger) *VoteUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VoteUseCase{
		videos:  videos,
		votes:   votes,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
	}
}

// Vote registers one vote for a video. Uniqueness is ultimately enforced by
// the store's composite key inside CastVote; the HasVoted read before it only
// decides error precedence for the common sequential case. Cache invalidation
// happens strictly after the vote transaction commits.
func (u *VoteUseCase) Vote(ctx context.Context, userID uuid.UUID, videoID string) (*VoteResult, error) {
	id, err := uuid.Parse(videoID)
	if err != nil {
		u.incVote("rejected")
		return nil, entity.ErrInvalidID
	}

	video, err := u.videos.FindByID(ctx, id)
	if err != nil {
		u.incVote("rejected")
		return nil, err
	}
	if video.IsDeleted() {
		u.incVote("rejected")
		return nil, entity.ErrNotFound
	}

	if voted, err := u.votes.HasVoted(ctx, userID, id); err != nil {
		return nil, fmt.Errorf("check existing vote: %w", err)
	} else if voted {
		u.incVote("duplicate")
		return nil, entity.ErrAlreadyVoted
	}

	if video.UserID == userID {
		u.incVote("self")
		return nil, entity.ErrSelfVote
	}

	total, err := u.votes.CastVote(ctx, userID, id)
	if err != nil {
		if errors.Is(err, entity.ErrAlreadyVoted) {
			// A concurrent vote won the race; the constraint caught it.
			u.incVote("duplicate")
			return nil, entity.ErrAlreadyVoted
		}
		u.logger.Error("failed to register vote",
			zap.String("video_id", videoID),
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("register vote: %w", err)
	}

	if deleted, err := u.cache.DeletePattern(ctx, rankingsKeyPattern); err != nil {
		u.logger.Warn("failed to invalidate rankings cache", zap.Error(err))
	} else if deleted > 0 {
		u.logger.Debug("invalidated rankings cache", zap.Int("entries", deleted))
	}

	u.incVote("accepted")
	u.logger.Info("vote registered",
		zap.String("video_id", videoID),
		zap.String("user_id", userID.String()),
		zap.Int("total_votes", total))

	return &VoteResult{
		Message:    "vote registered successfully",
		VideoID:    videoID,
		TotalVotes: total,
	}, nil
}

func (u *VoteUseCase) HasVoted(ctx context.Context, userID uuid.UUID, videoID string) (bool, error) {
	id, err := uuid.Parse(videoID)
	if err != nil {
		return false, entity.ErrInvalidID
	}
	return u.votes.HasVoted(ctx, userID, id)
}

func (u *VoteUseCase) VotedVideoIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return u.votes.VideoIDsByUser(ctx, userID)
}

func (u *VoteUseCase) incVote(result string) {
	if u.metrics != nil {
		u.metrics.IncVote(result)
	}
}
