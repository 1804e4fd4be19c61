package psql

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stivencardonauniandes/anb-rising-stars-showcase/internal/domain/entity"
)

type GormVoteRepo struct {
	DB *gorm.DB
}

func NewGormVoteRepo(db *gorm.DB) *GormVoteRepo {
	return &GormVoteRepo{DB: db}
}

// CastVote inserts the vote row and increments the video counter inside one
// transaction. The composite primary key arbitrates concurrent votes from
// the same pair: the losing insert affects zero rows and the whole
// transaction reports entity.ErrAlreadyVoted, so the counter is never
// incremented twice.
func (r *GormVoteRepo) CastVote(ctx context.Context, userID, videoID uuid.UUID) (int, error) {
	var total int
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&entity.Vote{UserID: userID, VideoID: videoID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return entity.ErrAlreadyVoted
		}

		if err := tx.Model(&entity.Video{}).
			Where("id = ?", videoID).
			UpdateColumn("votes", gorm.Expr("votes + 1")).Error; err != nil {
			return err
		}

		return tx.Model(&entity.Video{}).
			Select("votes").
			Where("id = ?", videoID).
			Scan(&total).Error
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *GormVoteRepo) HasVoted(ctx context.Context, userID, videoID uuid.UUID) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&entity.Vote{}).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		Count(&count).Error
	return count > 0, err
}

func (r *GormVoteRepo) VideoIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.DB.WithContext(ctx).
		Model(&entity.Vote{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Pluck("video_id", &ids).Error
	return ids, err
}
