package psql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stivencardonauniandes/anb-rising-stars-showcase/internal/domain/entity"
)

type GormVideoRepo struct {
	DB *gorm.DB
}

func NewGormVideoRepo(db *gorm.DB) *GormVideoRepo {
	return &GormVideoRepo{DB: db}
}

func (r *GormVideoRepo) Create(ctx context.Context, video *entity.Video) error {
	return r.DB.WithContext(ctx).Create(video).Error
}

func (r *GormVideoRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Video, error) {
	video := &entity.Video{}
	if err := r.DB.WithContext(ctx).First(video, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, fmt.Errorf("find video %s: %w", id, err)
	}
	return video, nil
}

func (r *GormVideoRepo) ListByOwner(ctx context.Context, userID uuid.UUID) ([]entity.Video, error) {
	var videos []entity.Video
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND status <> ?", userID, entity.StatusDeleted).
		Order("uploaded_at DESC").
		Find(&videos).Error
	return videos, err
}

func (r *GormVideoRepo) ListPublished(ctx context.Context) ([]entity.Video, error) {
	var videos []entity.Video
	err := r.DB.WithContext(ctx).
		Where("status = ?", entity.StatusPublished).
		Order("votes DESC, id ASC").
		Find(&videos).Error
	return videos, err
}

func (r *GormVideoRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.VideoStatus) error {
	res := r.DB.WithContext(ctx).
		Model(&entity.Video{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}
