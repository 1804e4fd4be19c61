package psql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stivencardonauniandes/anb-rising-stars-showcase/internal/domain/entity"
)

type GormRankingRepo struct {
	DB *gorm.DB
}

func NewGormRankingRepo(db *gorm.DB) *GormRankingRepo {
	return &GormRankingRepo{DB: db}
}

// sortColumns whitelists the sortable fields; the query normalization in the
// usecase guarantees membership, this map keeps raw input out of the ORDER BY
// regardless.
var sortColumns = map[string]string{
	entity.SortByVotes:      "videos.votes",
	entity.SortByUploadedAt: "videos.uploaded_at",
	entity.SortByTitle:      "videos.title",
}

func (r *GormRankingRepo) List(ctx context.Context, q entity.RankingQuery) ([]entity.RankedVideo, int64, error) {
	filtered := func() *gorm.DB {
		tx := r.DB.WithContext(ctx).
			Model(&entity.Video{}).
			Where("videos.status <> ?", entity.StatusDeleted)
		if q.StatusFilter != "" {
			tx = tx.Where("videos.status = ?", q.StatusFilter)
		}
		if q.MinVotes != nil {
			tx = tx.Where("videos.votes >= ?", *q.MinVotes)
		}
		return tx
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count ranked videos: %w", err)
	}

	column, ok := sortColumns[q.SortBy]
	if !ok {
		column = sortColumns[entity.SortByVotes]
	}
	direction := "DESC"
	if q.SortOrder == entity.SortAsc {
		direction = "ASC"
	}
	// Equal sort keys page deterministically thanks to the id tie-break.
	orderClause := fmt.Sprintf("%s %s, videos.id ASC", column, direction)

	offset := (q.Page - 1) * q.Limit

	var videos []entity.RankedVideo
	err := filtered().
		Select(strings.Join([]string{
			"videos.id",
			"videos.title",
			"videos.status",
			"videos.votes",
			"videos.uploaded_at",
			"videos.processed_at",
			"videos.original_url",
			"videos.processed_url",
			"videos.user_id AS owner_id",
			"users.first_name AS owner_first_name",
			"users.last_name AS owner_last_name",
			"users.city AS owner_city",
			"users.country AS owner_country",
		}, ", ")).
		Joins("LEFT JOIN users ON users.id = videos.user_id").
		Order(orderClause).
		Offset(offset).
		Limit(q.Limit).
		Scan(&videos).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list ranked videos: %w", err)
	}

	return videos, total, nil
}

type topRow struct {
	ID         uuid.UUID
	Title      string
	Votes      int
	FirstName  string
	LastName   string
	UploadedAt time.Time
}

func (r *GormRankingRepo) Top(ctx context.Context, limit int) ([]entity.TopVideo, error) {
	var rows []topRow
	err := r.DB.WithContext(ctx).
		Model(&entity.Video{}).
		Select("videos.id, videos.title, videos.votes, videos.uploaded_at, users.first_name, users.last_name").
		Joins("LEFT JOIN users ON users.id = videos.user_id").
		Where("videos.status IN ?", []entity.VideoStatus{entity.StatusProcessed, entity.StatusPublished}).
		Order("videos.votes DESC, videos.id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list top videos: %w", err)
	}

	videos := make([]entity.TopVideo, 0, len(rows))
	for _, row := range rows {
		name := strings.TrimSpace(row.FirstName + " " + row.LastName)
		if name == "" {
			name = "Unknown User"
		}
		videos = append(videos, entity.TopVideo{
			ID:         row.ID,
			Title:      row.Title,
			Votes:      row.Votes,
			UserName:   name,
			UploadedAt: row.UploadedAt,
		})
	}
	return videos, nil
}

func (r *GormRankingRepo) Stats(ctx context.Context) (*entity.RankingStats, error) {
	stats := &entity.RankingStats{}
	active := func() *gorm.DB {
		return r.DB.WithContext(ctx).
			Model(&entity.Video{}).
			Where("status <> ?", entity.StatusDeleted)
	}

	if err := active().Count(&stats.TotalVideos).Error; err != nil {
		return nil, err
	}
	if err := active().Select("COALESCE(SUM(votes), 0)").Scan(&stats.TotalVotes).Error; err != nil {
		return nil, err
	}
	if err := r.DB.WithContext(ctx).
		Model(&entity.Video{}).
		Where("status = ?", entity.StatusProcessed).
		Count(&stats.ProcessedVideos).Error; err != nil {
		return nil, err
	}
	if err := active().Select("COALESCE(MAX(votes), 0)").Scan(&stats.TopVotes).Error; err != nil {
		return nil, err
	}

	if stats.TotalVideos > 0 {
		stats.AverageVotes = float64(stats.TotalVotes) / float64(stats.TotalVideos)
	}
	return stats, nil
}
