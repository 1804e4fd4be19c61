package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/stivencardonauniandes/anb-rising-stars-showcase/internal/domain/entity"
)

const (
	maxRankingLimit     = 100
	defaultRankingLimit = 20
	maxTopLimit         = 50
	defaultTopLimit     = 10
)

type RankingTTLs struct {
	Rankings time.Duration
	Top      time.Duration
	Stats    time.Duration
}

type Pagination struct {
	CurrentPage  int  `json:"current_page"`
	TotalPages   int  `json:"total_pages"`
	TotalItems   int  `json:"total_items"`
	ItemsPerPage int  `json:"items_per_page"`
	HasNext      bool `json:"has_next"`
	HasPrev      bool `json:"has_prev"`
	NextPage     *int `json:"next_page"`
	PrevPage     *int `json:"prev_page"`
}

type RankingFilters struct {
	SortBy       string `json:"sort_by"`
	SortOrder    string `json:"sort_order"`
	StatusFilter string `json:"status_filter,omitempty"`
	MinVotes     *int   `json:"min_votes,omitempty"`
}

type RankingPage struct {
	Videos      []entity.RankedVideo `json:"videos"`
	Pagination  Pagination           `json:"pagination"`
	Filters     RankingFilters       `json:"filters"`
	GeneratedAt time.Time            `json:"generated_at"`
}

type TopResult struct {
	TopVideos []entity.TopVideo `json:"top_videos"`
	Count     int               `json:"count"`
	Limit     int               `json:"limit"`
}

// RankingUseCase serves the ranking read paths cache-aside: read the cached
// view first, compute from the record store on a miss and write back with a
// bounded TTL. All three views live under the rankings: key prefix so a vote
// can invalidate them together.
type RankingUseCase struct {
	rankings RankingRepo
	cache    Cache
	metrics  Metrics
	logger   *zap.Logger
	ttls     RankingTTLs
}

func NewRankingUseCase(rankings RankingRepo, cache Cache, metrics Metrics, logger *zap.Logger, ttls RankingTTLs) *RankingUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttls.Rankings <= 0 {
		ttls.Rankings = 5 * time.Minute
	}
	if ttls.Top <= 0 {
		ttls.Top = time.Minute
	}
	if ttls.Stats <= 0 {
		ttls.Stats = 30 * time.Second
	}
	return &RankingUseCase{
		rankings: rankings,
		cache:    cache,
		metrics:  metrics,
		logger:   logger,
		ttls:     ttls,
	}
}

func (u *RankingUseCase) GetRankings(ctx context.Context, q entity.RankingQuery) (*RankingPage, error) {
	q = normalizeQuery(q)
	key := rankingsListKey(q)

	var cached RankingPage
	if ok, _ := u.cache.Get(ctx, key, &cached); ok {
		u.incCache("rankings", "hit")
		return &cached, nil
	}
	u.incCache("rankings", "miss")

	videos, total, err := u.rankings.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list rankings: %w", err)
	}

	// Global rank is page offset + row index; it is stable only under a
	// fixed sort and page size, which the id tie-break in the repository
	// makes deterministic.
	offset := (q.Page - 1) * q.Limit
	for i := range videos {
		videos[i].Rank = offset + i + 1
	}

	totalPages := int((total + int64(q.Limit) - 1) / int64(q.Limit))
	page := &RankingPage{
		Videos: videos,
		Pagination: Pagination{
			CurrentPage:  q.Page,
			TotalPages:   totalPages,
			TotalItems:   int(total),
			ItemsPerPage: q.Limit,
			HasNext:      q.Page < totalPages,
			HasPrev:      q.Page > 1,
		},
		Filters: RankingFilters{
			SortBy:       q.SortBy,
			SortOrder:    string(q.SortOrder),
			StatusFilter: q.StatusFilter,
			MinVotes:     q.MinVotes,
		},
		GeneratedAt: time.Now().UTC(),
	}
	if page.Pagination.HasNext {
		next := q.Page + 1
		page.Pagination.NextPage = &next
	}
	if page.Pagination.HasPrev {
		prev := q.Page - 1
		page.Pagination.PrevPage = &prev
	}

	if err := u.cache.Set(ctx, key, page, u.ttls.Rankings); err != nil {
		u.logger.Warn("failed to cache rankings page", zap.String("key", key), zap.Error(err))
	}
	return page, nil
}

// GetTop serves the top-N view. It is requested far more often than the
// paginated rankings, so it carries a shorter TTL.
func (u *RankingUseCase) GetTop(ctx context.Context, limit int) (*TopResult, error) {
	if limit < 1 {
		limit = defaultTopLimit
	}
	if limit > maxTopLimit {
		limit = maxTopLimit
	}
	key := fmt.Sprintf("rankings:top:%d", limit)

	var cached TopResult
	if ok, _ := u.cache.Get(ctx, key, &cached); ok {
		u.incCache("top", "hit")
		return &cached, nil
	}
	u.incCache("top", "miss")

	videos, err := u.rankings.Top(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list top videos: %w", err)
	}
	for i := range videos {
		videos[i].Rank = i + 1
	}

	result := &TopResult{TopVideos: videos, Count: len(videos), Limit: limit}
	if err := u.cache.Set(ctx, key, result, u.ttls.Top); err != nil {
		u.logger.Warn("failed to cache top videos", zap.String("key", key), zap.Error(err))
	}
	return result, nil
}

func (u *RankingUseCase) GetStats(ctx context.Context) (*entity.RankingStats, error) {
	const key = "rankings:stats"

	var cached entity.RankingStats
	if ok, _ := u.cache.Get(ctx, key, &cached); ok {
		u.incCache("stats", "hit")
		return &cached, nil
	}
	u.incCache("stats", "miss")

	stats, err := u.rankings.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("compute ranking stats: %w", err)
	}
	stats.AverageVotes = math.Round(stats.AverageVotes*100) / 100

	if err := u.cache.Set(ctx, key, stats, u.ttls.Stats); err != nil {
		u.logger.Warn("failed to cache ranking stats", zap.Error(err))
	}
	return stats, nil
}

func (u *RankingUseCase) incCache(view, result string) {
	if u.metrics != nil {
		u.metrics.IncCacheRequest(view, result)
	}
}

func normalizeQuery(q entity.RankingQuery) entity.RankingQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultRankingLimit
	}
	if q.Limit > maxRankingLimit {
		q.Limit = maxRankingLimit
	}
	switch q.SortBy {
	case entity.SortByVotes, entity.SortByUploadedAt, entity.SortByTitle:
	default:
		q.SortBy = entity.SortByVotes
	}
	if q.SortOrder != entity.SortAsc {
		q.SortOrder = entity.SortDesc
	}
	if q.StatusFilter != "" && !entity.ValidStatusFilter(q.StatusFilter) {
		q.StatusFilter = ""
	}
	if q.MinVotes != nil && *q.MinVotes < 0 {
		q.MinVotes = nil
	}
	return q
}

// rankingsListKey folds the whole query tuple into the cache key so distinct
// filter/sort/page combinations never collide.
func rankingsListKey(q entity.RankingQuery) string {
	status := q.StatusFilter
	if status == "" {
		status = "all"
	}
	minVotes := "any"
	if q.MinVotes != nil {
		minVotes = fmt.Sprintf("%d", *q.MinVotes)
	}
	return fmt.Sprintf("rankings:list:%s:%s:%s:%s:page:%d:limit:%d",
		q.SortBy, q.SortOrder, status, minVotes, q.Page, q.Limit)
}
