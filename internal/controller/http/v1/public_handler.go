package v1

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stivencardonauniandes/anb-rising-stars-showcase/internal/domain/entity"
	"github.com/stivencardonauniandes/anb-rising-stars-showcase/internal/domain/usecase"
)

type VoteUseCase interface {
	Vote(ctx context.Context, userID uuid.UUID, videoID string) (*usecase.VoteResult, error)
	HasVoted(ctx context.Context, userID uuid.UUID, videoID string) (bool, error)
	VotedVideoIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type RankingUseCase interface {
	GetRankings(ctx context.Context, q entity.RankingQuery) (*usecase.RankingPage, error)
	GetTop(ctx context.Context, limit int) (*usecase.TopResult, error)
	GetStats(ctx context.Context) (*entity.RankingStats, error)
}

type PublicHandler struct {
	Votes    VoteUseCase
	RankingsUC RankingUseCase
}

func NewPublicHandler(votes VoteUseCase, rankings RankingUseCase) *PublicHandler {
	return &PublicHandler{Votes: votes, RankingsUC: rankings}
}

func (h *PublicHandler) Vote(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := h.Votes.Vote(c.Request.Context(), userID, c.Param("video_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *PublicHandler) HasVoted(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	voted, err := h.Votes.HasVoted(c.Request.Context(), userID, c.Param("video_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"video_id": c.Param("video_id"), "has_voted": voted})
}

func (h *PublicHandler) MyVotes(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ids, err := h.Votes.VotedVideoIDs(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"video_ids": ids, "count": len(ids)})
}

func (h *PublicHandler) Rankings(c *gin.Context) {
	q := entity.RankingQuery{
		Page:         intQuery(c, "page", 1),
		Limit:        intQuery(c, "limit", 20),
		SortBy:       c.DefaultQuery("sort_by", entity.SortByVotes),
		SortOrder:    entity.SortOrder(c.DefaultQuery("sort_order", string(entity.SortDesc))),
		StatusFilter: c.Query("status_filter"),
	}
	if raw := c.Query("min_votes"); raw != "" {
		if minVotes, err := strconv.Atoi(raw); err == nil && minVotes >= 0 {
			q.MinVotes = &minVotes
		}
	}

	page, err := h.RankingsUC.GetRankings(c.Request.Context(), q)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *PublicHandler) Top(c *gin.Context) {
	result, err := h.RankingsUC.GetTop(c.Request.Context(), intQuery(c, "limit", 10))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *PublicHandler) Stats(c *gin.Context) {
	stats, err := h.RankingsUC.GetStats(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return val
}
