package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stivencardonauniandes/anb-rising-stars-showcase/internal/domain/entity"
	"github.com/stivencardonauniandes/anb-rising-stars-showcase/internal/domain/usecase"
)

type UploadUseCase interface {
	Submit(ctx context.Context, in usecase.UploadInput) (*usecase.UploadResult, error)
}

type VideoUseCase interface {
	ListForOwner(ctx context.Context, userID uuid.UUID) ([]entity.Video, error)
	ListPublished(ctx context.Context) ([]entity.Video, error)
	Get(ctx context.Context, videoID string, userID uuid.UUID) (*entity.Video, error)
	Delete(ctx context.Context, videoID string, userID uuid.UUID) error
}

type VideoHandler struct {
	Uploads UploadUseCase
	Videos  VideoUseCase
}

func NewVideoHandler(uploads UploadUseCase, videos VideoUseCase) *VideoHandler {
	return &VideoHandler{Uploads: uploads, Videos: videos}
}

func (h *VideoHandler) Upload(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	title := c.PostForm("title")

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
		return
	}
	defer func() {
		_ = f.Close()
	}()

	result, err := h.Uploads.Submit(c.Request.Context(), usecase.UploadInput{
		Reader:      f,
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Title:       title,
		UserID:      userID,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *VideoHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	videos, err := h.Videos.ListForOwner(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"videos": videos, "count": len(videos)})
}

func (h *VideoHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	video, err := h.Videos.Get(c.Request.Context(), c.Param("video_id"), userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, video)
}

func (h *VideoHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.Videos.Delete(c.Request.Context(), c.Param("video_id"), userID); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "video deleted successfully"})
}

func (h *VideoHandler) ListPublished(c *gin.Context) {
	videos, err := h.Videos.ListPublished(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"videos": videos, "count": len(videos)})
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetString("user_id")
	if raw == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user_id required"})
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid user identity"})
		return uuid.Nil, false
	}
	return id, true
}
