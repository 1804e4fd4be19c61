package usecase

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stivencardonauniandes/anb-rising-stars-showcase/internal/domain/entity"
)

const uploadAcceptedMessage = "video uploaded successfully, processing in progress"

type UploadConfig struct {
	TempDir       string
	MinDuration   time.Duration
	MaxDuration   time.Duration
	UploadTimeout time.Duration
}

type UploadInput struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Title       string
	UserID      uuid.UUID
}

type UploadResult struct {
	Message string `json:"message"`
	TaskID  string `json:"task_id"`
	VideoID string `json:"video_id"`
}

type UploadUseCase struct {
	videos    VideoRepo
	storage   Storage
	publisher TaskPublisher
	prober    DurationProber
	metrics   Metrics
	logger    *zap.Logger
	cfg       UploadConfig
}

func NewUploadUseCase(videos VideoRepo, storage Storage, publisher TaskPublisher, prober DurationProber, metrics Metrics, logger *zap.Logger, cfg UploadConfig) *UploadUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	return &UploadUseCase{
		videos:    videos,
		storage:   storage,
		publisher: publisher,
		prober:    prober,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
	}
}

// Submit runs the upload pipeline: validate, stash to a scratch file, probe
// duration, push to durable storage, create the video row, enqueue the
// processing task. The scratch file is removed on every exit path. Once the
// row is committed a queue failure does not roll it back; the row stays in
// uploaded status as a re-discoverable orphan.
func (u *UploadUseCase) Submit(ctx context.Context, in UploadInput) (*UploadResult, error) {
	started := time.Now()

	title := strings.TrimSpace(in.Title)
	if title == "" {
		u.incFailure("validation")
		return nil, entity.ErrInvalidTitle
	}
	if !strings.HasPrefix(in.ContentType, "video/") {
		u.incFailure("validation")
		return nil, entity.ErrInvalidFileType
	}

	tempPath, err := u.saveScratchFile(in.Reader, in.Filename)
	if err != nil {
		u.logger.Error("failed to save scratch file", zap.Error(err))
		u.incFailure("scratch")
		return nil, fmt.Errorf("%w: %v", entity.ErrFileProcessing, err)
	}
	defer u.removeScratchFile(tempPath)

	duration, err := u.prober.Duration(ctx, tempPath)
	if err != nil {
		u.logger.Error("failed to probe video duration", zap.String("path", tempPath), zap.Error(err))
		u.incFailure("probe")
		return nil, fmt.Errorf("%w: %v", entity.ErrFileProcessing, err)
	}
	if duration < u.cfg.MinDuration || duration > u.cfg.MaxDuration {
		u.logger.Warn("video duration out of range",
			zap.Duration("duration", duration),
			zap.Duration("min", u.cfg.MinDuration),
			zap.Duration("max", u.cfg.MaxDuration))
		u.incFailure("validation")
		return nil, entity.ErrInvalidVideoLength
	}

	// The task id doubles as the remote filename disambiguator so the stored
	// object and the queue message stay traceable to each other.
	taskID := uuid.New()
	remotePath := "/raw/" + title + taskID.String() + filepath.Ext(in.Filename)

	if err := u.uploadScratchFile(ctx, tempPath, remotePath, in.ContentType); err != nil {
		u.logger.Error("storage upload failed",
			zap.String("remote_path", remotePath),
			zap.String("task_id", taskID.String()),
			zap.Error(err))
		u.incFailure("storage")
		return nil, entity.ErrStorageUpload
	}

	video := &entity.Video{
		ID:          uuid.New(),
		UserID:      in.UserID,
		RawVideoID:  taskID,
		Title:       title,
		Status:      entity.StatusUploaded,
		OriginalURL: remotePath,
	}
	if err := u.videos.Create(ctx, video); err != nil {
		u.logger.Error("failed to create video record",
			zap.String("task_id", taskID.String()),
			zap.Error(err))
		u.incFailure("record")
		return nil, fmt.Errorf("create video record: %w", err)
	}

	task := entity.TaskMessage{
		TaskID:     taskID.String(),
		VideoID:    video.ID.String(),
		SourcePath: remotePath,
		Attempt:    0,
	}
	if err := u.publisher.Publish(ctx, task); err != nil {
		// The row is intentionally kept: a durable orphan beats a silent loss.
		u.logger.Error("task enqueue failed, video row kept in uploaded status",
			zap.String("task_id", taskID.String()),
			zap.String("video_id", video.ID.String()),
			zap.Error(err))
		u.incFailure("queue")
		return nil, entity.ErrQueueUnavailable
	}

	if u.metrics != nil {
		u.metrics.IncUpload(string(entity.StatusUploaded))
		u.metrics.ObserveUploadDuration(time.Since(started))
	}
	u.logger.Info("video upload accepted",
		zap.String("video_id", video.ID.String()),
		zap.String("task_id", taskID.String()),
		zap.String("remote_path", remotePath),
		zap.Duration("duration", duration))

	return &UploadResult{
		Message: uploadAcceptedMessage,
		TaskID:  taskID.String(),
		VideoID: video.ID.String(),
	}, nil
}

func (u *UploadUseCase) incFailure(stage string) {
	if u.metrics != nil {
		u.metrics.IncUploadFailure(stage)
	}
}

// saveScratchFile streams the request body to local scratch storage under a
// name embedding a fresh id, so concurrent uploads of identically named
// files never collide.
func (u *UploadUseCase) saveScratchFile(r io.Reader, filename string) (string, error) {
	name := fmt.Sprintf("upload_%s_%s", uuid.New().String(), filepath.Base(filename))
	path := filepath.Join(u.cfg.TempDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}

func (u *UploadUseCase) removeScratchFile(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		u.logger.Warn("failed to remove scratch file", zap.String("path", path), zap.Error(err))
	}
}

func (u *UploadUseCase) uploadScratchFile(ctx context.Context, tempPath, remotePath, contentType string) error {
	f, err := os.Open(tempPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	upCtx := ctx
	if u.cfg.UploadTimeout > 0 {
		var cancel context.CancelFunc
		upCtx, cancel = context.WithTimeout(ctx, u.cfg.UploadTimeout)
		defer cancel()
	}

	return u.storage.Upload(upCtx, remotePath, f, info.Size(), contentType)
}
