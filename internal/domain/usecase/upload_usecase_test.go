package usecase_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/stivencardonauniandes/anb-rising-stars-showcase/internal/domain/entity"
	"github.com/stivencardonauniandes/anb-rising-stars-showcase/internal/domain/usecase"
	"github.com/stivencardonauniandes/anb-rising-stars-showcase/internal/domain/usecase/mocks"
)

type uploadMocks struct {
	videos    *mocks.MockVideoRepo
	storage   *mocks.MockStorage
	publisher *mocks.MockTaskPublisher
	prober    *mocks.MockDurationProber
}

func newUploadUseCase(t *testing.T, tempDir string) (*usecase.UploadUseCase, uploadMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)

	m := uploadMocks{
		videos:    mocks.NewMockVideoRepo(ctrl),
		storage:   mocks.NewMockStorage(ctrl),
		publisher: mocks.NewMockTaskPublisher(ctrl),
		prober:    mocks.NewMockDurationProber(ctrl),
	}
	uc := usecase.NewUploadUseCase(m.videos, m.storage, m.publisher, m.prober, nil, zap.NewNop(), usecase.UploadConfig{
		TempDir:     tempDir,
		MinDuration: 20 * time.Second,
		MaxDuration: 60 * time.Second,
	})
	return uc, m
}

func validInput(userID uuid.UUID) usecase.UploadInput {
	return usecase.UploadInput{
		Reader:      strings.NewReader("fake video bytes"),
		Filename:    "dunk.mp4",
		ContentType: "video/mp4",
		Title:       "Best Dunk",
		UserID:      userID,
	}
}

func assertScratchDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read scratch dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("scratch dir not cleaned up, %d files left", len(entries))
	}
}

func TestUploadSubmit(t *testing.T) {
	userID := uuid.New()

	t.Run("accepts valid video and enqueues task", func(t *testing.T) {
		dir := t.TempDir()
		uc, m := newUploadUseCase(t, dir)

		m.prober.EXPECT().Duration(gomock.Any(), gomock.Any()).Return(30*time.Second, nil)
		m.storage.EXPECT().
			Upload(gomock.Any(), gomock.Any(), gomock.Any(), int64(len("fake video bytes")), "video/mp4").
			Return(nil)

		var created *entity.Video
		m.videos.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, v *entity.Video) error {
				created = v
				return nil
			})

		var published entity.TaskMessage
		m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, task entity.TaskMessage) error {
				published = task
				return nil
			})

		res, err := uc.Submit(context.Background(), validInput(userID))
		if err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
		if created == nil {
			t.Fatal("video row was not created")
		}
		if created.Status != entity.StatusUploaded {
			t.Errorf("status = %q, want %q", created.Status, entity.StatusUploaded)
		}
		if created.UserID != userID {
			t.Errorf("owner = %s, want %s", created.UserID, userID)
		}
		if published.VideoID != created.ID.String() {
			t.Errorf("task video_id = %q, want %q", published.VideoID, created.ID.String())
		}
		if published.SourcePath != created.OriginalURL {
			t.Errorf("task source_path = %q, want %q", published.SourcePath, created.OriginalURL)
		}
		if res.TaskID != published.TaskID {
			t.Errorf("result task_id = %q, want %q", res.TaskID, published.TaskID)
		}
		assertScratchDirEmpty(t, dir)
	})

	t.Run("rejects blank title", func(t *testing.T) {
		uc, _ := newUploadUseCase(t, t.TempDir())

		in := validInput(userID)
		in.Title = "   "
		if _, err := uc.Submit(context.Background(), in); !errors.Is(err, entity.ErrInvalidTitle) {
			t.Fatalf("Submit() error = %v, want ErrInvalidTitle", err)
		}
	})

	t.Run("rejects non-video content type", func(t *testing.T) {
		uc, _ := newUploadUseCase(t, t.TempDir())

		in := validInput(userID)
		in.ContentType = "image/png"
		if _, err := uc.Submit(context.Background(), in); !errors.Is(err, entity.ErrInvalidFileType) {
			t.Fatalf("Submit() error = %v, want ErrInvalidFileType", err)
		}
	})

	t.Run("rejects out-of-range duration and removes scratch file", func(t *testing.T) {
		for _, d := range []time.Duration{5 * time.Second, 90 * time.Second} {
			dir := t.TempDir()
			uc, m := newUploadUseCase(t, dir)
			m.prober.EXPECT().Duration(gomock.Any(), gomock.Any()).Return(d, nil)

			if _, err := uc.Submit(context.Background(), validInput(userID)); !errors.Is(err, entity.ErrInvalidVideoLength) {
				t.Fatalf("Submit() with duration %s error = %v, want ErrInvalidVideoLength", d, err)
			}
			assertScratchDirEmpty(t, dir)
		}
	})

	t.Run("wraps probe failures as file processing errors", func(t *testing.T) {
		dir := t.TempDir()
		uc, m := newUploadUseCase(t, dir)
		m.prober.EXPECT().Duration(gomock.Any(), gomock.Any()).Return(time.Duration(0), errors.New("ffprobe exploded"))

		if _, err := uc.Submit(context.Background(), validInput(userID)); !errors.Is(err, entity.ErrFileProcessing) {
			t.Fatalf("Submit() error = %v, want ErrFileProcessing", err)
		}
		assertScratchDirEmpty(t, dir)
	})

	t.Run("storage failure aborts before the record is created", func(t *testing.T) {
		dir := t.TempDir()
		uc, m := newUploadUseCase(t, dir)

		m.prober.EXPECT().Duration(gomock.Any(), gomock.Any()).Return(30*time.Second, nil)
		m.storage.EXPECT().
			Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("connection refused"))

		if _, err := uc.Submit(context.Background(), validInput(userID)); !errors.Is(err, entity.ErrStorageUpload) {
			t.Fatalf("Submit() error = %v, want ErrStorageUpload", err)
		}
		assertScratchDirEmpty(t, dir)
	})

	t.Run("queue failure keeps the video row", func(t *testing.T) {
		dir := t.TempDir()
		uc, m := newUploadUseCase(t, dir)

		m.prober.EXPECT().Duration(gomock.Any(), gomock.Any()).Return(30*time.Second, nil)
		m.storage.EXPECT().
			Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		var created *entity.Video
		m.videos.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, v *entity.Video) error {
				created = v
				return nil
			})
		m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

		if _, err := uc.Submit(context.Background(), validInput(userID)); !errors.Is(err, entity.ErrQueueUnavailable) {
			t.Fatalf("Submit() error = %v, want ErrQueueUnavailable", err)
		}
		if created == nil || created.Status != entity.StatusUploaded {
			t.Fatal("video row should stay committed in uploaded status")
		}
		assertScratchDirEmpty(t, dir)
	})
}
