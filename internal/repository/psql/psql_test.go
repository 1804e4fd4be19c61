package psql_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/stivencardonauniandes/anb-rising-stars-showcase/internal/domain/entity"
	"github.com/stivencardonauniandes/anb-rising-stars-showcase/internal/repository/psql"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&entity.User{}, &entity.Video{}, &entity.Vote{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, first, last string) entity.User {
	t.Helper()
	u := entity.User{
		ID:        uuid.New(),
		Email:     fmt.Sprintf("%s.%s.%s@example.com", first, last, uuid.NewString()[:8]),
		FirstName: first,
		LastName:  last,
		Password:  "hashed",
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedVideo(t *testing.T, db *gorm.DB, owner uuid.UUID, status entity.VideoStatus, votes int) entity.Video {
	t.Helper()
	v := entity.Video{
		ID:          uuid.New(),
		UserID:      owner,
		RawVideoID:  uuid.New(),
		Title:       "clip",
		Status:      status,
		OriginalURL: "/raw/clip.mp4",
		Votes:       votes,
	}
	if err := db.Create(&v).Error; err != nil {
		t.Fatalf("seed video: %v", err)
	}
	return v
}

func TestVideoRepo(t *testing.T) {
	ctx := context.Background()

	t.Run("FindByID maps missing rows to ErrNotFound", func(t *testing.T) {
		repo := psql.NewGormVideoRepo(newTestDB(t))

		if _, err := repo.FindByID(ctx, uuid.New()); !errors.Is(err, entity.ErrNotFound) {
			t.Fatalf("FindByID() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("ListByOwner excludes deleted videos", func(t *testing.T) {
		db := newTestDB(t)
		repo := psql.NewGormVideoRepo(db)
		owner := seedUser(t, db, "Ana", "Gomez")
		other := seedUser(t, db, "Luis", "Reyes")

		seedVideo(t, db, owner.ID, entity.StatusUploaded, 0)
		seedVideo(t, db, owner.ID, entity.StatusProcessed, 2)
		seedVideo(t, db, owner.ID, entity.StatusDeleted, 1)
		seedVideo(t, db, other.ID, entity.StatusUploaded, 0)

		videos, err := repo.ListByOwner(ctx, owner.ID)
		if err != nil {
			t.Fatalf("ListByOwner() error = %v", err)
		}
		if len(videos) != 2 {
			t.Fatalf("videos = %d, want 2 (deleted and foreign excluded)", len(videos))
		}
		for _, v := range videos {
			if v.UserID != owner.ID || v.Status == entity.StatusDeleted {
				t.Errorf("unexpected row: owner=%s status=%s", v.UserID, v.Status)
			}
		}
	})

	t.Run("ListPublished orders by votes with id tie-break", func(t *testing.T) {
		db := newTestDB(t)
		repo := psql.NewGormVideoRepo(db)
		owner := seedUser(t, db, "Ana", "Gomez")

		seedVideo(t, db, owner.ID, entity.StatusPublished, 3)
		seedVideo(t, db, owner.ID, entity.StatusPublished, 7)
		seedVideo(t, db, owner.ID, entity.StatusPublished, 3)
		seedVideo(t, db, owner.ID, entity.StatusProcessed, 99)

		videos, err := repo.ListPublished(ctx)
		if err != nil {
			t.Fatalf("ListPublished() error = %v", err)
		}
		if len(videos) != 3 {
			t.Fatalf("videos = %d, want 3 published", len(videos))
		}
		if videos[0].Votes != 7 {
			t.Errorf("first row votes = %d, want 7", videos[0].Votes)
		}
		if videos[1].ID.String() > videos[2].ID.String() {
			t.Error("tied rows not ordered by id ascending")
		}
	})

	t.Run("UpdateStatus reports missing rows", func(t *testing.T) {
		db := newTestDB(t)
		repo := psql.NewGormVideoRepo(db)
		owner := seedUser(t, db, "Ana", "Gomez")
		v := seedVideo(t, db, owner.ID, entity.StatusUploaded, 0)

		if err := repo.UpdateStatus(ctx, v.ID, entity.StatusDeleted); err != nil {
			t.Fatalf("UpdateStatus() error = %v", err)
		}
		got, err := repo.FindByID(ctx, v.ID)
		if err != nil {
			t.Fatalf("FindByID() error = %v", err)
		}
		if got.Status != entity.StatusDeleted {
			t.Errorf("status = %q, want deleted", got.Status)
		}

		if err := repo.UpdateStatus(ctx, uuid.New(), entity.StatusDeleted); !errors.Is(err, entity.ErrNotFound) {
			t.Fatalf("UpdateStatus() on missing row error = %v, want ErrNotFound", err)
		}
	})
}

func TestCastVote(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := psql.NewGormVoteRepo(db)

	owner := seedUser(t, db, "Ana", "Gomez")
	voter := seedUser(t, db, "Luis", "Reyes")
	video := seedVideo(t, db, owner.ID, entity.StatusPublished, 0)

	total, err := repo.CastVote(ctx, voter.ID, video.ID)
	if err != nil {
		t.Fatalf("CastVote() error = %v", err)
	}
	if total != 1 {
		t.Errorf("total = %d, want 1", total)
	}

	// The composite key rejects the duplicate and leaves the counter alone.
	if _, err := repo.CastVote(ctx, voter.ID, video.ID); !errors.Is(err, entity.ErrAlreadyVoted) {
		t.Fatalf("second CastVote() error = %v, want ErrAlreadyVoted", err)
	}

	var votes int
	if err := db.Model(&entity.Video{}).Select("votes").Where("id = ?", video.ID).Scan(&votes).Error; err != nil {
		t.Fatalf("read counter: %v", err)
	}
	if votes != 1 {
		t.Errorf("counter = %d after duplicate vote, want 1", votes)
	}

	voted, err := repo.HasVoted(ctx, voter.ID, video.ID)
	if err != nil {
		t.Fatalf("HasVoted() error = %v", err)
	}
	if !voted {
		t.Error("HasVoted() = false after a cast vote")
	}

	ids, err := repo.VideoIDsByUser(ctx, voter.ID)
	if err != nil {
		t.Fatalf("VideoIDsByUser() error = %v", err)
	}
	if len(ids) != 1 || ids[0] != video.ID {
		t.Errorf("voted ids = %v, want [%s]", ids, video.ID)
	}
}

func TestRankingList(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := psql.NewGormRankingRepo(db)
	owner := seedUser(t, db, "Ana", "Gomez")

	for i := 0; i < 25; i++ {
		seedVideo(t, db, owner.ID, entity.StatusPublished, 25-i)
	}
	seedVideo(t, db, owner.ID, entity.StatusDeleted, 1000)

	t.Run("pages deterministically", func(t *testing.T) {
		videos, total, err := repo.List(ctx, entity.RankingQuery{
			Page:      2,
			Limit:     10,
			SortBy:    entity.SortByVotes,
			SortOrder: entity.SortDesc,
		})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if total != 25 {
			t.Errorf("total = %d, want 25 (deleted excluded)", total)
		}
		if len(videos) != 10 {
			t.Fatalf("rows = %d, want 10", len(videos))
		}
		if videos[0].Votes != 15 {
			t.Errorf("page 2 starts at %d votes, want 15", videos[0].Votes)
		}
		if videos[0].OwnerFirstName != "Ana" || videos[0].OwnerLastName != "Gomez" {
			t.Errorf("owner = %q %q, want Ana Gomez", videos[0].OwnerFirstName, videos[0].OwnerLastName)
		}
	})

	t.Run("min votes filter", func(t *testing.T) {
		minVotes := 20
		videos, total, err := repo.List(ctx, entity.RankingQuery{
			Page:      1,
			Limit:     100,
			SortBy:    entity.SortByVotes,
			SortOrder: entity.SortDesc,
			MinVotes:  &minVotes,
		})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if total != 6 || len(videos) != 6 {
			t.Errorf("total/rows = %d/%d, want 6/6 with >= 20 votes", total, len(videos))
		}
	})

	t.Run("status filter", func(t *testing.T) {
		seedVideo(t, db, owner.ID, entity.StatusUploaded, 0)

		_, total, err := repo.List(ctx, entity.RankingQuery{
			Page:         1,
			Limit:        10,
			SortBy:       entity.SortByVotes,
			SortOrder:    entity.SortDesc,
			StatusFilter: string(entity.StatusUploaded),
		})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if total != 1 {
			t.Errorf("total = %d, want 1 uploaded video", total)
		}
	})

	t.Run("equal votes order by id ascending", func(t *testing.T) {
		db := newTestDB(t)
		repo := psql.NewGormRankingRepo(db)
		owner := seedUser(t, db, "Ana", "Gomez")
		for i := 0; i < 5; i++ {
			seedVideo(t, db, owner.ID, entity.StatusPublished, 10)
		}

		videos, _, err := repo.List(ctx, entity.RankingQuery{
			Page:      1,
			Limit:     5,
			SortBy:    entity.SortByVotes,
			SortOrder: entity.SortDesc,
		})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		for i := 1; i < len(videos); i++ {
			if videos[i-1].ID.String() >= videos[i].ID.String() {
				t.Fatalf("rows %d and %d not in id order", i-1, i)
			}
		}
	})
}

func TestRankingTop(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := psql.NewGormRankingRepo(db)
	owner := seedUser(t, db, "Ana", "Gomez")

	seedVideo(t, db, owner.ID, entity.StatusPublished, 9)
	seedVideo(t, db, owner.ID, entity.StatusProcessed, 7)
	seedVideo(t, db, owner.ID, entity.StatusUploaded, 100)
	seedVideo(t, db, owner.ID, entity.StatusDeleted, 100)
	orphan := seedVideo(t, db, uuid.New(), entity.StatusPublished, 5)

	videos, err := repo.Top(ctx, 10)
	if err != nil {
		t.Fatalf("Top() error = %v", err)
	}
	if len(videos) != 3 {
		t.Fatalf("rows = %d, want 3 (uploaded and deleted excluded)", len(videos))
	}
	if videos[0].Votes != 9 || videos[0].UserName != "Ana Gomez" {
		t.Errorf("first = %d votes by %q, want 9 by Ana Gomez", videos[0].Votes, videos[0].UserName)
	}
	if videos[2].ID != orphan.ID || videos[2].UserName != "Unknown User" {
		t.Errorf("ownerless video name = %q, want Unknown User", videos[2].UserName)
	}
}

func TestRankingStats(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := psql.NewGormRankingRepo(db)
	owner := seedUser(t, db, "Ana", "Gomez")

	seedVideo(t, db, owner.ID, entity.StatusPublished, 6)
	seedVideo(t, db, owner.ID, entity.StatusProcessed, 3)
	seedVideo(t, db, owner.ID, entity.StatusUploaded, 0)
	seedVideo(t, db, owner.ID, entity.StatusDeleted, 50)

	stats, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalVideos != 3 {
		t.Errorf("total videos = %d, want 3", stats.TotalVideos)
	}
	if stats.TotalVotes != 9 {
		t.Errorf("total votes = %d, want 9", stats.TotalVotes)
	}
	if stats.ProcessedVideos != 1 {
		t.Errorf("processed = %d, want 1", stats.ProcessedVideos)
	}
	if stats.TopVotes != 6 {
		t.Errorf("top votes = %d, want 6", stats.TopVotes)
	}
	if stats.AverageVotes != 3 {
		t.Errorf("average = %v, want 3", stats.AverageVotes)
	}
}
