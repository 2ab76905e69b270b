package history_test

import (
	"context"
	"errors"
	"testing"

	"github.com/vidsnap/bot/internal/history"
	"github.com/vidsnap/bot/internal/testutil"
)

func TestCreateAndGet(t *testing.T) {
	db := testutil.TestDB(t)
	repo := history.NewRepository(db)

	job := &history.Job{
		Scope:     "chat-1",
		Platform:  "youtube",
		URL:       "https://youtu.be/abc",
		Selection: "video",
		Height:    720,
	}
	if err := repo.Create(context.Background(), job); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if job.ID == "" {
		t.Fatal("Create did not assign an ID")
	}
	if job.Status != history.StatusPending {
		t.Errorf("Status = %q, want default %q", job.Status, history.StatusPending)
	}

	got, err := repo.GetByID(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.URL != job.URL || got.Height != 720 || got.Scope != "chat-1" {
		t.Errorf("GetByID = %+v, want fields of %+v", got, job)
	}
}

func TestSetStatus(t *testing.T) {
	db := testutil.TestDB(t)
	repo := history.NewRepository(db)
	job := testutil.CreateTestJob(t, db, "chat-1", "instagram", "https://www.instagram.com/reel/XYZ/", history.StatusPending)

	if err := repo.SetStatus(context.Background(), job.ID, history.StatusFailed, "media fetch failed"); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	got, err := repo.GetByID(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != history.StatusFailed {
		t.Errorf("Status = %q, want %q", got.Status, history.StatusFailed)
	}
	if got.Error != "media fetch failed" {
		t.Errorf("Error = %q, want recorded message", got.Error)
	}
}

func TestSetStatusUnknownJob(t *testing.T) {
	db := testutil.TestDB(t)
	repo := history.NewRepository(db)

	err := repo.SetStatus(context.Background(), "no-such-id", history.StatusDelivered, "")
	if !errors.Is(err, history.ErrJobNotFound) {
		t.Errorf("SetStatus on unknown job = %v, want ErrJobNotFound", err)
	}
}

func TestRecentOrderAndLimit(t *testing.T) {
	db := testutil.TestDB(t)
	repo := history.NewRepository(db)

	for i := 0; i < 5; i++ {
		testutil.CreateTestJob(t, db, "chat-1", "youtube", "https://youtu.be/abc", history.StatusDelivered)
	}
	last := testutil.CreateTestJob(t, db, "chat-2", "youtube", "https://youtu.be/zzz", history.StatusDelivered)

	jobs, err := repo.Recent(context.Background(), 3)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("Recent returned %d jobs, want 3", len(jobs))
	}
	if jobs[0].ID != last.ID {
		t.Errorf("Recent[0].ID = %s, want newest job %s", jobs[0].ID, last.ID)
	}
}
