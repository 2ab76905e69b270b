package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/vidsnap/bot/internal/database"
	"github.com/vidsnap/bot/internal/history"
)

// TestDB creates an in-memory sqlite database with migrations applied.
// The database is automatically closed when the test completes.
func TestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		t.Fatalf("running migrations: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db.DB
}

// CreateTestJob inserts a job row and returns it.
func CreateTestJob(t *testing.T, db *sql.DB, scope, platform, url string, status history.Status) *history.Job {
	t.Helper()

	repo := history.NewRepository(db)
	job := &history.Job{
		Scope:     scope,
		Platform:  platform,
		URL:       url,
		Selection: "video",
		Height:    720,
		Status:    status,
	}
	if err := repo.Create(context.Background(), job); err != nil {
		t.Fatalf("creating test job: %v", err)
	}
	return job
}
