package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vidsnap/bot/internal/history"
	"github.com/vidsnap/bot/internal/progress"
	"github.com/vidsnap/bot/internal/testutil"
)

func newTestRouter(t *testing.T) (http.Handler, *history.Repository, *history.Job) {
	t.Helper()
	db := testutil.TestDB(t)
	job := testutil.CreateTestJob(t, db, "1001", "youtube", "https://youtu.be/abc", history.StatusDelivered)
	repo := history.NewRepository(db)
	router := NewRouter(repo, progress.NewHandler(progress.NewHub()), nil)
	return router, repo, job
}

func TestHealthEndpoint(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "OK" {
		t.Fatalf("expected body 'OK', got %q", w.Body.String())
	}
}

func TestListJobs(t *testing.T) {
	router, _, job := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/jobs", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Jobs []*history.Job `json:"jobs"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not valid JSON: %v\nbody: %s", err, w.Body.String())
	}
	if len(resp.Jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(resp.Jobs))
	}
	if resp.Jobs[0].ID != job.ID {
		t.Errorf("expected job ID %q, got %q", job.ID, resp.Jobs[0].ID)
	}
}

func TestGetJob(t *testing.T) {
	router, _, job := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/jobs/"+job.ID, nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var got history.Job
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("response is not valid JSON: %v\nbody: %s", err, w.Body.String())
	}
	if got.URL != job.URL {
		t.Errorf("expected URL %q, got %q", job.URL, got.URL)
	}
}

func TestGetJobNotFound(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/jobs/nonexistent", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not valid JSON: %v\nbody: %s", err, w.Body.String())
	}
	if resp["error"] == "" {
		t.Error("expected an error message in the response")
	}
}
