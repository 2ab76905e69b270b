// Package history keeps an audit log of completed and failed download
// jobs. In-flight selection state is deliberately memory-only; only job
// outcomes are persisted.
package history

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
)

var ErrJobNotFound = errors.New("job not found")

type Status string

const (
	StatusPending     Status = "pending"
	StatusDownloading Status = "downloading"
	StatusDelivered   Status = "delivered"
	StatusFailed      Status = "failed"
)

type Job struct {
	ID        string    `json:"id"`
	Scope     string    `json:"scope"`
	Platform  string    `json:"platform"`
	URL       string    `json:"url"`
	Selection string    `json:"selection"`
	Height    int       `json:"height,omitempty"`
	Status    Status    `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, job *Job) error {
	job.ID = ulid.Make().String()
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now
	if job.Status == "" {
		job.Status = StatusPending
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO jobs (id, scope, platform, url, selection, height, status, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, job.ID, job.Scope, job.Platform, job.URL, job.Selection, job.Height, job.Status, job.Error,
		now.Format(time.RFC3339), now.Format(time.RFC3339))
	return err
}

// SetStatus moves a job to status, recording errMsg for failed jobs.
func (r *Repository) SetStatus(ctx context.Context, id string, status Status, errMsg string) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE jobs SET status = ?, error = ?, updated_at = ? WHERE id = ?
	`, status, errMsg, now.Format(time.RFC3339), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrJobNotFound
	}
	return nil
}

// Recent returns the most recently created jobs, newest first.
func (r *Repository) Recent(ctx context.Context, limit int) ([]*Job, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, scope, platform, url, selection, height, status, error, created_at, updated_at
		FROM jobs
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Job, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, scope, platform, url, selection, height, status, error, created_at, updated_at
		FROM jobs WHERE id = ?
	`, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrJobNotFound
	}
	return job, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(s scanner) (*Job, error) {
	var job Job
	var createdAt, updatedAt string
	err := s.Scan(&job.ID, &job.Scope, &job.Platform, &job.URL, &job.Selection,
		&job.Height, &job.Status, &job.Error, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	job.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	job.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &job, nil
}
