// Package ingest mirrors the upstream service catalog into the local store.
package ingest

import (
	"context"
	"errors"
	"time"

	"homeservices/internal/platform/upstream"
)

type Status string

const (
	StatusRunning   Status = "RUNNING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

var (
	ErrAlreadyRunning = errors.New("sync already running")
	ErrNoRuns         = errors.New("no sync runs yet")
)

// Run is the audit row of one sync.
type Run struct {
	ID         string     `json:"id"`
	Status     Status     `json:"status"`
	Source     string     `json:"source"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Fetched    int        `json:"fetched"`
	Created    int        `json:"created"`
	Updated    int        `json:"updated"`
	Skipped    int        `json:"skipped"`
	Error      string     `json:"error,omitempty"`
}

// Fetcher reads the upstream snapshot.
type Fetcher interface {
	FetchServices(ctx context.Context) ([]upstream.Record, error)
}

type Repository interface {
	CreateRun(ctx context.Context, run *Run) error
	UpdateRun(ctx context.Context, run *Run) error
	LatestRun(ctx context.Context) (Run, error)
}
