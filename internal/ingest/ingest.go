package ingest

import (
	"time"
)

const (
	StatusRunning   = "RUNNING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

// Run is one catalog sync, persisted in ingest_runs.
type Run struct {
	ID         string     `json:"id"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
	Status     string     `json:"status"`
	Fetched    int        `json:"fetched"`
	Skipped    int        `json:"skipped"`
	Upserted   int        `json:"upserted"`
	Error      string     `json:"error,omitempty"`
}
