package model

import (
	"time"

	"github.com/google/uuid"
)

// SyncRun is the history record of one sync. Only counts are stored.
type SyncRun struct {
	ID         uuid.UUID `json:"id"`
	Identity   string    `json:"identity"`
	Succeeded  int       `json:"succeeded"`
	Failed     int       `json:"failed"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

func (r *SyncRun) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
