package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Freeeeeet/jadwal_sync/internal/model"
)

type SyncRunRepository struct {
	pool *pgxpool.Pool
}

func NewSyncRunRepository(pool *pgxpool.Pool) *SyncRunRepository {
	return &SyncRunRepository{pool: pool}
}

// Create stores a finished sync run.
func (r *SyncRunRepository) Create(ctx context.Context, run *model.SyncRun) error {
	query := `
		INSERT INTO sync_runs (id, identity, succeeded, failed, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(
		ctx, query,
		run.ID,
		run.Identity,
		run.Succeeded,
		run.Failed,
		run.StartedAt,
		run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("create sync run: %w", err)
	}

	return nil
}

// ListRecent returns the newest runs first.
func (r *SyncRunRepository) ListRecent(ctx context.Context, limit int) ([]*model.SyncRun, error) {
	query := `
		SELECT id, identity, succeeded, failed, started_at, finished_at
		FROM sync_runs
		ORDER BY started_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list sync runs: %w", err)
	}
	defer rows.Close()

	var runs []*model.SyncRun
	for rows.Next() {
		var run model.SyncRun
		err := rows.Scan(
			&run.ID,
			&run.Identity,
			&run.Succeeded,
			&run.Failed,
			&run.StartedAt,
			&run.FinishedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan sync run: %w", err)
		}
		runs = append(runs, &run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sync runs: %w", err)
	}

	return runs, nil
}

// DeleteOlderThan removes runs started before cutoff and returns how many were removed.
func (r *SyncRunRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sync_runs WHERE started_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old sync runs: %w", err)
	}
	return tag.RowsAffected(), nil
}
