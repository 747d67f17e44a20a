package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/courtdata/nba-analytics/internal/domain/syncrun"
)

type syncRunRow struct {
	ID          int64     `db:"id"`
	StartedAt   time.Time `db:"started_at"`
	Season      int       `db:"season"`
	GamesSynced int       `db:"games_synced"`
	StatsSynced int       `db:"stats_synced"`
	ErrorCount  int       `db:"error_count"`
	Status      string    `db:"status"`
	ErrorText   string    `db:"error_text"`
}

type SyncRunRepository struct {
	db *sqlx.DB
}

func NewSyncRunRepository(db *sqlx.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

func (r *SyncRunRepository) Record(ctx context.Context, run syncrun.Run) error {
	const query = `
INSERT INTO sync_runs (started_at, season, games_synced, stats_synced, error_count, status, error_text)
VALUES (:started_at, :season, :games_synced, :stats_synced, :error_count, :status, :error_text)`

	row := syncRunRow{
		StartedAt:   run.StartedAt.UTC(),
		Season:      run.Season,
		GamesSynced: run.GamesSynced,
		StatsSynced: run.StatsSynced,
		ErrorCount:  run.ErrorCount,
		Status:      string(run.Status),
		ErrorText:   syncrun.TruncateError(run.ErrorText),
	}
	bound, args, err := sqlx.Named(query, row)
	if err != nil {
		return fmt.Errorf("build record sync run query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(bound), args...); err != nil {
		return fmt.Errorf("record sync run: %w", err)
	}

	return nil
}

func (r *SyncRunRepository) ListRecent(ctx context.Context, limit int) ([]syncrun.Run, error) {
	const query = `
SELECT id, started_at, season, games_synced, stats_synced, error_count, status, error_text
FROM sync_runs
ORDER BY started_at DESC, id DESC
LIMIT $1`

	var rows []syncRunRow
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("list recent sync runs: %w", err)
	}

	out := make([]syncrun.Run, 0, len(rows))
	for _, row := range rows {
		out = append(out, syncrun.Run{
			ID:          row.ID,
			StartedAt:   row.StartedAt.UTC(),
			Season:      row.Season,
			GamesSynced: row.GamesSynced,
			StatsSynced: row.StatsSynced,
			ErrorCount:  row.ErrorCount,
			Status:      syncrun.Status(row.Status),
			ErrorText:   row.ErrorText,
		})
	}

	return out, nil
}
