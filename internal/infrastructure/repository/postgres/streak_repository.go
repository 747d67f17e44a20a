package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/courtdata/nba-analytics/internal/domain/streak"
)

type streakRow struct {
	PlayerID int64  `db:"player_id"`
	Season   int    `db:"season"`
	Metric   string `db:"metric"`
	Type     string `db:"streak_type"`

	Length    int       `db:"length"`
	StartDate time.Time `db:"start_date"`
	BestValue float64   `db:"best_value"`
	AvgValue  float64   `db:"avg_value"`
	Threshold float64   `db:"threshold"`
	IsActive  bool      `db:"is_active"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r streakRow) toDomain() streak.Streak {
	return streak.Streak{
		PlayerID:  r.PlayerID,
		Season:    r.Season,
		Metric:    r.Metric,
		Type:      streak.Type(r.Type),
		Length:    r.Length,
		StartDate: r.StartDate.UTC(),
		BestValue: r.BestValue,
		AvgValue:  r.AvgValue,
		Threshold: r.Threshold,
		IsActive:  r.IsActive,
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

const streakColumns = `player_id, season, metric, streak_type, length,
start_date, best_value, avg_value, threshold, is_active, updated_at`

type StreakRepository struct {
	db *sqlx.DB
}

func NewStreakRepository(db *sqlx.DB) *StreakRepository {
	return &StreakRepository{db: db}
}

func (r *StreakRepository) ListByPlayerAndSeason(ctx context.Context, playerID int64, season int, activeOnly bool) ([]streak.Streak, error) {
	const query = `
SELECT ` + streakColumns + `
FROM performance_streaks
WHERE player_id = $1
  AND season = $2
  AND ($3 = FALSE OR is_active)
ORDER BY metric, streak_type`

	var rows []streakRow
	if err := r.db.SelectContext(ctx, &rows, query, playerID, season, activeOnly); err != nil {
		return nil, fmt.Errorf("list streaks by player and season: %w", err)
	}

	out := make([]streak.Streak, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *StreakRepository) Upsert(ctx context.Context, item streak.Streak) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert streak: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// A player is hot or cold on a metric, never both, so the opposite type
	// is retired in the same transaction.
	const deactivateQuery = `
UPDATE performance_streaks
SET is_active = FALSE, updated_at = $1
WHERE player_id = $2
  AND season = $3
  AND metric = $4
  AND streak_type <> $5
  AND is_active`

	if _, err := tx.ExecContext(ctx, deactivateQuery,
		item.UpdatedAt.UTC(), item.PlayerID, item.Season, item.Metric, string(item.Type)); err != nil {
		return fmt.Errorf("deactivate opposite streak: %w", err)
	}

	const upsertQuery = `
INSERT INTO performance_streaks (` + streakColumns + `)
VALUES (:player_id, :season, :metric, :streak_type, :length,
    :start_date, :best_value, :avg_value, :threshold, :is_active, :updated_at)
ON CONFLICT (player_id, season, metric, streak_type) DO UPDATE SET
    length = EXCLUDED.length,
    start_date = EXCLUDED.start_date,
    best_value = EXCLUDED.best_value,
    avg_value = EXCLUDED.avg_value,
    threshold = EXCLUDED.threshold,
    is_active = EXCLUDED.is_active,
    updated_at = EXCLUDED.updated_at`

	row := streakRow{
		PlayerID:  item.PlayerID,
		Season:    item.Season,
		Metric:    item.Metric,
		Type:      string(item.Type),
		Length:    item.Length,
		StartDate: item.StartDate.UTC(),
		BestValue: item.BestValue,
		AvgValue:  item.AvgValue,
		Threshold: item.Threshold,
		IsActive:  item.IsActive,
		UpdatedAt: item.UpdatedAt.UTC(),
	}
	bound, args, err := sqlx.Named(upsertQuery, row)
	if err != nil {
		return fmt.Errorf("build upsert streak query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(bound), args...); err != nil {
		return fmt.Errorf("upsert streak: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert streak tx: %w", err)
	}
	return nil
}

func (r *StreakRepository) DeactivateStale(ctx context.Context, playerID int64, season int, keep map[string]streak.Type) error {
	const listQuery = `
SELECT metric, streak_type
FROM performance_streaks
WHERE player_id = $1
  AND season = $2
  AND is_active`

	var rows []struct {
		Metric string `db:"metric"`
		Type   string `db:"streak_type"`
	}
	if err := r.db.SelectContext(ctx, &rows, listQuery, playerID, season); err != nil {
		return fmt.Errorf("list active streaks: %w", err)
	}

	const deactivateQuery = `
UPDATE performance_streaks
SET is_active = FALSE, updated_at = NOW()
WHERE player_id = $1
  AND season = $2
  AND metric = $3
  AND streak_type = $4`

	for _, row := range rows {
		if kept, ok := keep[row.Metric]; ok && string(kept) == row.Type {
			continue
		}
		if _, err := r.db.ExecContext(ctx, deactivateQuery, playerID, season, row.Metric, row.Type); err != nil {
			return fmt.Errorf("deactivate stale streak metric=%s: %w", row.Metric, err)
		}
	}

	return nil
}
