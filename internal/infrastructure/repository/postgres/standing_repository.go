package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/courtdata/nba-analytics/internal/domain/standing"
)

type standingRow struct {
	TeamID int64 `db:"team_id"`
	Season int   `db:"season"`

	Wins       int     `db:"wins"`
	Losses     int     `db:"losses"`
	WinPct     float64 `db:"win_pct"`
	HomeWins   int     `db:"home_wins"`
	HomeLosses int     `db:"home_losses"`
	AwayWins   int     `db:"away_wins"`
	AwayLosses int     `db:"away_losses"`
	Streak     string  `db:"streak"`

	AvgPointsScored  float64   `db:"avg_points_scored"`
	AvgPointsAllowed float64   `db:"avg_points_allowed"`
	UpdatedAt        time.Time `db:"updated_at"`
}

func (r standingRow) toDomain() standing.TeamStanding {
	return standing.TeamStanding{
		TeamID:           r.TeamID,
		Season:           r.Season,
		Wins:             r.Wins,
		Losses:           r.Losses,
		WinPct:           r.WinPct,
		HomeWins:         r.HomeWins,
		HomeLosses:       r.HomeLosses,
		AwayWins:         r.AwayWins,
		AwayLosses:       r.AwayLosses,
		Streak:           r.Streak,
		AvgPointsScored:  r.AvgPointsScored,
		AvgPointsAllowed: r.AvgPointsAllowed,
		UpdatedAt:        r.UpdatedAt.UTC(),
	}
}

const standingColumns = `team_id, season, wins, losses, win_pct,
home_wins, home_losses, away_wins, away_losses, streak,
avg_points_scored, avg_points_allowed, updated_at`

type StandingRepository struct {
	db *sqlx.DB
}

func NewStandingRepository(db *sqlx.DB) *StandingRepository {
	return &StandingRepository{db: db}
}

func (r *StandingRepository) ListBySeason(ctx context.Context, season int) ([]standing.TeamStanding, error) {
	const query = `
SELECT ` + standingColumns + `
FROM team_standings
WHERE season = $1
ORDER BY win_pct DESC, wins DESC, team_id`

	var rows []standingRow
	if err := r.db.SelectContext(ctx, &rows, query, season); err != nil {
		return nil, fmt.Errorf("list standings by season: %w", err)
	}

	out := make([]standing.TeamStanding, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *StandingRepository) ReplaceBySeason(ctx context.Context, season int, items []standing.TeamStanding) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace standings: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM team_standings WHERE season = $1`, season); err != nil {
		return fmt.Errorf("clear standings: %w", err)
	}

	const insertQuery = `
INSERT INTO team_standings (` + standingColumns + `)
VALUES (:team_id, :season, :wins, :losses, :win_pct,
    :home_wins, :home_losses, :away_wins, :away_losses, :streak,
    :avg_points_scored, :avg_points_allowed, :updated_at)`

	for _, item := range items {
		row := standingRow{
			TeamID:           item.TeamID,
			Season:           item.Season,
			Wins:             item.Wins,
			Losses:           item.Losses,
			WinPct:           item.WinPct,
			HomeWins:         item.HomeWins,
			HomeLosses:       item.HomeLosses,
			AwayWins:         item.AwayWins,
			AwayLosses:       item.AwayLosses,
			Streak:           item.Streak,
			AvgPointsScored:  item.AvgPointsScored,
			AvgPointsAllowed: item.AvgPointsAllowed,
			UpdatedAt:        item.UpdatedAt.UTC(),
		}
		bound, args, err := sqlx.Named(insertQuery, row)
		if err != nil {
			return fmt.Errorf("build insert standing query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(bound), args...); err != nil {
			return fmt.Errorf("insert standing team=%d: %w", item.TeamID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace standings tx: %w", err)
	}
	return nil
}
