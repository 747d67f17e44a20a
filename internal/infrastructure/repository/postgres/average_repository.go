package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/courtdata/nba-analytics/internal/domain/average"
)

type averageRow struct {
	PlayerID    int64 `db:"player_id"`
	Season      int   `db:"season"`
	GamesPlayed int   `db:"games_played"`

	Minutes   float64 `db:"minutes"`
	FGM       float64 `db:"fgm"`
	FGA       float64 `db:"fga"`
	FGPct     float64 `db:"fg_pct"`
	FG3M      float64 `db:"fg3m"`
	FG3A      float64 `db:"fg3a"`
	FG3Pct    float64 `db:"fg3_pct"`
	FTM       float64 `db:"ftm"`
	FTA       float64 `db:"fta"`
	FTPct     float64 `db:"ft_pct"`
	OffReb    float64 `db:"off_reb"`
	DefReb    float64 `db:"def_reb"`
	Rebounds  float64 `db:"rebounds"`
	Assists   float64 `db:"assists"`
	Steals    float64 `db:"steals"`
	Blocks    float64 `db:"blocks"`
	Turnovers float64 `db:"turnovers"`
	Fouls     float64 `db:"fouls"`
	Points    float64 `db:"points"`

	TrueShootingPct float64   `db:"true_shooting_pct"`
	EffectiveFGPct  float64   `db:"effective_fg_pct"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (r averageRow) toDomain() average.SeasonAverage {
	return average.SeasonAverage{
		PlayerID:        r.PlayerID,
		Season:          r.Season,
		GamesPlayed:     r.GamesPlayed,
		Minutes:         r.Minutes,
		FGM:             r.FGM,
		FGA:             r.FGA,
		FGPct:           r.FGPct,
		FG3M:            r.FG3M,
		FG3A:            r.FG3A,
		FG3Pct:          r.FG3Pct,
		FTM:             r.FTM,
		FTA:             r.FTA,
		FTPct:           r.FTPct,
		OffReb:          r.OffReb,
		DefReb:          r.DefReb,
		Rebounds:        r.Rebounds,
		Assists:         r.Assists,
		Steals:          r.Steals,
		Blocks:          r.Blocks,
		Turnovers:       r.Turnovers,
		Fouls:           r.Fouls,
		Points:          r.Points,
		TrueShootingPct: r.TrueShootingPct,
		EffectiveFGPct:  r.EffectiveFGPct,
		UpdatedAt:       r.UpdatedAt.UTC(),
	}
}

func averageRowFromDomain(item average.SeasonAverage) averageRow {
	return averageRow{
		PlayerID:        item.PlayerID,
		Season:          item.Season,
		GamesPlayed:     item.GamesPlayed,
		Minutes:         item.Minutes,
		FGM:             item.FGM,
		FGA:             item.FGA,
		FGPct:           item.FGPct,
		FG3M:            item.FG3M,
		FG3A:            item.FG3A,
		FG3Pct:          item.FG3Pct,
		FTM:             item.FTM,
		FTA:             item.FTA,
		FTPct:           item.FTPct,
		OffReb:          item.OffReb,
		DefReb:          item.DefReb,
		Rebounds:        item.Rebounds,
		Assists:         item.Assists,
		Steals:          item.Steals,
		Blocks:          item.Blocks,
		Turnovers:       item.Turnovers,
		Fouls:           item.Fouls,
		Points:          item.Points,
		TrueShootingPct: item.TrueShootingPct,
		EffectiveFGPct:  item.EffectiveFGPct,
		UpdatedAt:       item.UpdatedAt.UTC(),
	}
}

const averageColumns = `player_id, season, games_played, minutes,
fgm, fga, fg_pct, fg3m, fg3a, fg3_pct, ftm, fta, ft_pct,
off_reb, def_reb, rebounds, assists, steals, blocks, turnovers, fouls, points,
true_shooting_pct, effective_fg_pct, updated_at`

type AverageRepository struct {
	db *sqlx.DB
}

func NewAverageRepository(db *sqlx.DB) *AverageRepository {
	return &AverageRepository{db: db}
}

func (r *AverageRepository) GetByPlayerAndSeason(ctx context.Context, playerID int64, season int) (average.SeasonAverage, bool, error) {
	const query = `
SELECT ` + averageColumns + `
FROM season_averages
WHERE player_id = $1
  AND season = $2`

	var row averageRow
	if err := r.db.GetContext(ctx, &row, query, playerID, season); err != nil {
		if isNotFound(err) {
			return average.SeasonAverage{}, false, nil
		}
		return average.SeasonAverage{}, false, fmt.Errorf("get season average: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *AverageRepository) ReplaceBySeason(ctx context.Context, season int, items []average.SeasonAverage) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace season averages: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM season_averages WHERE season = $1`, season); err != nil {
		return fmt.Errorf("clear season averages: %w", err)
	}

	const insertQuery = `
INSERT INTO season_averages (` + averageColumns + `)
VALUES (:player_id, :season, :games_played, :minutes,
    :fgm, :fga, :fg_pct, :fg3m, :fg3a, :fg3_pct, :ftm, :fta, :ft_pct,
    :off_reb, :def_reb, :rebounds, :assists, :steals, :blocks, :turnovers, :fouls, :points,
    :true_shooting_pct, :effective_fg_pct, :updated_at)`

	for _, item := range items {
		bound, args, err := sqlx.Named(insertQuery, averageRowFromDomain(item))
		if err != nil {
			return fmt.Errorf("build insert season average query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(bound), args...); err != nil {
			return fmt.Errorf("insert season average player=%d: %w", item.PlayerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace season averages tx: %w", err)
	}
	return nil
}
